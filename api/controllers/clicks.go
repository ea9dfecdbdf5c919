package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/api/middleware"
	"github.com/jihowes/free-trial-snetinal-sub000/api/responses"
	"github.com/jihowes/free-trial-snetinal-sub000/api/validators"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/clicks"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

type trackClickPayload struct {
	TrialID string `json:"trial_id" validate:"required"`
}

// TrackClick records a click-through on a curated offer. Works for anonymous
// sessions; a valid bearer token additionally attributes the click to a user.
func TrackClick(svc clicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "click service unavailable"))
			return
		}

		var body trackClickPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		curatedTrialID, err := uuid.Parse(strings.TrimSpace(body.TrialID))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trial id"))
			return
		}

		input := clicks.RecordInput{
			CuratedTrialID: curatedTrialID,
			SessionID:      middleware.SessionIDFromContext(ctx),
			UserAgent:      r.UserAgent(),
			IPAddress:      clientIPString(r),
		}
		if raw := middleware.UserIDFromContext(ctx); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				input.UserID = &userID
			}
		}

		if err := svc.Record(ctx, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

func clientIPString(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		if idx := strings.IndexByte(header, ','); idx >= 0 {
			return strings.TrimSpace(header[:idx])
		}
		return strings.TrimSpace(header)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host
}
