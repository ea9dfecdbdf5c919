package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/api/responses"
	"github.com/jihowes/free-trial-snetinal-sub000/api/validators"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

type welcomeEmailPayload struct {
	UserID       string `json:"user_id" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

type welcomeEmailResponse struct {
	Message string `json:"message"`
	EmailID string `json:"email_id,omitempty"`
	LogID   string `json:"log_id,omitempty"`
}

// SendWelcomeEmail delivers the onboarding email for a user. Calling it again
// for the same user reports success without sending a second email.
func SendWelcomeEmail(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "email service unavailable"))
			return
		}

		var body welcomeEmailPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userID, err := uuid.Parse(body.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		result, err := svc.SendWelcome(ctx, userID, body.Email, body.UserMetadata.Name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := welcomeEmailResponse{
			Message: result.Message,
			EmailID: result.ProviderMessageID,
		}
		if result.LogID != uuid.Nil {
			resp.LogID = result.LogID.String()
		}
		responses.WriteSuccess(w, resp)
	}
}
