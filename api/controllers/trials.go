package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/api/middleware"
	"github.com/jihowes/free-trial-snetinal-sub000/api/responses"
	"github.com/jihowes/free-trial-snetinal-sub000/api/validators"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/trials"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

type createTrialPayload struct {
	ServiceName      string           `json:"service_name" validate:"required,min=2"`
	EndDate          string           `json:"end_date" validate:"required"`
	Cost             *decimal.Decimal `json:"cost"`
	BillingFrequency string           `json:"billing_frequency"`
}

type updateTrialPayload struct {
	ServiceName      *string          `json:"service_name"`
	EndDate          *string          `json:"end_date"`
	Cost             *decimal.Decimal `json:"cost"`
	BillingFrequency *string          `json:"billing_frequency"`
}

type outcomePayload struct {
	Outcome string `json:"outcome" validate:"required"`
}

type likedPayload struct {
	Liked bool `json:"liked"`
}

// TrialsCreate registers a new trial for the authenticated user.
func TrialsCreate(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body createTrialPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		endDate, err := validators.ParseDate(body.EndDate)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		frequency, err := enums.ParseBillingFrequency(body.BillingFrequency)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing frequency"))
			return
		}

		trial, err := svc.Create(ctx, userID, trials.CreateInput{
			ServiceName:      body.ServiceName,
			EndDate:          endDate,
			Cost:             body.Cost,
			BillingFrequency: frequency,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, trial)
	}
}

// TrialsList returns the user's trials filtered by view, search and the
// expiring_soon flag.
func TrialsList(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view := trials.ViewAll
		if raw := strings.TrimSpace(r.URL.Query().Get("view")); raw != "" {
			parsed, ok := trials.ParseView(raw)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "view must be one of all, active, overdue, history"))
				return
			}
			view = parsed
		}

		list, err := svc.List(ctx, userID, trials.ListParams{
			View:         view,
			ExpiringSoon: validators.ParseQueryBool(r, "expiring_soon"),
			Search:       strings.TrimSpace(r.URL.Query().Get("search")),
			SessionID:    middleware.SessionIDFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TrialsGet returns one trial owned by the authenticated user.
func TrialsGet(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trialID, err := trialIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trial, err := svc.Get(ctx, userID, trialID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, trial)
	}
}

// TrialsUpdate applies a partial update. Omitted fields stay untouched.
func TrialsUpdate(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trialID, err := trialIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body updateTrialPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := trials.UpdateInput{
			ServiceName: body.ServiceName,
			Cost:        body.Cost,
		}
		if body.EndDate != nil {
			endDate, err := validators.ParseDate(*body.EndDate)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.EndDate = &endDate
		}
		if body.BillingFrequency != nil {
			frequency, err := enums.ParseBillingFrequency(*body.BillingFrequency)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing frequency"))
				return
			}
			input.BillingFrequency = &frequency
		}

		trial, err := svc.Update(ctx, userID, trialID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, trial)
	}
}

// TrialsSetOutcome resolves an active trial as kept, cancelled or expired.
func TrialsSetOutcome(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trialID, err := trialIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body outcomePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		outcome, err := enums.ParseOutcome(body.Outcome)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid outcome"))
			return
		}

		trial, err := svc.SetOutcome(ctx, userID, trialID, outcome, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, trial)
	}
}

// TrialsSetLiked toggles the liked flag on a trial.
func TrialsSetLiked(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trialID, err := trialIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body likedPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.SetLiked(ctx, userID, trialID, body.Liked); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"liked": body.Liked})
	}
}

// TrialsDelete removes a trial owned by the authenticated user.
func TrialsDelete(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trialID, err := trialIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, userID, trialID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// TrialsSummary returns savings totals across the user's trials.
func TrialsSummary(svc trials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trial service unavailable"))
			return
		}

		userID, err := authedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.Summary(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func trialIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "trialID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "trial id is required")
	}
	trialID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trial id")
	}
	return trialID, nil
}
