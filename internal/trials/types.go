package trials

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/dates"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// View selects which slice of a user's trials a listing returns.
type View string

const (
	ViewAll     View = "all"
	ViewActive  View = "active"
	ViewOverdue View = "overdue"
	ViewHistory View = "history"
)

// ParseView maps raw query input onto a View. Empty input means all.
func ParseView(value string) (View, bool) {
	switch View(value) {
	case "", ViewAll:
		return ViewAll, true
	case ViewActive, ViewOverdue, ViewHistory:
		return View(value), true
	default:
		return "", false
	}
}

// CreateInput carries the fields accepted when registering a trial. EndDate
// is the calendar date the user picked; the service stores its end-of-day
// UTC instant.
type CreateInput struct {
	ServiceName      string
	EndDate          time.Time
	Cost             *decimal.Decimal
	BillingFrequency enums.BillingFrequency
}

// UpdateInput carries a partial update. Nil fields stay untouched.
type UpdateInput struct {
	ServiceName      *string
	EndDate          *time.Time
	Cost             *decimal.Decimal
	BillingFrequency *enums.BillingFrequency
}

// ListParams filters a trial listing.
type ListParams struct {
	View         View
	ExpiringSoon bool
	Search       string
	// SessionID scopes the overdue view to prompts the session has not yet
	// answered. Empty disables the guard.
	SessionID string
}

// TrialDTO is the API projection of a trial, with the countdown fields the
// dashboard renders.
type TrialDTO struct {
	ID               uuid.UUID              `json:"id"`
	ServiceName      string                 `json:"service_name"`
	EndDate          time.Time              `json:"end_date"`
	Cost             *decimal.Decimal       `json:"cost"`
	BillingFrequency enums.BillingFrequency `json:"billing_frequency"`
	Outcome          enums.Outcome          `json:"outcome"`
	Liked            bool                   `json:"liked"`
	DaysRemaining    int                    `json:"days_remaining"`
	IsExpired        bool                   `json:"is_expired"`
	LastNotified     *time.Time             `json:"last_notified,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

func toDTO(trial models.Trial, now time.Time) TrialDTO {
	outcome := trial.Outcome
	if outcome == "" {
		outcome = enums.OutcomeActive
	}
	return TrialDTO{
		ID:               trial.ID,
		ServiceName:      trial.ServiceName,
		EndDate:          trial.EndDate,
		Cost:             trial.Cost,
		BillingFrequency: trial.BillingFrequency,
		Outcome:          outcome,
		Liked:            trial.Liked,
		DaysRemaining:    dates.DaysRemainingAt(trial.EndDate, now),
		IsExpired:        dates.IsExpiredAt(trial.EndDate, now),
		LastNotified:     trial.LastNotified,
		CreatedAt:        trial.CreatedAt,
	}
}
