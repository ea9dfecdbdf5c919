package trials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/stats"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/dates"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

const (
	minServiceNameLen = 2
	expiringSoonDays  = 7
)

var maxTrialCost = decimal.RequireFromString("999999.99")

// ServiceParams groups dependencies for the trial service.
type ServiceParams struct {
	TrialRepo   Repository
	PromptGuard *PromptGuard
	Logger      *logger.Logger
	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// Service exposes business rules for trial tracking.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (TrialDTO, error)
	Get(ctx context.Context, userID, trialID uuid.UUID) (TrialDTO, error)
	List(ctx context.Context, userID uuid.UUID, params ListParams) ([]TrialDTO, error)
	Update(ctx context.Context, userID, trialID uuid.UUID, input UpdateInput) (TrialDTO, error)
	SetOutcome(ctx context.Context, userID, trialID uuid.UUID, outcome enums.Outcome, sessionID string) (TrialDTO, error)
	SetLiked(ctx context.Context, userID, trialID uuid.UUID, liked bool) error
	Delete(ctx context.Context, userID, trialID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID) (stats.Summary, error)
}

type service struct {
	trialRepo   Repository
	promptGuard *PromptGuard
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds a trial service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TrialRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trial repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		trialRepo:   params.TrialRepo,
		promptGuard: params.PromptGuard,
		logg:        params.Logger,
		now:         clock,
	}, nil
}

// Create validates and stores a new trial for the user. The end date is
// normalized to its end-of-day UTC instant before persisting.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (TrialDTO, error) {
	if userID == uuid.Nil {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	now := s.now()

	name := strings.TrimSpace(input.ServiceName)
	if len(name) < minServiceNameLen {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("service name must be at least %d characters", minServiceNameLen))
	}
	if input.EndDate.IsZero() {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "end date is required")
	}
	endDate := dates.EndOfDay(input.EndDate.Year(), input.EndDate.Month(), input.EndDate.Day(), time.UTC)
	if endDate.Before(now) {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "end date cannot be in the past")
	}
	if err := validateCost(input.Cost); err != nil {
		return TrialDTO{}, err
	}

	frequency := input.BillingFrequency
	if frequency == "" {
		frequency = enums.BillingFrequencyMonthly
	}
	if !frequency.IsValid() {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid billing frequency")
	}

	trial := models.Trial{
		UserID:           userID,
		ServiceName:      name,
		EndDate:          endDate,
		Cost:             input.Cost,
		BillingFrequency: frequency,
		Outcome:          enums.OutcomeActive,
	}
	if err := s.trialRepo.Create(ctx, &trial); err != nil {
		return TrialDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trial")
	}

	ctx = s.logg.WithTrialID(ctx, trial.ID.String())
	s.logg.Info(ctx, "trial created")
	return toDTO(trial, now), nil
}

// Get loads a single trial owned by the user.
func (s *service) Get(ctx context.Context, userID, trialID uuid.UUID) (TrialDTO, error) {
	trial, err := s.loadOwned(ctx, userID, trialID)
	if err != nil {
		return TrialDTO{}, err
	}
	return toDTO(trial, s.now()), nil
}

// List returns the user's trials under the requested view and filters.
func (s *service) List(ctx context.Context, userID uuid.UUID, params ListParams) ([]TrialDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	now := s.now()

	view := params.View
	if view == "" {
		view = ViewAll
	}

	trialList, err := s.trialRepo.ListByUser(ctx, userID, view, params.Search, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trials")
	}

	result := make([]TrialDTO, 0, len(trialList))
	for _, trial := range trialList {
		dto := toDTO(trial, now)
		if params.ExpiringSoon && (dto.DaysRemaining <= 0 || dto.DaysRemaining > expiringSoonDays) {
			continue
		}
		if view == ViewOverdue && s.promptGuard.IsAnswered(ctx, params.SessionID, trial.ID.String()) {
			continue
		}
		result = append(result, dto)
	}
	return result, nil
}

// Update applies a partial edit to a trial the user owns.
func (s *service) Update(ctx context.Context, userID, trialID uuid.UUID, input UpdateInput) (TrialDTO, error) {
	now := s.now()
	if _, err := s.loadOwned(ctx, userID, trialID); err != nil {
		return TrialDTO{}, err
	}

	fields := map[string]any{}
	if input.ServiceName != nil {
		name := strings.TrimSpace(*input.ServiceName)
		if len(name) < minServiceNameLen {
			return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("service name must be at least %d characters", minServiceNameLen))
		}
		fields["service_name"] = name
	}
	if input.EndDate != nil {
		endDate := dates.EndOfDay(input.EndDate.Year(), input.EndDate.Month(), input.EndDate.Day(), time.UTC)
		fields["end_date"] = endDate
	}
	if input.Cost != nil {
		if err := validateCost(input.Cost); err != nil {
			return TrialDTO{}, err
		}
		fields["cost"] = *input.Cost
	}
	if input.BillingFrequency != nil {
		if !input.BillingFrequency.IsValid() {
			return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid billing frequency")
		}
		fields["billing_frequency"] = *input.BillingFrequency
	}

	if len(fields) > 0 {
		if _, err := s.trialRepo.UpdateFields(ctx, trialID, userID, fields); err != nil {
			return TrialDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trial")
		}
	}

	trial, err := s.loadOwned(ctx, userID, trialID)
	if err != nil {
		return TrialDTO{}, err
	}
	return toDTO(trial, now), nil
}

// SetOutcome records the user's disposition for a trial. Only active trials
// transition; decided trials stay as they are and the caller gets a state
// conflict. On success the session's overdue prompt for the trial is marked
// answered so it never re-surfaces.
func (s *service) SetOutcome(ctx context.Context, userID, trialID uuid.UUID, outcome enums.Outcome, sessionID string) (TrialDTO, error) {
	if !outcome.IsValid() || !outcome.IsTerminal() {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "outcome must be kept, cancelled or expired")
	}

	trial, err := s.loadOwned(ctx, userID, trialID)
	if err != nil {
		return TrialDTO{}, err
	}
	current := trial.Outcome
	if current == "" {
		current = enums.OutcomeActive
	}
	if current.IsTerminal() {
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("trial already resolved as %s", current))
	}

	affected, err := s.trialRepo.SetOutcomeIfActive(ctx, trialID, userID, outcome)
	if err != nil {
		return TrialDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record trial outcome")
	}
	if affected == 0 {
		// raced by another disposition between the read and the write
		return TrialDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "trial already resolved")
	}

	ctx = s.logg.WithTrialID(ctx, trialID.String())
	if err := s.promptGuard.MarkAnswered(ctx, sessionID, trialID.String()); err != nil {
		s.logg.Error(ctx, "prompt guard write failed", err)
	}

	trial.Outcome = outcome
	ctx = s.logg.WithField(ctx, "outcome", outcome.String())
	s.logg.Info(ctx, "trial outcome recorded")
	return toDTO(trial, s.now()), nil
}

// SetLiked flips the liked flag.
func (s *service) SetLiked(ctx context.Context, userID, trialID uuid.UUID, liked bool) error {
	affected, err := s.trialRepo.SetLiked(ctx, trialID, userID, liked)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update liked flag")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "trial not found")
	}
	return nil
}

// Delete removes a trial the user owns.
func (s *service) Delete(ctx context.Context, userID, trialID uuid.UUID) error {
	affected, err := s.trialRepo.Delete(ctx, trialID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete trial")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "trial not found")
	}
	return nil
}

// Summary recomputes the dashboard aggregates from the user's full trial set.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (stats.Summary, error) {
	if userID == uuid.Nil {
		return stats.Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	trialList, err := s.trialRepo.ListByUser(ctx, userID, ViewAll, "", s.now())
	if err != nil {
		return stats.Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trials for summary")
	}
	return stats.Compute(trialList, s.now()), nil
}

func (s *service) loadOwned(ctx context.Context, userID, trialID uuid.UUID) (models.Trial, error) {
	if userID == uuid.Nil {
		return models.Trial{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if trialID == uuid.Nil {
		return models.Trial{}, pkgerrors.New(pkgerrors.CodeValidation, "trial id is required")
	}
	trial, err := s.trialRepo.FindByID(ctx, trialID, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return models.Trial{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "trial not found")
		}
		return models.Trial{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trial")
	}
	return trial, nil
}

func validateCost(cost *decimal.Decimal) error {
	if cost == nil {
		return nil
	}
	if cost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	if cost.GreaterThan(maxTrialCost) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost exceeds the supported maximum")
	}
	return nil
}
