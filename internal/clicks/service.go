package clicks

import (
	"context"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

// RecordInput describes one click-through on a curated offer. UserID is nil
// for anonymous visitors.
type RecordInput struct {
	CuratedTrialID uuid.UUID
	UserID         *uuid.UUID
	SessionID      string
	UserAgent      string
	IPAddress      string
}

// Service records affiliate click-throughs.
type Service interface {
	Record(ctx context.Context, input RecordInput) error
}

type service struct {
	clickRepo Repository
	logg      *logger.Logger
}

// NewService builds a click service with the required dependencies.
func NewService(clickRepo Repository, logg *logger.Logger) (Service, error) {
	if clickRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "click repo is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{clickRepo: clickRepo, logg: logg}, nil
}

// Record stores the click event.
func (s *service) Record(ctx context.Context, input RecordInput) error {
	if input.CuratedTrialID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "trial id is required")
	}

	click := models.Click{
		CuratedTrialID: input.CuratedTrialID,
		UserID:         input.UserID,
		SessionID:      input.SessionID,
		UserAgent:      input.UserAgent,
		IPAddress:      input.IPAddress,
	}
	if err := s.clickRepo.Create(ctx, &click); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record click")
	}

	ctx = s.logg.WithField(ctx, "curated_trial_id", input.CuratedTrialID.String())
	s.logg.Info(ctx, "click recorded")
	return nil
}
