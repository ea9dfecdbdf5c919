package emails

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/email"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

// WelcomeResult reports what the welcome flow did. AlreadySent means an
// earlier welcome exists and nothing was delivered this call.
type WelcomeResult struct {
	AlreadySent       bool
	Message           string
	LogID             uuid.UUID
	ProviderMessageID string
}

// ServiceParams groups dependencies for the email service.
type ServiceParams struct {
	EmailLogRepo Repository
	Sender       email.Sender
	Logger       *logger.Logger
	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// Service sends transactional email with an audit row per attempt.
type Service interface {
	SendWelcome(ctx context.Context, userID uuid.UUID, recipient, displayName string) (WelcomeResult, error)
	SendReminder(ctx context.Context, userID uuid.UUID, recipient string, data ReminderData) (string, error)
}

type service struct {
	emailLogRepo Repository
	sender       email.Sender
	logg         *logger.Logger
	now          func() time.Time
}

// NewService builds an email service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.EmailLogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email log repo is required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email sender is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		emailLogRepo: params.EmailLogRepo,
		sender:       params.Sender,
		logg:         params.Logger,
		now:          clock,
	}, nil
}

// SendWelcome delivers the onboarding email once per user. A second call
// finds the earlier sent or in-flight log row and reports success without
// sending again. A failed attempt leaves no such row, so it can be retried.
func (s *service) SendWelcome(ctx context.Context, userID uuid.UUID, recipient, displayName string) (WelcomeResult, error) {
	if userID == uuid.Nil {
		return WelcomeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return WelcomeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "recipient email is required")
	}

	existing, err := s.emailLogRepo.FindDeliveredByUserAndType(ctx, userID, enums.EmailTypeWelcome)
	if err == nil {
		return WelcomeResult{
			AlreadySent: true,
			Message:     "welcome email already sent",
			LogID:       existing.ID,
		}, nil
	}
	if !repo.IsNotFound(err) {
		return WelcomeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check welcome history")
	}

	rendered, err := RenderWelcome(WelcomeData{DisplayName: displayName})
	if err != nil {
		return WelcomeResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render welcome email")
	}

	providerID, logID, err := s.deliver(ctx, userID, recipient, enums.EmailTypeWelcome, rendered)
	if err != nil {
		return WelcomeResult{}, err
	}
	return WelcomeResult{
		Message:           "welcome email sent",
		LogID:             logID,
		ProviderMessageID: providerID,
	}, nil
}

// SendReminder delivers a countdown reminder and returns the provider id.
// Every attempt gets its own log row; reminders are not deduplicated here,
// the caller's last_notified guard handles that.
func (s *service) SendReminder(ctx context.Context, userID uuid.UUID, recipient string, data ReminderData) (string, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "recipient email is required")
	}

	rendered, err := RenderReminder(data)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render reminder email")
	}

	providerID, _, err := s.deliver(ctx, userID, recipient, enums.EmailTypeTrialReminder, rendered)
	return providerID, err
}

// deliver writes the pending log row, attempts the send, then settles the
// row to sent or failed. The log row survives either way.
func (s *service) deliver(ctx context.Context, userID uuid.UUID, recipient string, emailType enums.EmailType, rendered Rendered) (string, uuid.UUID, error) {
	log := models.EmailLog{
		UserID:    userID,
		EmailType: emailType,
		Recipient: recipient,
		Subject:   rendered.Subject,
		Status:    enums.EmailStatusPending,
	}
	if err := s.emailLogRepo.Create(ctx, &log); err != nil {
		return "", uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create email log")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"email_type": emailType.String(),
		"log_id":     log.ID.String(),
	})

	providerID, sendErr := s.sender.Send(ctx, email.Message{
		From:    s.sender.DefaultFrom(),
		To:      recipient,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
	})
	if sendErr != nil {
		if markErr := s.emailLogRepo.MarkFailed(ctx, log.ID, sendErr.Error()); markErr != nil {
			s.logg.Error(ctx, "mark email failed", markErr)
		}
		s.logg.Error(ctx, "email delivery failed", sendErr)
		return "", log.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, sendErr, "send email")
	}

	if err := s.emailLogRepo.MarkSent(ctx, log.ID, providerID); err != nil {
		s.logg.Error(ctx, "mark email sent", err)
	}
	s.logg.Info(ctx, "email delivered")
	return providerID, log.ID, nil
}
