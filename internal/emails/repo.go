package emails

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// Repository persists the email audit log.
type Repository interface {
	Create(ctx context.Context, log *models.EmailLog) error
	FindDeliveredByUserAndType(ctx context.Context, userID uuid.UUID, emailType enums.EmailType) (models.EmailLog, error)
	MarkSent(ctx context.Context, logID uuid.UUID, providerMessageID string) error
	MarkFailed(ctx context.Context, logID uuid.UUID, errorMessage string) error
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository constructs an email log repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) Create(ctx context.Context, log *models.EmailLog) error {
	return r.DB(ctx).Create(log).Error
}

// FindDeliveredByUserAndType returns the most recent sent or in-flight log
// row of the given type for the user. Failed attempts are ignored so the
// caller can retry them. gorm.ErrRecordNotFound when none exists.
func (r *repositoryImpl) FindDeliveredByUserAndType(ctx context.Context, userID uuid.UUID, emailType enums.EmailType) (models.EmailLog, error) {
	var log models.EmailLog
	err := r.DB(ctx).
		Where("user_id = ? AND email_type = ? AND status IN ?", userID, emailType,
			[]enums.EmailStatus{enums.EmailStatusSent, enums.EmailStatusPending}).
		Order("created_at DESC").
		First(&log).
		Error
	return log, err
}

func (r *repositoryImpl) MarkSent(ctx context.Context, logID uuid.UUID, providerMessageID string) error {
	return r.DB(ctx).
		Model(&models.EmailLog{}).
		Where("id = ?", logID).
		Updates(map[string]any{
			"status":              enums.EmailStatusSent,
			"provider_message_id": providerMessageID,
			"error_message":       nil,
		}).
		Error
}

func (r *repositoryImpl) MarkFailed(ctx context.Context, logID uuid.UUID, errorMessage string) error {
	return r.DB(ctx).
		Model(&models.EmailLog{}).
		Where("id = ?", logID).
		Updates(map[string]any{
			"status":        enums.EmailStatusFailed,
			"error_message": errorMessage,
			"retry_count":   gorm.Expr("retry_count + 1"),
		}).
		Error
}
