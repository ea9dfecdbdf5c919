package trials

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// Repository encapsulates trial persistence. Every query is scoped to the
// owning user.
type Repository interface {
	Create(ctx context.Context, trial *models.Trial) error
	FindByID(ctx context.Context, trialID, userID uuid.UUID) (models.Trial, error)
	ListByUser(ctx context.Context, userID uuid.UUID, view View, search string, now time.Time) ([]models.Trial, error)
	UpdateFields(ctx context.Context, trialID, userID uuid.UUID, fields map[string]any) (int64, error)
	SetOutcomeIfActive(ctx context.Context, trialID, userID uuid.UUID, outcome enums.Outcome) (int64, error)
	SetLiked(ctx context.Context, trialID, userID uuid.UUID, liked bool) (int64, error)
	MarkNotified(ctx context.Context, trialID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, trialID, userID uuid.UUID) (int64, error)
	ListDueForReminder(ctx context.Context, targets []time.Time, notifiedBefore time.Time, limit int) ([]models.Trial, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository constructs a trial repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

// Create inserts the trial and backfills generated columns.
func (r *repositoryImpl) Create(ctx context.Context, trial *models.Trial) error {
	return r.DB(ctx).Create(trial).Error
}

// FindByID loads a single trial owned by the user.
func (r *repositoryImpl) FindByID(ctx context.Context, trialID, userID uuid.UUID) (models.Trial, error) {
	var trial models.Trial
	err := r.DB(ctx).
		Where("id = ? AND user_id = ?", trialID, userID).
		First(&trial).
		Error
	return trial, err
}

// ListByUser returns the user's trials matching the filters, ordered by
// end_date ascending so the soonest deadline renders first.
func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, view View, search string, now time.Time) ([]models.Trial, error) {
	query := r.DB(ctx).
		Model(&models.Trial{}).
		Where("user_id = ?", userID)

	switch view {
	case ViewActive:
		query = query.Where("(outcome = ? OR outcome = '')", enums.OutcomeActive).
			Where("end_date >= ?", now)
	case ViewOverdue:
		query = query.Where("(outcome = ? OR outcome = '')", enums.OutcomeActive).
			Where("end_date < ?", now)
	case ViewHistory:
		query = query.Where("outcome IN ?", []enums.Outcome{
			enums.OutcomeKept,
			enums.OutcomeCancelled,
			enums.OutcomeExpired,
		})
	}

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		query = query.Where("LOWER(service_name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	var trialList []models.Trial
	if err := query.Order("end_date ASC").Find(&trialList).Error; err != nil {
		return nil, err
	}
	return trialList, nil
}

// UpdateFields applies a partial update scoped by id and owner. Returns the
// number of rows touched so callers can distinguish missing records.
func (r *repositoryImpl) UpdateFields(ctx context.Context, trialID, userID uuid.UUID, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	result := r.DB(ctx).
		Model(&models.Trial{}).
		Where("id = ? AND user_id = ?", trialID, userID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// SetOutcomeIfActive records a disposition only when the trial is still
// active. A zero row count means the trial was missing or already decided.
func (r *repositoryImpl) SetOutcomeIfActive(ctx context.Context, trialID, userID uuid.UUID, outcome enums.Outcome) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Trial{}).
		Where("id = ? AND user_id = ?", trialID, userID).
		Where("(outcome = ? OR outcome = '')", enums.OutcomeActive).
		Update("outcome", outcome)
	return result.RowsAffected, result.Error
}

// SetLiked flips the liked flag without touching any other column.
func (r *repositoryImpl) SetLiked(ctx context.Context, trialID, userID uuid.UUID, liked bool) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Trial{}).
		Where("id = ? AND user_id = ?", trialID, userID).
		Update("liked", liked)
	return result.RowsAffected, result.Error
}

// MarkNotified stamps last_notified after a reminder was delivered.
func (r *repositoryImpl) MarkNotified(ctx context.Context, trialID uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Trial{}).
		Where("id = ?", trialID).
		Update("last_notified", at).
		Error
}

// Delete removes the trial when owned by the user.
func (r *repositoryImpl) Delete(ctx context.Context, trialID, userID uuid.UUID) (int64, error) {
	result := r.DB(ctx).
		Where("id = ? AND user_id = ?", trialID, userID).
		Delete(&models.Trial{})
	return result.RowsAffected, result.Error
}

// ListDueForReminder returns active trials whose end date matches one of the
// target instants and that were not notified inside the guard window.
func (r *repositoryImpl) ListDueForReminder(ctx context.Context, targets []time.Time, notifiedBefore time.Time, limit int) ([]models.Trial, error) {
	query := r.DB(ctx).
		Model(&models.Trial{}).
		Where("(outcome = ? OR outcome = '')", enums.OutcomeActive).
		Where("end_date IN ?", targets).
		Where("last_notified IS NULL OR last_notified < ?", notifiedBefore).
		Order("end_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var trialList []models.Trial
	if err := query.Find(&trialList).Error; err != nil {
		return nil, err
	}
	return trialList, nil
}
