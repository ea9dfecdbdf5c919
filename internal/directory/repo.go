package directory

import (
	"context"

	"gorm.io/gorm"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
)

// Repository reads the curated trial catalog. Rows are managed out of band,
// so there is no write path here.
type Repository interface {
	ListActive(ctx context.Context) ([]models.CuratedTrial, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository constructs a directory repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) ListActive(ctx context.Context) ([]models.CuratedTrial, error) {
	var curated []models.CuratedTrial
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Find(&curated).
		Error
	if err != nil {
		return nil, err
	}
	return curated, nil
}
