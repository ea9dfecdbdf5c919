package clicks

import (
	"context"

	"gorm.io/gorm"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
)

// Repository persists click-through events. Append-only.
type Repository interface {
	Create(ctx context.Context, click *models.Click) error
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository constructs a click repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) Create(ctx context.Context, click *models.Click) error {
	return r.DB(ctx).Create(click).Error
}
