package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Base carries the gorm connection shared by the domain repositories. Embed
// it and reach the store through DB so every query inherits the request
// context.
type Base struct {
	db *gorm.DB
}

// NewBase wraps the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// IsNotFound reports whether err means the row does not exist, so services
// can map it to a typed not-found error without importing gorm.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
