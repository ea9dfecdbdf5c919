package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// Trial is a user-owned free-trial subscription record. EndDate is stored as
// the end-of-day instant (23:59:59.999) of the calendar date the user picked,
// converted to UTC. Cost is nil when the user never entered one.
type Trial struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	ServiceName      string                 `gorm:"column:service_name;type:text;not null"`
	EndDate          time.Time              `gorm:"column:end_date;type:timestamptz;not null;index"`
	Cost             *decimal.Decimal       `gorm:"column:cost;type:numeric(8,2)"`
	BillingFrequency enums.BillingFrequency `gorm:"column:billing_frequency;type:text;not null;default:'monthly'"`
	Outcome          enums.Outcome          `gorm:"column:outcome;type:text;not null;default:'active'"`
	Liked            bool                   `gorm:"column:liked;not null;default:false"`
	LastNotified     *time.Time             `gorm:"column:last_notified;type:timestamptz"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
