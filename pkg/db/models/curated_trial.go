package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// CuratedTrial is an admin-curated offer shown in the public directory. Rows
// are managed out of band; the application only ever reads them.
type CuratedTrial struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceName      string                 `gorm:"column:service_name;type:text;not null"`
	TrialLengthDays  int                    `gorm:"column:trial_length_days;not null"`
	Category         string                 `gorm:"column:category;type:text;not null;index"`
	Regions          pq.StringArray         `gorm:"column:regions;type:text[];not null;default:ARRAY[]::text[]"`
	AffiliateURL     string                 `gorm:"column:affiliate_url;type:text;not null"`
	SentinelScore    int                    `gorm:"column:sentinel_score;not null"`
	Description      string                 `gorm:"column:description;type:text;not null"`
	MonthlyPrice     decimal.Decimal        `gorm:"column:monthly_price;type:numeric(8,2);not null"`
	BillingFrequency enums.BillingFrequency `gorm:"column:billing_frequency;type:text;not null;default:'monthly'"`
	IsActive         bool                   `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
