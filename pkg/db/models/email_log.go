package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

// EmailLog is one row per attempted transactional email. The welcome flow
// uses it as an idempotency guard; everything else treats it as audit trail.
type EmailLog struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	EmailType         enums.EmailType   `gorm:"column:email_type;type:text;not null"`
	Recipient         string            `gorm:"column:recipient;type:text;not null"`
	Subject           string            `gorm:"column:subject;type:text;not null"`
	Status            enums.EmailStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ProviderMessageID *string           `gorm:"column:provider_message_id;type:text"`
	ErrorMessage      *string           `gorm:"column:error_message;type:text"`
	RetryCount        int               `gorm:"column:retry_count;not null;default:0"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
