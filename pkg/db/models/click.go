package models

import (
	"time"

	"github.com/google/uuid"
)

// Click records a click-through to a curated trial's affiliate link.
// Append-only; there is no update or delete path.
type Click struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CuratedTrialID uuid.UUID  `gorm:"column:curated_trial_id;type:uuid;not null;index"`
	UserID         *uuid.UUID `gorm:"column:user_id;type:uuid"`
	SessionID      string     `gorm:"column:session_id;type:text;not null"`
	UserAgent      string     `gorm:"column:user_agent;type:text;not null"`
	IPAddress      string     `gorm:"column:ip_address;type:text;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
