package types

import (
	"time"

	"github.com/google/uuid"
)

// Subscription rows are written by the external billing reconciler; this
// service only reads them to resolve a caller's plan tier.
type Subscription struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Plan             string    `gorm:"column:plan;not null;default:'free'" json:"plan"`
	Status           string    `gorm:"column:status;not null" json:"status"`
	CurrentPeriodEnd time.Time `gorm:"column:current_period_end" json:"current_period_end"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscription" }
