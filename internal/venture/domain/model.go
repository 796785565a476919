package domain

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Venture lifecycle statuses. Open strings by design: the dashboard renders
// whatever it finds, with these as the well-known set.
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusExited   = "exited"
	StatusArchived = "archived"
)

type Venture struct {
	ID                  int64             `json:"id" gorm:"primaryKey"`
	Slug                string            `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_ventures_slug"`
	Name                string            `json:"name" gorm:"type:text;not null"`
	Status              string            `json:"status" gorm:"type:text;not null;default:active"`
	TargetARR           int64             `json:"target_arr" gorm:"column:target_arr;not null;default:1000000"`
	StripeSecretKey     *string           `json:"-" gorm:"type:text"`
	StripeWebhookSecret *string           `json:"-" gorm:"type:text"`
	LastSyncAt          *time.Time        `json:"last_sync_at,omitempty"`
	LastSyncError       *string           `json:"last_sync_error,omitempty" gorm:"type:text"`
	Metadata            datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt           time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Venture) TableName() string { return "ventures" }

// IDString renders the snowflake ID the way responses carry it. int64 IDs
// overflow JSON number precision in browsers, so they travel as strings.
func (v *Venture) IDString() string { return strconv.FormatInt(v.ID, 10) }

func (v *Venture) HasSecretKey() bool {
	return v != nil && v.StripeSecretKey != nil && *v.StripeSecretKey != ""
}

func (v *Venture) HasWebhookSecret() bool {
	return v != nil && v.StripeWebhookSecret != nil && *v.StripeWebhookSecret != ""
}
