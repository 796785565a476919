package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusChurned  = "churned"
)

const DefaultPlan = "free"

// Signup is one person per venture, keyed by (venture_id, email). Repeated
// ingestion of the same email updates the row in place.
type Signup struct {
	ID        int64             `json:"id" gorm:"primaryKey"`
	VentureID int64             `json:"venture_id" gorm:"not null;uniqueIndex:ux_signups_venture_email,priority:1"`
	Email     string            `json:"email" gorm:"type:text;not null;uniqueIndex:ux_signups_venture_email,priority:2"`
	Name      string            `json:"name" gorm:"type:text;not null;default:''"`
	Plan      string            `json:"plan" gorm:"type:text;not null;default:free"`
	Status    string            `json:"status" gorm:"type:text;not null;default:active"`
	Source    string            `json:"source" gorm:"type:text;not null;default:''"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Signup) TableName() string { return "signups" }
