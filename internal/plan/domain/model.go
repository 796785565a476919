package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Plan mirrors one Stripe product for a venture.
type Plan struct {
	ID              int64             `json:"id" gorm:"primaryKey"`
	VentureID       int64             `json:"venture_id" gorm:"not null;uniqueIndex:ux_plans_venture_product,priority:1"`
	StripeProductID string            `json:"stripe_product_id" gorm:"type:text;not null;uniqueIndex:ux_plans_venture_product,priority:2"`
	Name            string            `json:"name" gorm:"type:text;not null"`
	Description     *string           `json:"description,omitempty" gorm:"type:text"`
	Active          bool              `json:"active" gorm:"not null;default:true"`
	Features        datatypes.JSONMap `json:"features,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string { return "plans" }
