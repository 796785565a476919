package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Event is one raw ingested event, kept as an append-only activity feed.
type Event struct {
	ID         int64             `json:"id" gorm:"primaryKey"`
	VentureID  int64             `json:"venture_id" gorm:"not null;index:ix_events_venture_occurred,priority:1"`
	Type       string            `json:"type" gorm:"type:text;not null"`
	Email      *string           `json:"email,omitempty" gorm:"type:text"`
	Payload    datatypes.JSONMap `json:"payload,omitempty" gorm:"type:jsonb"`
	OccurredAt time.Time         `json:"occurred_at" gorm:"not null;index:ix_events_venture_occurred,priority:2;default:CURRENT_TIMESTAMP"`
	CreatedAt  time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Event) TableName() string { return "events" }
