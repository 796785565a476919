package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, event *Event) error
	FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64, limit int) ([]Event, error)
	CountByType(ctx context.Context, db *gorm.DB, ventureID int64, eventType string, since time.Time) (int64, error)
}
