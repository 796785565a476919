package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindBySubscriptionID(ctx context.Context, db *gorm.DB, ventureID int64, subscriptionID string) (*Subscription, error)
	FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64) ([]Subscription, error)
	CountByStatus(ctx context.Context, db *gorm.DB, ventureID int64, statuses []string) (int64, error)
}
