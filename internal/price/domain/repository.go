package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, price *Price) error
	FindByPriceID(ctx context.Context, db *gorm.DB, ventureID int64, priceID string) (*Price, error)
	FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64) ([]Price, error)
	Deactivate(ctx context.Context, db *gorm.DB, ventureID int64, priceID string) error
}
