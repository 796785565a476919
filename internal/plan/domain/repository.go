package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByProductID(ctx context.Context, db *gorm.DB, ventureID int64, productID string) (*Plan, error)
	FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64) ([]Plan, error)
	CountActive(ctx context.Context, db *gorm.DB, ventureID int64) (int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, ventureID int64, productID string) error
}
