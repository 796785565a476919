package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foundrylabs/venturedash/internal/price/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Upsert(ctx context.Context, db *gorm.DB, price *domain.Price) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venture_id"}, {Name: "stripe_price_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_id", "unit_amount", "currency", "interval", "interval_count",
			"active", "is_default", "updated_at",
		}),
	}).Create(price).Error
}

func (r *repository) FindByPriceID(ctx context.Context, db *gorm.DB, ventureID int64, priceID string) (*domain.Price, error) {
	var price domain.Price
	err := db.WithContext(ctx).
		First(&price, "venture_id = ? AND stripe_price_id = ?", ventureID, priceID).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *repository) FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64) ([]domain.Price, error) {
	var prices []domain.Price
	err := db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("unit_amount ASC").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repository) Deactivate(ctx context.Context, db *gorm.DB, ventureID int64, priceID string) error {
	return db.WithContext(ctx).Model(&domain.Price{}).
		Where("venture_id = ? AND stripe_price_id = ?", ventureID, priceID).
		Update("active", false).Error
}
