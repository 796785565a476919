package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foundrylabs/venturedash/internal/plan/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Upsert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venture_id"}, {Name: "stripe_product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "active", "features", "updated_at",
		}),
	}).Create(plan).Error
}

func (r *repository) FindByProductID(ctx context.Context, db *gorm.DB, ventureID int64, productID string) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).
		First(&plan, "venture_id = ? AND stripe_product_id = ?", ventureID, productID).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) CountActive(ctx context.Context, db *gorm.DB, ventureID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Plan{}).
		Where("venture_id = ? AND active = ?", ventureID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) Deactivate(ctx context.Context, db *gorm.DB, ventureID int64, productID string) error {
	return db.WithContext(ctx).Model(&domain.Plan{}).
		Where("venture_id = ? AND stripe_product_id = ?", ventureID, productID).
		Update("active", false).Error
}
