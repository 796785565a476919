package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foundrylabs/venturedash/internal/subscription/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Upsert(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venture_id"}, {Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id", "signup_id", "price_id", "status",
			"current_period_start", "current_period_end",
			"cancel_at_period_end", "canceled_at",
			"trial_start", "trial_end", "updated_at",
		}),
	}).Create(subscription).Error
}

func (r *repository) FindBySubscriptionID(ctx context.Context, db *gorm.DB, ventureID int64, subscriptionID string) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := db.WithContext(ctx).
		First(&subscription, "venture_id = ? AND stripe_subscription_id = ?", ventureID, subscriptionID).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *repository) FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	err := db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at ASC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repository) CountByStatus(ctx context.Context, db *gorm.DB, ventureID int64, statuses []string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("venture_id = ? AND status IN ?", ventureID, statuses).
		Count(&count).Error
	return count, err
}
