package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/activity/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64, limit int) ([]domain.Event, error) {
	var events []domain.Event
	q := db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("occurred_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) CountByType(ctx context.Context, db *gorm.DB, ventureID int64, eventType string, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Event{}).
		Where("venture_id = ? AND type = ? AND occurred_at >= ?", ventureID, eventType, since).
		Count(&count).Error
	return count, err
}
