package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/revenue/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ExistsByPaymentID(ctx context.Context, db *gorm.DB, ventureID int64, paymentID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Entry{}).
		Where("venture_id = ? AND stripe_payment_id = ?", ventureID, paymentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TotalCents(ctx context.Context, db *gorm.DB, ventureID int64) (int64, error) {
	var total *int64
	err := db.WithContext(ctx).Model(&domain.Entry{}).
		Select("SUM(amount_cents)").
		Where("venture_id = ?", ventureID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// TotalsByMonth aggregates in Go rather than SQL because month truncation is
// a dialect-specific function and the window is only a handful of months.
func (r *repository) TotalsByMonth(ctx context.Context, db *gorm.DB, ventureID int64, since time.Time) ([]domain.MonthTotal, error) {
	type row struct {
		OccurredAt  time.Time
		AmountCents int64
	}
	var rows []row
	err := db.WithContext(ctx).Model(&domain.Entry{}).
		Select("occurred_at, amount_cents").
		Where("venture_id = ? AND occurred_at >= ?", ventureID, since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]int64)
	for _, rec := range rows {
		t := rec.OccurredAt.UTC()
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] += rec.AmountCents
	}

	out := make([]domain.MonthTotal, 0, len(byMonth))
	for month, amount := range byMonth {
		out = append(out, domain.MonthTotal{Month: month, AmountCents: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (r *repository) FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64, limit int) ([]domain.Entry, error) {
	var entries []domain.Entry
	q := db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("occurred_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
