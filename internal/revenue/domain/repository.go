package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// MonthTotal is one calendar month's revenue, used by the dashboard
// timeseries.
type MonthTotal struct {
	Month       time.Time
	AmountCents int64
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, entry *Entry) error
	ExistsByPaymentID(ctx context.Context, db *gorm.DB, ventureID int64, paymentID string) (bool, error)
	TotalCents(ctx context.Context, db *gorm.DB, ventureID int64) (int64, error)
	TotalsByMonth(ctx context.Context, db *gorm.DB, ventureID int64, since time.Time) ([]MonthTotal, error)
	FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64, limit int) ([]Entry, error)
}
