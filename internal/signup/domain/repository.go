package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DayCount is one day's signup total, used by the dashboard timeseries.
type DayCount struct {
	Day   time.Time
	Count int64
}

// Stats are the per-venture signup tallies the metrics views are built from.
type Stats struct {
	Total   int64
	Paying  int64
	Churned int64
	Active  int64
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, signup *Signup) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Signup, error)
	FindByEmail(ctx context.Context, db *gorm.DB, ventureID int64, email string) (*Signup, error)
	FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64, limit int) ([]Signup, error)
	Stats(ctx context.Context, db *gorm.DB, ventureID int64) (Stats, error)
	CountByDay(ctx context.Context, db *gorm.DB, ventureID int64, since time.Time) ([]DayCount, error)
}
