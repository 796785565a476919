package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foundrylabs/venturedash/internal/signup/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Upsert(ctx context.Context, db *gorm.DB, signup *domain.Signup) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venture_id"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "plan", "status", "source", "metadata", "updated_at",
		}),
	}).Create(signup).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Signup, error) {
	var signup domain.Signup
	if err := db.WithContext(ctx).First(&signup, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &signup, nil
}

func (r *repository) FindByEmail(ctx context.Context, db *gorm.DB, ventureID int64, email string) (*domain.Signup, error) {
	var signup domain.Signup
	err := db.WithContext(ctx).
		First(&signup, "venture_id = ? AND email = ?", ventureID, email).Error
	if err != nil {
		return nil, err
	}
	return &signup, nil
}

func (r *repository) FindByVenture(ctx context.Context, db *gorm.DB, ventureID int64, limit int) ([]domain.Signup, error) {
	var signups []domain.Signup
	q := db.WithContext(ctx).
		Where("venture_id = ?", ventureID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&signups).Error; err != nil {
		return nil, err
	}
	return signups, nil
}

func (r *repository) Stats(ctx context.Context, db *gorm.DB, ventureID int64) (domain.Stats, error) {
	var stats domain.Stats

	base := db.WithContext(ctx).Model(&domain.Signup{}).Where("venture_id = ?", ventureID)
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return domain.Stats{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status <> ?", domain.StatusChurned).
		Count(&stats.Active).Error; err != nil {
		return domain.Stats{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", domain.StatusChurned).
		Count(&stats.Churned).Error; err != nil {
		return domain.Stats{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status <> ? AND plan NOT IN ?", domain.StatusChurned, []string{"", domain.DefaultPlan}).
		Count(&stats.Paying).Error; err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

func (r *repository) CountByDay(ctx context.Context, db *gorm.DB, ventureID int64, since time.Time) ([]domain.DayCount, error) {
	// DATE() is understood by sqlite, postgres and mysql alike. The day comes
	// back as text on sqlite, so scan a string and parse.
	type row struct {
		Day   string
		Count int64
	}
	var rows []row
	err := db.WithContext(ctx).Model(&domain.Signup{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("venture_id = ? AND created_at >= ?", ventureID, since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.DayCount, 0, len(rows))
	for _, r := range rows {
		day := r.Day
		if len(day) > 10 {
			day = day[:10]
		}
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		out = append(out, domain.DayCount{Day: parsed, Count: r.Count})
	}
	return out, nil
}
