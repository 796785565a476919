package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/venture/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db *gorm.DB, venture *domain.Venture) error {
	return db.WithContext(ctx).Create(venture).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Venture, error) {
	var venture domain.Venture
	if err := db.WithContext(ctx).First(&venture, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &venture, nil
}

func (r *repository) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Venture, error) {
	var venture domain.Venture
	if err := db.WithContext(ctx).First(&venture, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &venture, nil
}

func (r *repository) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Venture, error) {
	var ventures []domain.Venture
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&ventures).Error; err != nil {
		return nil, err
	}
	return ventures, nil
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, venture *domain.Venture) error {
	return db.WithContext(ctx).Save(venture).Error
}
