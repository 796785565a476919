package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, venture *Venture) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Venture, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Venture, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Venture, error)
	Update(ctx context.Context, db *gorm.DB, venture *Venture) error
}
