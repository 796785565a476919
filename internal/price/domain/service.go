package domain

import (
	"context"
	"errors"
)

type Service interface {
	UpsertFromStripe(ctx context.Context, req UpsertRequest) (*Price, error)
	List(ctx context.Context, ventureID int64) ([]Price, error)
	FindByPriceID(ctx context.Context, ventureID int64, priceID string) (*Price, error)
	Deactivate(ctx context.Context, ventureID int64, priceID string) error
}

type UpsertRequest struct {
	VentureID     int64
	PlanID        *int64
	StripePriceID string
	UnitAmount    int64
	Currency      string
	Interval      string
	IntervalCount int
	Active        bool
	IsDefault     bool
}

var (
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("price_not_found")
)
