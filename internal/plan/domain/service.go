package domain

import (
	"context"
	"errors"
)

type Service interface {
	// UpsertFromStripe records a Stripe product, keyed by
	// (venture_id, stripe_product_id).
	UpsertFromStripe(ctx context.Context, req UpsertRequest) (*Plan, error)
	List(ctx context.Context, ventureID int64) ([]Plan, error)
	CountActive(ctx context.Context, ventureID int64) (int64, error)
	Deactivate(ctx context.Context, ventureID int64, productID string) error
}

type UpsertRequest struct {
	VentureID       int64
	StripeProductID string
	Name            string
	Description     *string
	Active          bool
	Features        map[string]any
}

var ErrInvalidProduct = errors.New("invalid_product")
