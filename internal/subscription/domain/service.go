package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// UpsertFromStripe records a Stripe subscription. The returned bool
	// reports whether the row is new, which webhook handlers use to decide
	// whether a cancellation was already counted.
	UpsertFromStripe(ctx context.Context, req UpsertRequest) (*Subscription, bool, error)
	Find(ctx context.Context, ventureID int64, subscriptionID string) (*Subscription, error)
	List(ctx context.Context, ventureID int64) ([]Subscription, error)
	CountBillable(ctx context.Context, ventureID int64) (int64, error)
}

type UpsertRequest struct {
	VentureID            int64
	StripeSubscriptionID string
	StripeCustomerID     string
	SignupID             *int64
	PriceID              *int64
	Status               string
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
}

var (
	ErrInvalidSubscription = errors.New("invalid_subscription")
	ErrNotFound            = errors.New("subscription_not_found")
)
