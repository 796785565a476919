// Package stripegateway wraps the Stripe API behind a narrow interface so
// snapshot and sync code can be exercised against fakes.
package stripegateway

import (
	"context"
	"errors"
	"time"
)

// ErrAuth marks credentials Stripe rejected. Callers surface it differently
// from transient API failures.
var ErrAuth = errors.New("stripe_auth_failed")

type Product struct {
	ID          string
	Name        string
	Description string
	Active      bool
}

type Price struct {
	ID            string
	ProductID     string
	UnitAmount    int64
	Currency      string
	Interval      string
	IntervalCount int
	Active        bool
}

type Subscription struct {
	ID                 string
	CustomerID         string
	CustomerEmail      string
	PriceID            string
	Status             string
	UnitAmount         int64
	Interval           string
	IntervalCount      int
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
}

type Charge struct {
	ID            string
	AmountCents   int64
	Currency      string
	Paid          bool
	Refunded      bool
	Description   string
	CustomerEmail string
	CreatedAt     time.Time
}

// Gateway lists a Stripe account's billing objects. Every call carries the
// venture's own secret key; there is no account-wide client.
type Gateway interface {
	ListProducts(ctx context.Context, secretKey string) ([]Product, error)
	ListPrices(ctx context.Context, secretKey string) ([]Price, error)
	ListSubscriptions(ctx context.Context, secretKey string) ([]Subscription, error)
	ListCharges(ctx context.Context, secretKey string, limit int) ([]Charge, error)
}
