package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Record appends a revenue entry. When a Stripe payment id is present the
	// append is skipped if an entry for that payment already exists; the
	// returned bool reports whether a row was written.
	Record(ctx context.Context, req RecordRequest) (*Entry, bool, error)
	TotalCents(ctx context.Context, ventureID int64) (int64, error)
	TotalsByMonth(ctx context.Context, ventureID int64, since time.Time) ([]MonthTotal, error)
	Recent(ctx context.Context, ventureID int64, limit int) ([]Entry, error)
}

type RecordRequest struct {
	VentureID            int64
	SignupID             *int64
	AmountCents          int64
	Currency             string
	Type                 string
	StripePaymentID      string
	StripeSubscriptionID string
	Description          string
	PeriodStart          *time.Time
	PeriodEnd            *time.Time
	OccurredAt           *time.Time
}

var ErrInvalidAmount = errors.New("invalid_amount")
