package domain

import (
	"context"
	"errors"
)

// Well-known event types. Anything else is accepted and lands in the
// activity feed untouched.
const (
	EventSignup       = "signup"
	EventSubscription = "subscription"
	EventPayment      = "payment"
	EventChurn        = "churn"
	EventTrialStart   = "trial_start"
	EventTrialEnd     = "trial_end"
	EventRefund       = "refund"
)

type Service interface {
	Ingest(ctx context.Context, ventureSlug string, req Request) (*Result, error)
}

type Request struct {
	Type        string         `json:"type"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Plan        string         `json:"plan"`
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	Source      string         `json:"source"`
	PaymentID   string         `json:"payment_id"`
	// Converted decides where a trial ends up: true keeps the signup
	// active, false marks it churned.
	Converted bool           `json:"converted"`
	Metadata  map[string]any `json:"metadata"`
}

type Result struct {
	EventID         string `json:"event_id"`
	SignupCreated   bool   `json:"signup_created"`
	RevenueRecorded bool   `json:"revenue_recorded"`
}

var (
	ErrInvalidType    = errors.New("invalid_event_type")
	ErrEmailRequired  = errors.New("email_required")
	ErrAmountRequired = errors.New("amount_required")
)
