package domain

import (
	"context"
	"errors"
)

type Service interface {
	// SyncVenture pulls the venture's full Stripe state into local tables.
	// The pass is idempotent: catalog rows upsert in place and charges that
	// were already recorded are skipped.
	SyncVenture(ctx context.Context, ventureID string) (*Summary, error)
	// SyncAll runs SyncVenture for every active venture that has a secret
	// key. Per-venture failures are recorded on the venture, not returned.
	SyncAll(ctx context.Context) ([]Summary, error)
}

type Summary struct {
	VentureID     string `json:"venture_id"`
	VentureSlug   string `json:"venture_slug"`
	Plans         int    `json:"plans"`
	Prices        int    `json:"prices"`
	Subscriptions int    `json:"subscriptions"`
	NewSignups    int    `json:"new_signups"`
	NewRevenue    int    `json:"new_revenue_entries"`
	ElapsedMillis int64  `json:"elapsed_ms"`
	Error         string `json:"error,omitempty"`
}

var ErrNoSecretKey = errors.New("stripe_key_missing")
