package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	GetBySlug(ctx context.Context, slug string) (*Venture, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	SaveStripeKeys(ctx context.Context, req SaveStripeKeysRequest) (*Response, error)
	ClearStripeKeys(ctx context.Context, id string) (*Response, error)
	Credentials(ctx context.Context, id string) (Credentials, error)
	RecordSyncResult(ctx context.Context, id string, syncErr error) error
}

// Credentials are passed explicitly into every remote billing call; the
// secret key is never process-global because each venture owns its own.
type Credentials struct {
	VentureID     int64
	SecretKey     string
	WebhookSecret string
}

type CreateRequest struct {
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	TargetARR *int64         `json:"target_arr"`
	Metadata  map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID        string
	Name      *string        `json:"name"`
	Status    *string        `json:"status"`
	TargetARR *int64         `json:"target_arr"`
	Metadata  map[string]any `json:"metadata"`
}

type SaveStripeKeysRequest struct {
	ID            string
	SecretKey     string `json:"stripe_secret_key"`
	WebhookSecret string `json:"stripe_webhook_secret"`
}

type Response struct {
	ID            string         `json:"id"`
	Slug          string         `json:"slug"`
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	TargetARR     int64          `json:"target_arr"`
	StripeKeySet  bool           `json:"stripe_key_set"`
	StripeKeyHint string         `json:"stripe_key_hint,omitempty"`
	WebhookSet    bool           `json:"stripe_webhook_set"`
	LastSyncAt    *time.Time     `json:"last_sync_at,omitempty"`
	LastSyncError *string        `json:"last_sync_error,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidSecretKey = errors.New("invalid_secret_key")
	ErrNotFound         = errors.New("venture_not_found")
	ErrSlugTaken        = errors.New("slug_taken")
)
