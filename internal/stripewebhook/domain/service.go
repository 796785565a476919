package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Process verifies one webhook delivery and applies it. The venture is
	// addressed by slug because each venture has its own signing secret.
	Process(ctx context.Context, ventureSlug string, payload []byte, signature string) (*Result, error)
}

type Result struct {
	EventType string `json:"event_type"`
	Handled   bool   `json:"handled"`
	Duplicate bool   `json:"duplicate"`
}

var (
	ErrMissingSecret = errors.New("webhook_secret_missing")
	ErrBadSignature  = errors.New("webhook_signature_invalid")
	ErrBadPayload    = errors.New("webhook_payload_invalid")
)
