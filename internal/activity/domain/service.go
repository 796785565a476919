package domain

import (
	"context"
	"time"
)

type Service interface {
	Append(ctx context.Context, req AppendRequest) (*Event, error)
	Recent(ctx context.Context, ventureID int64, limit int) ([]Event, error)
	CountByType(ctx context.Context, ventureID int64, eventType string, since time.Time) (int64, error)
}

type AppendRequest struct {
	VentureID  int64
	Type       string
	Email      string
	Payload    map[string]any
	OccurredAt *time.Time
}
