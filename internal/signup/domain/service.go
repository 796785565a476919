package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Upsert creates the signup or refreshes it in place. The returned bool
	// reports whether a new row was created.
	Upsert(ctx context.Context, req UpsertRequest) (*Signup, bool, error)
	SetStatus(ctx context.Context, ventureID int64, email, status string) (*Signup, error)
	SetPlan(ctx context.Context, ventureID int64, email, plan string) (*Signup, error)
	Find(ctx context.Context, ventureID int64, email string) (*Signup, error)
	FindByID(ctx context.Context, id int64) (*Signup, error)
	Recent(ctx context.Context, ventureID int64, limit int) ([]Signup, error)
	Stats(ctx context.Context, ventureID int64) (Stats, error)
	CountByDay(ctx context.Context, ventureID int64, since time.Time) ([]DayCount, error)
}

type UpsertRequest struct {
	VentureID int64
	Email     string
	Name      string
	Plan      string
	Status    string
	Source    string
	Metadata  map[string]any
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrNotFound     = errors.New("signup_not_found")
)
