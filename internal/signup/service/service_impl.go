package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/signup/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("signup.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.Signup, bool, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, false, domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, req.VentureID, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := s.clock.Now()
	signup := &domain.Signup{
		VentureID: req.VentureID,
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Plan:      req.Plan,
		Status:    req.Status,
		Source:    req.Source,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		signup.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if existing != nil {
		// Keep values the caller did not send.
		signup.ID = existing.ID
		signup.CreatedAt = existing.CreatedAt
		if signup.Name == "" {
			signup.Name = existing.Name
		}
		if signup.Plan == "" {
			signup.Plan = existing.Plan
		}
		if signup.Status == "" {
			signup.Status = existing.Status
		}
		if signup.Source == "" {
			signup.Source = existing.Source
		}
		if signup.Metadata == nil {
			signup.Metadata = existing.Metadata
		}
	} else {
		signup.ID = s.genID.Generate().Int64()
		signup.CreatedAt = now
		if signup.Plan == "" {
			signup.Plan = domain.DefaultPlan
		}
		if signup.Status == "" {
			signup.Status = domain.StatusActive
		}
	}

	if err := s.repo.Upsert(ctx, s.db, signup); err != nil {
		s.log.Error("failed to upsert signup", zap.Error(err))
		return nil, false, err
	}
	return signup, existing == nil, nil
}

func (s *service) SetStatus(ctx context.Context, ventureID int64, email, status string) (*domain.Signup, error) {
	return s.mutate(ctx, ventureID, email, func(signup *domain.Signup) {
		signup.Status = status
	})
}

func (s *service) SetPlan(ctx context.Context, ventureID int64, email, plan string) (*domain.Signup, error) {
	return s.mutate(ctx, ventureID, email, func(signup *domain.Signup) {
		signup.Plan = plan
	})
}

// mutate loads the signup and applies a change, creating the row first when
// the email has never been seen.
func (s *service) mutate(ctx context.Context, ventureID int64, email string, apply func(*domain.Signup)) (*domain.Signup, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	signup, err := s.repo.FindByEmail(ctx, s.db, ventureID, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := s.clock.Now()
		signup = &domain.Signup{
			ID:        s.genID.Generate().Int64(),
			VentureID: ventureID,
			Email:     email,
			Plan:      domain.DefaultPlan,
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else if err != nil {
		return nil, err
	}

	apply(signup)
	signup.UpdatedAt = s.clock.Now()

	if err := s.repo.Upsert(ctx, s.db, signup); err != nil {
		return nil, err
	}
	return signup, nil
}

func (s *service) Find(ctx context.Context, ventureID int64, email string) (*domain.Signup, error) {
	signup, err := s.repo.FindByEmail(ctx, s.db, ventureID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return signup, nil
}

func (s *service) FindByID(ctx context.Context, id int64) (*domain.Signup, error) {
	signup, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return signup, nil
}

func (s *service) Recent(ctx context.Context, ventureID int64, limit int) ([]domain.Signup, error) {
	return s.repo.FindByVenture(ctx, s.db, ventureID, limit)
}

func (s *service) Stats(ctx context.Context, ventureID int64) (domain.Stats, error) {
	return s.repo.Stats(ctx, s.db, ventureID)
}

func (s *service) CountByDay(ctx context.Context, ventureID int64, since time.Time) ([]domain.DayCount, error) {
	return s.repo.CountByDay(ctx, s.db, ventureID, since)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
