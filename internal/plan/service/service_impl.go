package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/plan/domain"
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
		log:   p.Log.Named("plan.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) UpsertFromStripe(ctx context.Context, req domain.UpsertRequest) (*domain.Plan, error) {
	if req.StripeProductID == "" {
		return nil, domain.ErrInvalidProduct
	}

	existing, err := s.repo.FindByProductID(ctx, s.db, req.VentureID, req.StripeProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	plan := &domain.Plan{
		VentureID:       req.VentureID,
		StripeProductID: req.StripeProductID,
		Name:            req.Name,
		Description:     req.Description,
		Active:          req.Active,
		UpdatedAt:       now,
	}
	if req.Features != nil {
		plan.Features = datatypes.JSONMap(req.Features)
	}
	if existing != nil {
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
	} else {
		plan.ID = s.genID.Generate().Int64()
		plan.CreatedAt = now
	}

	if err := s.repo.Upsert(ctx, s.db, plan); err != nil {
		s.log.Error("failed to upsert plan", zap.Error(err))
		return nil, err
	}
	return plan, nil
}

func (s *service) List(ctx context.Context, ventureID int64) ([]domain.Plan, error) {
	return s.repo.FindByVenture(ctx, s.db, ventureID)
}

func (s *service) CountActive(ctx context.Context, ventureID int64) (int64, error) {
	return s.repo.CountActive(ctx, s.db, ventureID)
}

func (s *service) Deactivate(ctx context.Context, ventureID int64, productID string) error {
	return s.repo.Deactivate(ctx, s.db, ventureID, productID)
}
