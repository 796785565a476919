package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/price/domain"
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
		log:   p.Log.Named("price.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) UpsertFromStripe(ctx context.Context, req domain.UpsertRequest) (*domain.Price, error) {
	if req.StripePriceID == "" {
		return nil, domain.ErrInvalidPrice
	}

	existing, err := s.repo.FindByPriceID(ctx, s.db, req.VentureID, req.StripePriceID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	price := &domain.Price{
		VentureID:     req.VentureID,
		PlanID:        req.PlanID,
		StripePriceID: req.StripePriceID,
		UnitAmount:    req.UnitAmount,
		Currency:      req.Currency,
		Interval:      req.Interval,
		IntervalCount: req.IntervalCount,
		Active:        req.Active,
		IsDefault:     req.IsDefault,
		UpdatedAt:     now,
	}
	if price.Currency == "" {
		price.Currency = "usd"
	}
	if price.Interval == "" {
		price.Interval = domain.IntervalMonth
	}
	if price.IntervalCount <= 0 {
		price.IntervalCount = 1
	}
	if existing != nil {
		price.ID = existing.ID
		price.CreatedAt = existing.CreatedAt
		if price.PlanID == nil {
			price.PlanID = existing.PlanID
		}
	} else {
		price.ID = s.genID.Generate().Int64()
		price.CreatedAt = now
	}

	if err := s.repo.Upsert(ctx, s.db, price); err != nil {
		s.log.Error("failed to upsert price", zap.Error(err))
		return nil, err
	}
	return price, nil
}

func (s *service) List(ctx context.Context, ventureID int64) ([]domain.Price, error) {
	return s.repo.FindByVenture(ctx, s.db, ventureID)
}

func (s *service) FindByPriceID(ctx context.Context, ventureID int64, priceID string) (*domain.Price, error) {
	price, err := s.repo.FindByPriceID(ctx, s.db, ventureID, priceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return price, nil
}

func (s *service) Deactivate(ctx context.Context, ventureID int64, priceID string) error {
	return s.repo.Deactivate(ctx, s.db, ventureID, priceID)
}
