package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/revenue/domain"
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
		log:   p.Log.Named("revenue.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) Record(ctx context.Context, req domain.RecordRequest) (*domain.Entry, bool, error) {
	if req.AmountCents == 0 {
		return nil, false, domain.ErrInvalidAmount
	}

	if req.StripePaymentID != "" {
		exists, err := s.repo.ExistsByPaymentID(ctx, s.db, req.VentureID, req.StripePaymentID)
		if err != nil {
			return nil, false, err
		}
		if exists {
			return nil, false, nil
		}
	}

	now := s.clock.Now()
	entry := &domain.Entry{
		ID:          s.genID.Generate().Int64(),
		VentureID:   req.VentureID,
		SignupID:    req.SignupID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Type:        req.Type,
		Description: req.Description,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		OccurredAt:  now,
		CreatedAt:   now,
	}
	if entry.Currency == "" {
		entry.Currency = "usd"
	}
	if entry.Type == "" {
		entry.Type = domain.TypeOneTime
	}
	if req.StripePaymentID != "" {
		entry.StripePaymentID = &req.StripePaymentID
	}
	if req.StripeSubscriptionID != "" {
		entry.StripeSubscriptionID = &req.StripeSubscriptionID
	}
	if req.OccurredAt != nil {
		entry.OccurredAt = *req.OccurredAt
	}

	if err := s.repo.Create(ctx, s.db, entry); err != nil {
		s.log.Error("failed to record revenue", zap.Error(err))
		return nil, false, err
	}
	return entry, true, nil
}

func (s *service) TotalCents(ctx context.Context, ventureID int64) (int64, error) {
	return s.repo.TotalCents(ctx, s.db, ventureID)
}

func (s *service) TotalsByMonth(ctx context.Context, ventureID int64, since time.Time) ([]domain.MonthTotal, error) {
	return s.repo.TotalsByMonth(ctx, s.db, ventureID, since)
}

func (s *service) Recent(ctx context.Context, ventureID int64, limit int) ([]domain.Entry, error) {
	return s.repo.FindByVenture(ctx, s.db, ventureID, limit)
}
