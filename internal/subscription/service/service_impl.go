package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/subscription/domain"
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
		log:   p.Log.Named("subscription.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) UpsertFromStripe(ctx context.Context, req domain.UpsertRequest) (*domain.Subscription, bool, error) {
	if req.StripeSubscriptionID == "" {
		return nil, false, domain.ErrInvalidSubscription
	}

	existing, err := s.repo.FindBySubscriptionID(ctx, s.db, req.VentureID, req.StripeSubscriptionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := s.clock.Now()
	subscription := &domain.Subscription{
		VentureID:            req.VentureID,
		StripeSubscriptionID: req.StripeSubscriptionID,
		StripeCustomerID:     req.StripeCustomerID,
		SignupID:             req.SignupID,
		PriceID:              req.PriceID,
		Status:               req.Status,
		CurrentPeriodStart:   req.CurrentPeriodStart,
		CurrentPeriodEnd:     req.CurrentPeriodEnd,
		CancelAtPeriodEnd:    req.CancelAtPeriodEnd,
		CanceledAt:           req.CanceledAt,
		TrialStart:           req.TrialStart,
		TrialEnd:             req.TrialEnd,
		UpdatedAt:            now,
	}
	if subscription.Status == "" {
		subscription.Status = domain.StatusActive
	}
	if existing != nil {
		subscription.ID = existing.ID
		subscription.CreatedAt = existing.CreatedAt
		if subscription.SignupID == nil {
			subscription.SignupID = existing.SignupID
		}
		if subscription.PriceID == nil {
			subscription.PriceID = existing.PriceID
		}
		if subscription.StripeCustomerID == "" {
			subscription.StripeCustomerID = existing.StripeCustomerID
		}
	} else {
		subscription.ID = s.genID.Generate().Int64()
		subscription.CreatedAt = now
	}

	if err := s.repo.Upsert(ctx, s.db, subscription); err != nil {
		s.log.Error("failed to upsert subscription", zap.Error(err))
		return nil, false, err
	}
	return subscription, existing == nil, nil
}

func (s *service) Find(ctx context.Context, ventureID int64, subscriptionID string) (*domain.Subscription, error) {
	subscription, err := s.repo.FindBySubscriptionID(ctx, s.db, ventureID, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return subscription, nil
}

func (s *service) List(ctx context.Context, ventureID int64) ([]domain.Subscription, error) {
	return s.repo.FindByVenture(ctx, s.db, ventureID)
}

func (s *service) CountBillable(ctx context.Context, ventureID int64) (int64, error) {
	return s.repo.CountByStatus(ctx, s.db, ventureID, []string{
		domain.StatusActive, domain.StatusTrialing, domain.StatusPastDue,
	})
}
