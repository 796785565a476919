package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/clock"
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
		log:   p.Log.Named("activity.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) Append(ctx context.Context, req domain.AppendRequest) (*domain.Event, error) {
	now := s.clock.Now()
	event := &domain.Event{
		ID:         s.genID.Generate().Int64(),
		VentureID:  req.VentureID,
		Type:       req.Type,
		OccurredAt: now,
		CreatedAt:  now,
	}
	if req.Email != "" {
		email := req.Email
		event.Email = &email
	}
	if req.Payload != nil {
		event.Payload = datatypes.JSONMap(req.Payload)
	}
	if req.OccurredAt != nil {
		event.OccurredAt = *req.OccurredAt
	}

	if err := s.repo.Create(ctx, s.db, event); err != nil {
		s.log.Error("failed to append event", zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (s *service) Recent(ctx context.Context, ventureID int64, limit int) ([]domain.Event, error) {
	return s.repo.FindByVenture(ctx, s.db, ventureID, limit)
}

func (s *service) CountByType(ctx context.Context, ventureID int64, eventType string, since time.Time) (int64, error) {
	return s.repo.CountByType(ctx, s.db, ventureID, eventType, since)
}
