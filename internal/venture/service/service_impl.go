package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	gosimple "github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/config"
	"github.com/foundrylabs/venturedash/internal/venture/domain"
	"github.com/foundrylabs/venturedash/pkg/db"
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
		log:   p.Log.Named("venture.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	slugValue := strings.TrimSpace(req.Slug)
	if slugValue == "" {
		slugValue = name
	}
	slugValue = gosimple.Make(slugValue)

	venture := &domain.Venture{
		ID:     s.genID.Generate().Int64(),
		Slug:   slugValue,
		Name:   name,
		Status: domain.StatusActive,
	}
	if req.TargetARR != nil && *req.TargetARR > 0 {
		venture.TargetARR = *req.TargetARR
	}
	if req.Metadata != nil {
		venture.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, venture); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		s.log.Error("failed to create venture", zap.Error(err))
		return nil, err
	}

	s.log.Info("venture created",
		zap.String("venture_id", venture.IDString()),
		zap.String("slug", venture.Slug),
	)
	return toResponse(venture), nil
}

func (s *service) List(ctx context.Context) ([]domain.Response, error) {
	ventures, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(ventures))
	for i := range ventures {
		out = append(out, *toResponse(&ventures[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	venture, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(venture), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*domain.Venture, error) {
	venture, err := s.repo.FindBySlug(ctx, s.db, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return venture, nil
}

func (s *service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	venture, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		venture.Name = name
	}
	if req.Status != nil && *req.Status != "" {
		venture.Status = *req.Status
	}
	if req.TargetARR != nil && *req.TargetARR > 0 {
		venture.TargetARR = *req.TargetARR
	}
	if req.Metadata != nil {
		venture.Metadata = datatypes.JSONMap(req.Metadata)
	}
	venture.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, venture); err != nil {
		s.log.Error("failed to update venture", zap.Error(err))
		return nil, err
	}
	return toResponse(venture), nil
}

func (s *service) SaveStripeKeys(ctx context.Context, req domain.SaveStripeKeysRequest) (*domain.Response, error) {
	secretKey := strings.TrimSpace(req.SecretKey)
	if secretKey != "" && !strings.HasPrefix(secretKey, "sk_") {
		return nil, domain.ErrInvalidSecretKey
	}

	venture, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if secretKey != "" {
		venture.StripeSecretKey = &secretKey
	}
	if webhookSecret := strings.TrimSpace(req.WebhookSecret); webhookSecret != "" {
		venture.StripeWebhookSecret = &webhookSecret
	}
	venture.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, venture); err != nil {
		s.log.Error("failed to save stripe keys", zap.Error(err))
		return nil, err
	}

	s.log.Info("stripe keys updated", zap.String("venture_id", venture.IDString()))
	return toResponse(venture), nil
}

func (s *service) ClearStripeKeys(ctx context.Context, id string) (*domain.Response, error) {
	venture, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	venture.StripeSecretKey = nil
	venture.StripeWebhookSecret = nil
	venture.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, venture); err != nil {
		return nil, err
	}

	s.log.Info("stripe keys cleared", zap.String("venture_id", venture.IDString()))
	return toResponse(venture), nil
}

func (s *service) Credentials(ctx context.Context, id string) (domain.Credentials, error) {
	venture, err := s.find(ctx, id)
	if err != nil {
		return domain.Credentials{}, err
	}

	creds := domain.Credentials{VentureID: venture.ID}
	if venture.HasSecretKey() {
		creds.SecretKey = *venture.StripeSecretKey
	}
	if venture.HasWebhookSecret() {
		creds.WebhookSecret = *venture.StripeWebhookSecret
	}
	return creds, nil
}

func (s *service) RecordSyncResult(ctx context.Context, id string, syncErr error) error {
	venture, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	venture.LastSyncAt = &now
	if syncErr != nil {
		msg := syncErr.Error()
		venture.LastSyncError = &msg
	} else {
		venture.LastSyncError = nil
	}
	venture.UpdatedAt = now

	return s.repo.Update(ctx, s.db, venture)
}

func (s *service) find(ctx context.Context, id string) (*domain.Venture, error) {
	ventureID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	venture, err := s.repo.FindByID(ctx, s.db, ventureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return venture, nil
}

func toResponse(v *domain.Venture) *domain.Response {
	resp := &domain.Response{
		ID:            v.IDString(),
		Slug:          v.Slug,
		Name:          v.Name,
		Status:        v.Status,
		TargetARR:     v.TargetARR,
		StripeKeySet:  v.HasSecretKey(),
		WebhookSet:    v.HasWebhookSecret(),
		LastSyncAt:    v.LastSyncAt,
		LastSyncError: v.LastSyncError,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
	if v.HasSecretKey() {
		resp.StripeKeyHint = config.MaskSecret(*v.StripeSecretKey)
	}
	if v.Metadata != nil {
		resp.Metadata = map[string]any(v.Metadata)
	}
	return resp
}
