package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/observability/metrics"
	revenuedomain "github.com/foundrylabs/venturedash/internal/revenue/domain"
	signupdomain "github.com/foundrylabs/venturedash/internal/signup/domain"
	"github.com/foundrylabs/venturedash/internal/tracking/domain"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Ventures venturedomain.Service
	Signups  signupdomain.Service
	Revenue  revenuedomain.Service
	Activity activitydomain.Service
	Metrics  *metrics.Metrics
}

type service struct {
	log      *zap.Logger
	ventures venturedomain.Service
	signups  signupdomain.Service
	revenue  revenuedomain.Service
	activity activitydomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		log:      p.Log.Named("tracking.service"),
		ventures: p.Ventures,
		signups:  p.Signups,
		revenue:  p.Revenue,
		activity: p.Activity,
		metrics:  p.Metrics,
	}
}

// Ingest applies one tracking event. Signup writes are upserts keyed by
// (venture, email), so replays of the same event converge on the same state.
func (s *service) Ingest(ctx context.Context, ventureSlug string, req domain.Request) (*domain.Result, error) {
	eventType := strings.TrimSpace(req.Type)
	if eventType == "" {
		return nil, domain.ErrInvalidType
	}

	venture, err := s.ventures.GetBySlug(ctx, ventureSlug)
	if err != nil {
		return nil, err
	}

	result := &domain.Result{}
	switch eventType {
	case domain.EventSignup:
		created, err := s.upsertSignup(ctx, venture.ID, req, "", "")
		if err != nil {
			return nil, err
		}
		result.SignupCreated = created

	case domain.EventSubscription:
		plan := req.Plan
		if plan == "" {
			plan = "paid"
		}
		created, err := s.upsertSignup(ctx, venture.ID, req, plan, signupdomain.StatusActive)
		if err != nil {
			return nil, err
		}
		result.SignupCreated = created
		if req.AmountCents > 0 {
			recorded, err := s.record(ctx, venture.ID, req, revenuedomain.TypeSubscription, req.AmountCents)
			if err != nil {
				return nil, err
			}
			result.RevenueRecorded = recorded
		}

	case domain.EventPayment:
		if req.AmountCents <= 0 {
			return nil, domain.ErrAmountRequired
		}
		// A charge can land before any signup exists; the email only links
		// the entry when present.
		if req.Email != "" {
			created, err := s.upsertSignup(ctx, venture.ID, req, req.Plan, "")
			if err != nil {
				return nil, err
			}
			result.SignupCreated = created
		}
		recorded, err := s.record(ctx, venture.ID, req, revenuedomain.TypeOneTime, req.AmountCents)
		if err != nil {
			return nil, err
		}
		result.RevenueRecorded = recorded

	case domain.EventChurn:
		if req.Email == "" {
			return nil, domain.ErrEmailRequired
		}
		if _, err := s.signups.SetStatus(ctx, venture.ID, req.Email, signupdomain.StatusChurned); err != nil {
			return nil, err
		}

	case domain.EventTrialStart:
		created, err := s.upsertSignup(ctx, venture.ID, req, req.Plan, signupdomain.StatusTrialing)
		if err != nil {
			return nil, err
		}
		result.SignupCreated = created

	case domain.EventTrialEnd:
		if req.Email == "" {
			return nil, domain.ErrEmailRequired
		}
		status := signupdomain.StatusChurned
		if req.Converted {
			status = signupdomain.StatusActive
		}
		if _, err := s.signups.SetStatus(ctx, venture.ID, req.Email, status); err != nil {
			return nil, err
		}

	case domain.EventRefund:
		if req.AmountCents <= 0 {
			return nil, domain.ErrAmountRequired
		}
		recorded, err := s.record(ctx, venture.ID, req, revenuedomain.TypeRefund, -req.AmountCents)
		if err != nil {
			return nil, err
		}
		result.RevenueRecorded = recorded

	default:
		// Unknown types still land in the activity feed below.
	}

	event, err := s.activity.Append(ctx, activitydomain.AppendRequest{
		VentureID: venture.ID,
		Type:      eventType,
		Email:     req.Email,
		Payload:   req.Metadata,
	})
	if err != nil {
		return nil, err
	}
	result.EventID = strconv.FormatInt(event.ID, 10)

	s.metrics.RecordTrackingEvent(venture.Slug, eventType)
	s.log.Debug("tracking event ingested",
		zap.String("venture", venture.Slug),
		zap.String("type", eventType),
	)
	return result, nil
}

func (s *service) upsertSignup(ctx context.Context, ventureID int64, req domain.Request, plan, status string) (bool, error) {
	if req.Email == "" {
		return false, domain.ErrEmailRequired
	}
	_, created, err := s.signups.Upsert(ctx, signupdomain.UpsertRequest{
		VentureID: ventureID,
		Email:     req.Email,
		Name:      req.Name,
		Plan:      plan,
		Status:    status,
		Source:    req.Source,
		Metadata:  req.Metadata,
	})
	return created, err
}

func (s *service) record(ctx context.Context, ventureID int64, req domain.Request, entryType string, amountCents int64) (bool, error) {
	var signupID *int64
	if req.Email != "" {
		if signup, err := s.signups.Find(ctx, ventureID, req.Email); err == nil {
			signupID = &signup.ID
		}
	}
	_, recorded, err := s.revenue.Record(ctx, revenuedomain.RecordRequest{
		VentureID:       ventureID,
		SignupID:        signupID,
		AmountCents:     amountCents,
		Currency:        req.Currency,
		Type:            entryType,
		StripePaymentID: req.PaymentID,
		Description:     "tracking:" + req.Type,
	})
	return recorded, err
}
