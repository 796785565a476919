package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/config"
	"github.com/foundrylabs/venturedash/internal/observability/metrics"
	plandomain "github.com/foundrylabs/venturedash/internal/plan/domain"
	pricedomain "github.com/foundrylabs/venturedash/internal/price/domain"
	revenuedomain "github.com/foundrylabs/venturedash/internal/revenue/domain"
	signupdomain "github.com/foundrylabs/venturedash/internal/signup/domain"
	"github.com/foundrylabs/venturedash/internal/stripegateway"
	"github.com/foundrylabs/venturedash/internal/stripesync/domain"
	subscriptiondomain "github.com/foundrylabs/venturedash/internal/subscription/domain"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

const syncSource = "stripe_sync"

type Params struct {
	fx.In

	Log           *zap.Logger
	Holder        *config.PortfolioConfigHolder
	Gateway       stripegateway.Gateway
	Ventures      venturedomain.Service
	Plans         plandomain.Service
	Prices        pricedomain.Service
	Subscriptions subscriptiondomain.Service
	Signups       signupdomain.Service
	Revenue       revenuedomain.Service
	Activity      activitydomain.Service
	Metrics       *metrics.Metrics
}

type service struct {
	log           *zap.Logger
	holder        *config.PortfolioConfigHolder
	gateway       stripegateway.Gateway
	ventures      venturedomain.Service
	plans         plandomain.Service
	prices        pricedomain.Service
	subscriptions subscriptiondomain.Service
	signups       signupdomain.Service
	revenue       revenuedomain.Service
	activity      activitydomain.Service
	metrics       *metrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		log:           p.Log.Named("stripesync.service"),
		holder:        p.Holder,
		gateway:       p.Gateway,
		ventures:      p.Ventures,
		plans:         p.Plans,
		prices:        p.Prices,
		subscriptions: p.Subscriptions,
		signups:       p.Signups,
		revenue:       p.Revenue,
		activity:      p.Activity,
		metrics:       p.Metrics,
	}
}

func (s *service) SyncVenture(ctx context.Context, ventureID string) (*domain.Summary, error) {
	start := time.Now()

	creds, err := s.ventures.Credentials(ctx, ventureID)
	if err != nil {
		return nil, err
	}
	if creds.SecretKey == "" {
		return nil, domain.ErrNoSecretKey
	}

	summary := &domain.Summary{VentureID: ventureID}
	err = s.run(ctx, creds, summary)
	summary.ElapsedMillis = time.Since(start).Milliseconds()

	if recordErr := s.ventures.RecordSyncResult(ctx, ventureID, err); recordErr != nil {
		s.log.Error("failed to record sync result", zap.Error(recordErr))
	}

	if err != nil {
		summary.Error = err.Error()
		s.metrics.RecordSyncRun("error", time.Since(start))
		s.log.Warn("sync failed",
			zap.String("venture_id", ventureID),
			zap.Bool("auth_error", errors.Is(err, stripegateway.ErrAuth)),
			zap.Error(err),
		)
		return summary, err
	}

	_, err = s.activity.Append(ctx, activitydomain.AppendRequest{
		VentureID: creds.VentureID,
		Type:      syncSource,
		Payload: map[string]any{
			"plans":               summary.Plans,
			"prices":              summary.Prices,
			"subscriptions":       summary.Subscriptions,
			"new_signups":         summary.NewSignups,
			"new_revenue_entries": summary.NewRevenue,
			"elapsed_ms":          summary.ElapsedMillis,
		},
	})
	if err != nil {
		return summary, err
	}

	s.metrics.RecordSyncRun("ok", time.Since(start))
	s.log.Info("sync completed",
		zap.String("venture_id", ventureID),
		zap.Int("plans", summary.Plans),
		zap.Int("subscriptions", summary.Subscriptions),
		zap.Int("new_revenue_entries", summary.NewRevenue),
	)
	return summary, nil
}

func (s *service) SyncAll(ctx context.Context) ([]domain.Summary, error) {
	ventures, err := s.ventures.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.Summary, 0, len(ventures))
	for _, v := range ventures {
		if v.Status != venturedomain.StatusActive || !v.StripeKeySet {
			continue
		}
		summary, err := s.SyncVenture(ctx, v.ID)
		if err != nil {
			if summary == nil {
				summary = &domain.Summary{VentureID: v.ID, Error: err.Error()}
			}
		}
		summary.VentureSlug = v.Slug
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// run pulls the four Stripe lists in dependency order: prices need plans,
// subscriptions need prices, charges come last so revenue rows can link to
// the signups created from subscriptions.
func (s *service) run(ctx context.Context, creds venturedomain.Credentials, summary *domain.Summary) error {
	ventureID := creds.VentureID

	products, err := s.gateway.ListProducts(ctx, creds.SecretKey)
	if err != nil {
		return err
	}
	for _, product := range products {
		var description *string
		if product.Description != "" {
			d := product.Description
			description = &d
		}
		if _, err := s.plans.UpsertFromStripe(ctx, plandomain.UpsertRequest{
			VentureID:       ventureID,
			StripeProductID: product.ID,
			Name:            product.Name,
			Description:     description,
			Active:          product.Active,
		}); err != nil {
			return err
		}
		summary.Plans++
	}

	stripePrices, err := s.gateway.ListPrices(ctx, creds.SecretKey)
	if err != nil {
		return err
	}
	for _, price := range stripePrices {
		req := pricedomain.UpsertRequest{
			VentureID:     ventureID,
			StripePriceID: price.ID,
			UnitAmount:    price.UnitAmount,
			Currency:      price.Currency,
			Interval:      price.Interval,
			IntervalCount: price.IntervalCount,
			Active:        price.Active,
		}
		if price.ProductID != "" {
			if plan, err := s.plans.UpsertFromStripe(ctx, plandomain.UpsertRequest{
				VentureID:       ventureID,
				StripeProductID: price.ProductID,
				Name:            "Unknown plan",
				Active:          true,
			}); err == nil && plan != nil {
				req.PlanID = &plan.ID
			}
		}
		if _, err := s.prices.UpsertFromStripe(ctx, req); err != nil {
			return err
		}
		summary.Prices++
	}

	subs, err := s.gateway.ListSubscriptions(ctx, creds.SecretKey)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		req := subscriptiondomain.UpsertRequest{
			VentureID:            ventureID,
			StripeSubscriptionID: sub.ID,
			StripeCustomerID:     sub.CustomerID,
			Status:               sub.Status,
			CurrentPeriodStart:   sub.CurrentPeriodStart,
			CurrentPeriodEnd:     sub.CurrentPeriodEnd,
			CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
			CanceledAt:           sub.CanceledAt,
			TrialStart:           sub.TrialStart,
			TrialEnd:             sub.TrialEnd,
		}
		if sub.PriceID != "" {
			if price, err := s.prices.FindByPriceID(ctx, ventureID, sub.PriceID); err == nil {
				req.PriceID = &price.ID
			}
		}
		if sub.CustomerEmail != "" {
			signup, created, err := s.signups.Upsert(ctx, signupdomain.UpsertRequest{
				VentureID: ventureID,
				Email:     sub.CustomerEmail,
				Plan:      "paid",
				Status:    signupStatus(sub.Status),
				Source:    syncSource,
			})
			if err != nil {
				return err
			}
			if created {
				summary.NewSignups++
			}
			req.SignupID = &signup.ID
		}
		if _, _, err := s.subscriptions.UpsertFromStripe(ctx, req); err != nil {
			return err
		}
		summary.Subscriptions++
	}

	charges, err := s.gateway.ListCharges(ctx, creds.SecretKey, s.holder.Current().SyncChargePageSize)
	if err != nil {
		return err
	}
	for _, charge := range charges {
		if !charge.Paid || charge.Refunded {
			continue
		}
		var signupID *int64
		if charge.CustomerEmail != "" {
			if signup, err := s.signups.Find(ctx, ventureID, charge.CustomerEmail); err == nil {
				signupID = &signup.ID
			}
		}
		occurredAt := charge.CreatedAt
		_, recorded, err := s.revenue.Record(ctx, revenuedomain.RecordRequest{
			VentureID:       ventureID,
			SignupID:        signupID,
			AmountCents:     charge.AmountCents,
			Currency:        charge.Currency,
			Type:            revenuedomain.TypeOneTime,
			StripePaymentID: charge.ID,
			Description:     charge.Description,
			OccurredAt:      &occurredAt,
		})
		if err != nil {
			return err
		}
		if recorded {
			summary.NewRevenue++
		}
	}

	return nil
}

func signupStatus(subStatus string) string {
	switch subStatus {
	case subscriptiondomain.StatusTrialing:
		return signupdomain.StatusTrialing
	case subscriptiondomain.StatusCanceled, "incomplete_expired":
		return signupdomain.StatusChurned
	default:
		return signupdomain.StatusActive
	}
}
