package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/config"
	"github.com/foundrylabs/venturedash/internal/observability/metrics"
	plandomain "github.com/foundrylabs/venturedash/internal/plan/domain"
	pricedomain "github.com/foundrylabs/venturedash/internal/price/domain"
	revenuedomain "github.com/foundrylabs/venturedash/internal/revenue/domain"
	signupdomain "github.com/foundrylabs/venturedash/internal/signup/domain"
	"github.com/foundrylabs/venturedash/internal/stripewebhook/domain"
	subscriptiondomain "github.com/foundrylabs/venturedash/internal/subscription/domain"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Config        config.Config
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
	cfg           config.Config
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
		log:           p.Log.Named("stripewebhook.service"),
		cfg:           p.Config,
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

func (s *service) Process(ctx context.Context, ventureSlug string, payload []byte, signature string) (*domain.Result, error) {
	venture, err := s.ventures.GetBySlug(ctx, ventureSlug)
	if err != nil {
		return nil, err
	}

	// The venture's own signing secret wins; the env-wide one is a fallback
	// for single-account deployments.
	secret := s.cfg.DefaultWebhookSecret
	if venture.HasWebhookSecret() {
		secret = *venture.StripeWebhookSecret
	}
	if secret == "" {
		return nil, domain.ErrMissingSecret
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.metrics.RecordWebhookEvent("unknown", "rejected")
		return nil, fmt.Errorf("%w: %s", domain.ErrBadSignature, err.Error())
	}

	result := &domain.Result{EventType: string(event.Type)}
	switch event.Type {
	case "product.created", "product.updated":
		err = s.handleProduct(ctx, venture.ID, event, result)
	case "product.deleted":
		err = s.handleProductDeleted(ctx, venture.ID, event, result)
	case "price.created", "price.updated":
		err = s.handlePrice(ctx, venture.ID, event, result)
	case "price.deleted":
		err = s.handlePriceDeleted(ctx, venture.ID, event, result)
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.handleSubscription(ctx, venture.ID, event, result)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, venture.ID, event, result)
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, venture.ID, event, result)
	default:
		// Unhandled types are acknowledged so Stripe stops retrying them.
	}
	if err != nil {
		s.metrics.RecordWebhookEvent(result.EventType, "failed")
		return nil, err
	}

	// Replayed deliveries already have their feed entry from the first pass.
	if result.Handled && !result.Duplicate {
		_, err = s.activity.Append(ctx, activitydomain.AppendRequest{
			VentureID: venture.ID,
			Type:      "stripe." + result.EventType,
			Payload:   map[string]any{"stripe_event_id": event.ID},
		})
		if err != nil {
			return nil, err
		}
	}

	outcome := "ignored"
	switch {
	case result.Duplicate:
		outcome = "duplicate"
	case result.Handled:
		outcome = "handled"
	}
	s.metrics.RecordWebhookEvent(result.EventType, outcome)
	s.log.Debug("webhook processed",
		zap.String("venture", venture.Slug),
		zap.String("type", result.EventType),
		zap.String("outcome", outcome),
	)
	return result, nil
}

func (s *service) handleProduct(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var product stripe.Product
	if err := json.Unmarshal(event.Data.Raw, &product); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}

	var description *string
	if product.Description != "" {
		description = &product.Description
	}
	_, err := s.plans.UpsertFromStripe(ctx, plandomain.UpsertRequest{
		VentureID:       ventureID,
		StripeProductID: product.ID,
		Name:            product.Name,
		Description:     description,
		Active:          product.Active,
	})
	if err != nil {
		return err
	}
	result.Handled = true
	return nil
}

func (s *service) handleProductDeleted(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var product stripe.Product
	if err := json.Unmarshal(event.Data.Raw, &product); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}
	if err := s.plans.Deactivate(ctx, ventureID, product.ID); err != nil {
		return err
	}
	result.Handled = true
	return nil
}

func (s *service) handlePrice(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var price stripe.Price
	if err := json.Unmarshal(event.Data.Raw, &price); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}

	req := pricedomain.UpsertRequest{
		VentureID:     ventureID,
		StripePriceID: price.ID,
		UnitAmount:    price.UnitAmount,
		Currency:      string(price.Currency),
		Active:        price.Active,
	}
	if price.Recurring != nil {
		req.Interval = string(price.Recurring.Interval)
		req.IntervalCount = int(price.Recurring.IntervalCount)
	}
	if price.Product != nil {
		if plan, err := s.findPlan(ctx, ventureID, price.Product.ID); err == nil {
			req.PlanID = &plan.ID
		}
	}

	if _, err := s.prices.UpsertFromStripe(ctx, req); err != nil {
		return err
	}
	result.Handled = true
	return nil
}

func (s *service) handlePriceDeleted(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var price stripe.Price
	if err := json.Unmarshal(event.Data.Raw, &price); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}
	if err := s.prices.Deactivate(ctx, ventureID, price.ID); err != nil {
		return err
	}
	result.Handled = true
	return nil
}

func (s *service) handleSubscription(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}

	req, err := s.subscriptionUpsert(ctx, ventureID, &sub)
	if err != nil {
		return err
	}
	if _, _, err := s.subscriptions.UpsertFromStripe(ctx, req); err != nil {
		return err
	}
	result.Handled = true
	return nil
}

func (s *service) handleSubscriptionDeleted(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}

	// Count the churn only on the first delivery. Stripe retries deliveries
	// and a replayed deletion must not double-count.
	existing, err := s.subscriptions.Find(ctx, ventureID, sub.ID)
	alreadyCanceled := err == nil && existing.Status == subscriptiondomain.StatusCanceled

	req, err := s.subscriptionUpsert(ctx, ventureID, &sub)
	if err != nil {
		return err
	}
	req.Status = subscriptiondomain.StatusCanceled
	stored, _, err := s.subscriptions.UpsertFromStripe(ctx, req)
	if err != nil {
		return err
	}

	if alreadyCanceled {
		result.Duplicate = true
		result.Handled = true
		return nil
	}

	var email string
	if stored.SignupID != nil {
		if signup, err := s.signups.FindByID(ctx, *stored.SignupID); err == nil {
			if _, err := s.signups.SetStatus(ctx, ventureID, signup.Email, signupdomain.StatusChurned); err != nil {
				return err
			}
			email = signup.Email
		}
	}

	// One churn row per subscription; replays bail out above.
	if _, err := s.activity.Append(ctx, activitydomain.AppendRequest{
		VentureID: ventureID,
		Type:      "churn",
		Email:     email,
		Payload:   map[string]any{"stripe_subscription_id": sub.ID},
	}); err != nil {
		return err
	}
	result.Handled = true
	return nil
}

func (s *service) handleInvoicePaid(ctx context.Context, ventureID int64, event stripe.Event, result *domain.Result) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadPayload, err.Error())
	}
	if invoice.AmountPaid <= 0 {
		return nil
	}

	var signupID *int64
	if invoice.CustomerEmail != "" {
		if signup, err := s.signups.Find(ctx, ventureID, invoice.CustomerEmail); err == nil {
			signupID = &signup.ID
		}
	}

	occurredAt := time.Unix(invoice.Created, 0).UTC()
	_, recorded, err := s.revenue.Record(ctx, revenuedomain.RecordRequest{
		VentureID:       ventureID,
		SignupID:        signupID,
		AmountCents:     invoice.AmountPaid,
		Currency:        string(invoice.Currency),
		Type:            revenuedomain.TypeSubscription,
		StripePaymentID: invoice.ID,
		Description:     "stripe:invoice.paid",
		OccurredAt:      &occurredAt,
	})
	if err != nil {
		return err
	}
	result.Handled = true
	result.Duplicate = !recorded
	return nil
}

func (s *service) findPlan(ctx context.Context, ventureID int64, productID string) (*plandomain.Plan, error) {
	plans, err := s.plans.List(ctx, ventureID)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].StripeProductID == productID {
			return &plans[i], nil
		}
	}
	return nil, plandomain.ErrInvalidProduct
}

// subscriptionUpsert maps a Stripe subscription onto an upsert request,
// re-resolving the local price row and the signup so webhook-created
// subscriptions link the same way synced ones do.
func (s *service) subscriptionUpsert(ctx context.Context, ventureID int64, sub *stripe.Subscription) (subscriptiondomain.UpsertRequest, error) {
	req := subscriptiondomain.UpsertRequest{
		VentureID:            ventureID,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CanceledAt:           unixPtr(sub.CanceledAt),
		TrialStart:           unixPtr(sub.TrialStart),
		TrialEnd:             unixPtr(sub.TrialEnd),
	}
	if sub.Customer != nil {
		req.StripeCustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		first := sub.Items.Data[0]
		req.CurrentPeriodStart = unixPtr(first.CurrentPeriodStart)
		req.CurrentPeriodEnd = unixPtr(first.CurrentPeriodEnd)
		if first.Price != nil {
			if price, err := s.prices.FindByPriceID(ctx, ventureID, first.Price.ID); err == nil {
				req.PriceID = &price.ID
			}
		}
	}
	if sub.Customer != nil && sub.Customer.Email != "" {
		signup, _, err := s.signups.Upsert(ctx, signupdomain.UpsertRequest{
			VentureID: ventureID,
			Email:     sub.Customer.Email,
			Plan:      "paid",
			Status:    signupStatus(string(sub.Status)),
			Source:    "stripe_webhook",
		})
		if err != nil {
			return req, err
		}
		req.SignupID = &signup.ID
	}
	return req, nil
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

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
