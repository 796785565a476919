package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	activityrepo "github.com/foundrylabs/venturedash/internal/activity/repository"
	activitysvc "github.com/foundrylabs/venturedash/internal/activity/service"
	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/config"
	plandomain "github.com/foundrylabs/venturedash/internal/plan/domain"
	planrepo "github.com/foundrylabs/venturedash/internal/plan/repository"
	plansvc "github.com/foundrylabs/venturedash/internal/plan/service"
	pricedomain "github.com/foundrylabs/venturedash/internal/price/domain"
	pricerepo "github.com/foundrylabs/venturedash/internal/price/repository"
	pricesvc "github.com/foundrylabs/venturedash/internal/price/service"
	revenuedomain "github.com/foundrylabs/venturedash/internal/revenue/domain"
	revenuerepo "github.com/foundrylabs/venturedash/internal/revenue/repository"
	revenuesvc "github.com/foundrylabs/venturedash/internal/revenue/service"
	signupdomain "github.com/foundrylabs/venturedash/internal/signup/domain"
	signuprepo "github.com/foundrylabs/venturedash/internal/signup/repository"
	signupsvc "github.com/foundrylabs/venturedash/internal/signup/service"
	"github.com/foundrylabs/venturedash/internal/stripewebhook/domain"
	subscriptiondomain "github.com/foundrylabs/venturedash/internal/subscription/domain"
	subscriptionrepo "github.com/foundrylabs/venturedash/internal/subscription/repository"
	subscriptionsvc "github.com/foundrylabs/venturedash/internal/subscription/service"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
	venturerepo "github.com/foundrylabs/venturedash/internal/venture/repository"
	venturesvc "github.com/foundrylabs/venturedash/internal/venture/service"
)

const testSecret = "whsec_test_secret"

type fixture struct {
	webhooks      domain.Service
	ventures      venturedomain.Service
	plans         plandomain.Service
	prices        pricedomain.Service
	subscriptions subscriptiondomain.Service
	signups       signupdomain.Service
	revenue       revenuedomain.Service
	activity      activitydomain.Service
	slug          string
	ventureID     int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&venturedomain.Venture{},
		&plandomain.Plan{},
		&pricedomain.Price{},
		&subscriptiondomain.Subscription{},
		&signupdomain.Signup{},
		&revenuedomain.Entry{},
		&activitydomain.Event{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	ventures := venturesvc.New(venturesvc.Params{DB: db, Log: log, Repo: venturerepo.Provide(), GenID: node, Clock: fake})
	plans := plansvc.New(plansvc.Params{DB: db, Log: log, Repo: planrepo.Provide(), GenID: node, Clock: fake})
	prices := pricesvc.New(pricesvc.Params{DB: db, Log: log, Repo: pricerepo.Provide(), GenID: node, Clock: fake})
	subscriptions := subscriptionsvc.New(subscriptionsvc.Params{DB: db, Log: log, Repo: subscriptionrepo.Provide(), GenID: node, Clock: fake})
	signups := signupsvc.New(signupsvc.Params{DB: db, Log: log, Repo: signuprepo.Provide(), GenID: node, Clock: fake})
	revenue := revenuesvc.New(revenuesvc.Params{DB: db, Log: log, Repo: revenuerepo.Provide(), GenID: node, Clock: fake})
	activity := activitysvc.New(activitysvc.Params{DB: db, Log: log, Repo: activityrepo.Provide(), GenID: node, Clock: fake})

	webhooks := New(Params{
		Log:           log,
		Config:        config.Config{},
		Ventures:      ventures,
		Plans:         plans,
		Prices:        prices,
		Subscriptions: subscriptions,
		Signups:       signups,
		Revenue:       revenue,
		Activity:      activity,
		Metrics:       nil,
	})

	ctx := context.Background()
	created, err := ventures.Create(ctx, venturedomain.CreateRequest{Name: "Acme Analytics"})
	require.NoError(t, err)
	_, err = ventures.SaveStripeKeys(ctx, venturedomain.SaveStripeKeysRequest{
		ID:            created.ID,
		SecretKey:     "sk_test_123",
		WebhookSecret: testSecret,
	})
	require.NoError(t, err)

	venture, err := ventures.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)

	return &fixture{
		webhooks:      webhooks,
		ventures:      ventures,
		plans:         plans,
		prices:        prices,
		subscriptions: subscriptions,
		signups:       signups,
		revenue:       revenue,
		activity:      activity,
		slug:          created.Slug,
		ventureID:     venture.ID,
	}
}

func signedEvent(t *testing.T, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":      "evt_" + eventType,
		"type":    eventType,
		"created": time.Now().Unix(),
		"data":    map[string]any{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestProcessRejectsBadSignature(t *testing.T) {
	f := newFixture(t)

	payload, _ := signedEvent(t, "product.created", map[string]any{"id": "prod_1"})
	_, err := f.webhooks.Process(context.Background(), f.slug, payload, "t=1,v1=deadbeef")

	assert.ErrorIs(t, err, domain.ErrBadSignature)
}

func TestProcessUnknownVenture(t *testing.T) {
	f := newFixture(t)

	payload, header := signedEvent(t, "product.created", map[string]any{"id": "prod_1"})
	_, err := f.webhooks.Process(context.Background(), "nope", payload, header)

	assert.ErrorIs(t, err, venturedomain.ErrNotFound)
}

func TestProcessProductCreated(t *testing.T) {
	f := newFixture(t)

	payload, header := signedEvent(t, "product.created", map[string]any{
		"id":     "prod_1",
		"name":   "Pro",
		"active": true,
	})
	result, err := f.webhooks.Process(context.Background(), f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, result.Handled)

	plans, err := f.plans.List(context.Background(), f.ventureID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Pro", plans[0].Name)
	assert.True(t, plans[0].Active)
}

func TestProcessPriceCreatedLinksPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload, header := signedEvent(t, "product.created", map[string]any{
		"id": "prod_1", "name": "Pro", "active": true,
	})
	_, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)

	payload, header = signedEvent(t, "price.created", map[string]any{
		"id":          "price_1",
		"unit_amount": 4900,
		"currency":    "usd",
		"active":      true,
		"recurring":   map[string]any{"interval": "month", "interval_count": 1},
		"product":     "prod_1",
	})
	result, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, result.Handled)

	price, err := f.prices.FindByPriceID(ctx, f.ventureID, "price_1")
	require.NoError(t, err)
	assert.Equal(t, int64(4900), price.UnitAmount)
	assert.NotNil(t, price.PlanID)
}

func TestProcessInvoicePaidDedupes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	object := map[string]any{
		"id":             "in_1",
		"amount_paid":    9900,
		"currency":       "usd",
		"customer_email": "jo@example.com",
		"created":        time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC).Unix(),
	}

	payload, header := signedEvent(t, "invoice.paid", object)
	first, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, first.Handled)
	assert.False(t, first.Duplicate)

	payload, header = signedEvent(t, "invoice.paid", object)
	second, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	total, err := f.revenue.TotalCents(ctx, f.ventureID)
	require.NoError(t, err)
	assert.Equal(t, int64(9900), total)
}

func TestProcessSubscriptionDeletedChurnsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signup, _, err := f.signups.Upsert(ctx, signupdomain.UpsertRequest{
		VentureID: f.ventureID, Email: "jo@example.com", Plan: "pro",
	})
	require.NoError(t, err)

	_, _, err = f.subscriptions.UpsertFromStripe(ctx, subscriptiondomain.UpsertRequest{
		VentureID:            f.ventureID,
		StripeSubscriptionID: "sub_1",
		Status:               subscriptiondomain.StatusActive,
		SignupID:             &signup.ID,
	})
	require.NoError(t, err)

	object := map[string]any{
		"id":     "sub_1",
		"status": "canceled",
	}
	payload, header := signedEvent(t, "customer.subscription.deleted", object)
	first, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, first.Handled)
	assert.False(t, first.Duplicate)

	payload, header = signedEvent(t, "customer.subscription.deleted", object)
	second, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	stats, err := f.signups.Stats(ctx, f.ventureID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Churned)

	// The feed records one churn and one delivery, not one per retry.
	churned, err := f.activity.CountByType(ctx, f.ventureID, "churn", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), churned)

	delivered, err := f.activity.CountByType(ctx, f.ventureID, "stripe.customer.subscription.deleted", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), delivered)
}

func TestProcessWebhookOnlySubscriptionLinksAndChurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload, header := signedEvent(t, "product.created", map[string]any{
		"id": "prod_1", "name": "Pro", "active": true,
	})
	_, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)

	payload, header = signedEvent(t, "price.created", map[string]any{
		"id":          "price_1",
		"unit_amount": 4900,
		"currency":    "usd",
		"active":      true,
		"recurring":   map[string]any{"interval": "month", "interval_count": 1},
		"product":     "prod_1",
	})
	_, err = f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)

	subObject := map[string]any{
		"id":       "sub_1",
		"status":   "active",
		"customer": map[string]any{"id": "cus_1", "email": "jo@example.com"},
		"items": map[string]any{
			"data": []map[string]any{{
				"price":                map[string]any{"id": "price_1"},
				"current_period_start": time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Unix(),
				"current_period_end":   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Unix(),
			}},
		},
	}
	payload, header = signedEvent(t, "customer.subscription.created", subObject)
	result, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, result.Handled)

	stored, err := f.subscriptions.Find(ctx, f.ventureID, "sub_1")
	require.NoError(t, err)
	require.NotNil(t, stored.PriceID)
	require.NotNil(t, stored.SignupID)

	price, err := f.prices.FindByPriceID(ctx, f.ventureID, "price_1")
	require.NoError(t, err)
	assert.Equal(t, price.ID, *stored.PriceID)

	subObject["status"] = "canceled"
	payload, header = signedEvent(t, "customer.subscription.deleted", subObject)
	deleted, err := f.webhooks.Process(ctx, f.slug, payload, header)
	require.NoError(t, err)
	assert.True(t, deleted.Handled)
	assert.False(t, deleted.Duplicate)

	signup, err := f.signups.Find(ctx, f.ventureID, "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, signupdomain.StatusChurned, signup.Status)

	churned, err := f.activity.CountByType(ctx, f.ventureID, "churn", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), churned)
}

func TestProcessUnhandledTypeIsAcknowledged(t *testing.T) {
	f := newFixture(t)

	payload, header := signedEvent(t, "charge.refunded", map[string]any{"id": "ch_1"})
	result, err := f.webhooks.Process(context.Background(), f.slug, payload, header)
	require.NoError(t, err)
	assert.False(t, result.Handled)
	assert.Equal(t, "charge.refunded", result.EventType)
}
