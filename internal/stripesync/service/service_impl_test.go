package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	activityrepo "github.com/foundrylabs/venturedash/internal/activity/repository"
	activitysvc "github.com/foundrylabs/venturedash/internal/activity/service"
	"github.com/foundrylabs/venturedash/internal/clock"
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
	"github.com/foundrylabs/venturedash/internal/stripegateway"
	"github.com/foundrylabs/venturedash/internal/stripesync/domain"
	subscriptiondomain "github.com/foundrylabs/venturedash/internal/subscription/domain"
	subscriptionrepo "github.com/foundrylabs/venturedash/internal/subscription/repository"
	subscriptionsvc "github.com/foundrylabs/venturedash/internal/subscription/service"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
	venturerepo "github.com/foundrylabs/venturedash/internal/venture/repository"
	venturesvc "github.com/foundrylabs/venturedash/internal/venture/service"
)

type fakeGateway struct {
	products      []stripegateway.Product
	prices        []stripegateway.Price
	subscriptions []stripegateway.Subscription
	charges       []stripegateway.Charge
	err           error
}

func (f *fakeGateway) ListProducts(ctx context.Context, secretKey string) ([]stripegateway.Product, error) {
	return f.products, f.err
}

func (f *fakeGateway) ListPrices(ctx context.Context, secretKey string) ([]stripegateway.Price, error) {
	return f.prices, f.err
}

func (f *fakeGateway) ListSubscriptions(ctx context.Context, secretKey string) ([]stripegateway.Subscription, error) {
	return f.subscriptions, f.err
}

func (f *fakeGateway) ListCharges(ctx context.Context, secretKey string, limit int) ([]stripegateway.Charge, error) {
	return f.charges, f.err
}

type fixture struct {
	sync          domain.Service
	ventures      venturedomain.Service
	plans         plandomain.Service
	prices        pricedomain.Service
	subscriptions subscriptiondomain.Service
	signups       signupdomain.Service
	revenue       revenuedomain.Service
	activity      activitydomain.Service
	ventureID     string
	ventureRef    int64
}

func newFixture(t *testing.T, gw stripegateway.Gateway) *fixture {
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

	node, err := snowflake.NewNode(3)
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

	syncer := New(Params{
		Log:           log,
		Holder:        nil,
		Gateway:       gw,
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
		ID: created.ID, SecretKey: "sk_test_123", WebhookSecret: "whsec_123",
	})
	require.NoError(t, err)

	venture, err := ventures.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)

	return &fixture{
		sync:          syncer,
		ventures:      ventures,
		plans:         plans,
		prices:        prices,
		subscriptions: subscriptions,
		signups:       signups,
		revenue:       revenue,
		activity:      activity,
		ventureID:     created.ID,
		ventureRef:    venture.ID,
	}
}

func fullGateway() *fakeGateway {
	return &fakeGateway{
		products: []stripegateway.Product{
			{ID: "prod_1", Name: "Pro", Active: true},
		},
		prices: []stripegateway.Price{
			{ID: "price_1", ProductID: "prod_1", UnitAmount: 4900, Currency: "usd", Interval: "month", IntervalCount: 1, Active: true},
		},
		subscriptions: []stripegateway.Subscription{
			{ID: "sub_1", CustomerID: "cus_1", CustomerEmail: "jo@example.com", PriceID: "price_1", Status: "active", UnitAmount: 4900, Interval: "month", IntervalCount: 1},
		},
		charges: []stripegateway.Charge{
			{ID: "ch_1", AmountCents: 4900, Currency: "usd", Paid: true, CustomerEmail: "jo@example.com", CreatedAt: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)},
			{ID: "ch_refunded", AmountCents: 4900, Paid: true, Refunded: true},
			{ID: "ch_failed", AmountCents: 4900, Paid: false},
		},
	}
}

func TestSyncVenturePullsEverything(t *testing.T) {
	f := newFixture(t, fullGateway())
	ctx := context.Background()

	summary, err := f.sync.SyncVenture(ctx, f.ventureID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Plans)
	assert.Equal(t, 1, summary.Prices)
	assert.Equal(t, 1, summary.Subscriptions)
	assert.Equal(t, 1, summary.NewSignups)
	assert.Equal(t, 1, summary.NewRevenue)

	signup, err := f.signups.Find(ctx, f.ventureRef, "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "stripe_sync", signup.Source)
	assert.Equal(t, "paid", signup.Plan)

	sub, err := f.subscriptions.Find(ctx, f.ventureRef, "sub_1")
	require.NoError(t, err)
	assert.NotNil(t, sub.SignupID)
	assert.NotNil(t, sub.PriceID)

	total, err := f.revenue.TotalCents(ctx, f.ventureRef)
	require.NoError(t, err)
	assert.Equal(t, int64(4900), total)

	resp, err := f.ventures.Get(ctx, f.ventureID)
	require.NoError(t, err)
	assert.NotNil(t, resp.LastSyncAt)
	assert.Nil(t, resp.LastSyncError)

	summaries, err := f.activity.CountByType(ctx, f.ventureRef, "stripe_sync", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summaries)
}

func TestSyncVentureIsIdempotent(t *testing.T) {
	f := newFixture(t, fullGateway())
	ctx := context.Background()

	_, err := f.sync.SyncVenture(ctx, f.ventureID)
	require.NoError(t, err)

	second, err := f.sync.SyncVenture(ctx, f.ventureID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewSignups)
	assert.Equal(t, 0, second.NewRevenue)

	total, err := f.revenue.TotalCents(ctx, f.ventureRef)
	require.NoError(t, err)
	assert.Equal(t, int64(4900), total)

	stats, err := f.signups.Stats(ctx, f.ventureRef)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}

func TestSyncVentureWithoutKey(t *testing.T) {
	f := newFixture(t, fullGateway())
	ctx := context.Background()

	created, err := f.ventures.Create(ctx, venturedomain.CreateRequest{Name: "Keyless"})
	require.NoError(t, err)

	_, err = f.sync.SyncVenture(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNoSecretKey)
}

func TestSyncVentureRecordsFailure(t *testing.T) {
	gw := fullGateway()
	gw.err = stripegateway.ErrAuth
	f := newFixture(t, gw)
	ctx := context.Background()

	summary, err := f.sync.SyncVenture(ctx, f.ventureID)
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.Error)

	resp, err := f.ventures.Get(ctx, f.ventureID)
	require.NoError(t, err)
	require.NotNil(t, resp.LastSyncError)
	assert.NotNil(t, resp.LastSyncAt)
}

func TestSyncAllSkipsKeylessAndInactive(t *testing.T) {
	f := newFixture(t, fullGateway())
	ctx := context.Background()

	_, err := f.ventures.Create(ctx, venturedomain.CreateRequest{Name: "Keyless"})
	require.NoError(t, err)

	paused, err := f.ventures.Create(ctx, venturedomain.CreateRequest{Name: "Paused Co"})
	require.NoError(t, err)
	_, err = f.ventures.SaveStripeKeys(ctx, venturedomain.SaveStripeKeysRequest{
		ID: paused.ID, SecretKey: "sk_test_paused",
	})
	require.NoError(t, err)
	status := venturedomain.StatusPaused
	_, err = f.ventures.Update(ctx, venturedomain.UpdateRequest{ID: paused.ID, Status: &status})
	require.NoError(t, err)

	summaries, err := f.sync.SyncAll(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, f.ventureID, summaries[0].VentureID)
	assert.Equal(t, "acme-analytics", summaries[0].VentureSlug)
}
