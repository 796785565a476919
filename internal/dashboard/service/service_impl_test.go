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
	"github.com/foundrylabs/venturedash/internal/dashboard/domain"
	"github.com/foundrylabs/venturedash/internal/integration"
	revenuedomain "github.com/foundrylabs/venturedash/internal/revenue/domain"
	revenuerepo "github.com/foundrylabs/venturedash/internal/revenue/repository"
	revenuesvc "github.com/foundrylabs/venturedash/internal/revenue/service"
	signupdomain "github.com/foundrylabs/venturedash/internal/signup/domain"
	signuprepo "github.com/foundrylabs/venturedash/internal/signup/repository"
	signupsvc "github.com/foundrylabs/venturedash/internal/signup/service"
	"github.com/foundrylabs/venturedash/internal/snapshot"
	"github.com/foundrylabs/venturedash/internal/stripegateway"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
	venturerepo "github.com/foundrylabs/venturedash/internal/venture/repository"
	venturesvc "github.com/foundrylabs/venturedash/internal/venture/service"
)

type stubGateway struct{}

func (stubGateway) ListProducts(ctx context.Context, secretKey string) ([]stripegateway.Product, error) {
	return []stripegateway.Product{{ID: "prod_1", Name: "Pro", Active: true}}, nil
}

func (stubGateway) ListPrices(ctx context.Context, secretKey string) ([]stripegateway.Price, error) {
	return []stripegateway.Price{
		{ID: "price_1", ProductID: "prod_1", UnitAmount: 5000, Interval: "month", IntervalCount: 1, Active: true},
	}, nil
}

func (stubGateway) ListSubscriptions(ctx context.Context, secretKey string) ([]stripegateway.Subscription, error) {
	return []stripegateway.Subscription{
		{ID: "sub_1", PriceID: "price_1", Status: "active", UnitAmount: 5000, Interval: "month", IntervalCount: 1},
	}, nil
}

func (stubGateway) ListCharges(ctx context.Context, secretKey string, limit int) ([]stripegateway.Charge, error) {
	return []stripegateway.Charge{{ID: "ch_1", AmountCents: 5000, Paid: true}}, nil
}

type fixture struct {
	dashboard domain.Service
	ventures  venturedomain.Service
	signups   signupdomain.Service
	revenue   revenuedomain.Service
	clock     *clock.FakeClock
	ventureID string
	ref       int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&venturedomain.Venture{},
		&signupdomain.Signup{},
		&revenuedomain.Entry{},
		&activitydomain.Event{},
	))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	ventures := venturesvc.New(venturesvc.Params{DB: db, Log: log, Repo: venturerepo.Provide(), GenID: node, Clock: fake})
	signups := signupsvc.New(signupsvc.Params{DB: db, Log: log, Repo: signuprepo.Provide(), GenID: node, Clock: fake})
	revenue := revenuesvc.New(revenuesvc.Params{DB: db, Log: log, Repo: revenuerepo.Provide(), GenID: node, Clock: fake})
	activity := activitysvc.New(activitysvc.Params{DB: db, Log: log, Repo: activityrepo.Provide(), GenID: node, Clock: fake})

	fetcher := snapshot.NewFetcher(snapshot.Params{Gateway: stubGateway{}, Log: log})
	svc := New(Params{
		Log:      log,
		Holder:   nil,
		Clock:    fake,
		Fetcher:  fetcher,
		Ventures: ventures,
		Signups:  signups,
		Revenue:  revenue,
		Activity: activity,
	})

	ctx := context.Background()
	created, err := ventures.Create(ctx, venturedomain.CreateRequest{Name: "Acme Analytics"})
	require.NoError(t, err)
	venture, err := ventures.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)

	return &fixture{
		dashboard: svc,
		ventures:  ventures,
		signups:   signups,
		revenue:   revenue,
		clock:     fake,
		ventureID: created.ID,
		ref:       venture.ID,
	}
}

func (f *fixture) connectStripe(t *testing.T) {
	t.Helper()
	_, err := f.ventures.SaveStripeKeys(context.Background(), venturedomain.SaveStripeKeysRequest{
		ID: f.ventureID, SecretKey: "sk_test_123", WebhookSecret: "whsec_123",
	})
	require.NoError(t, err)
}

func TestVentureMetricsWithoutStripeKey(t *testing.T) {
	f := newFixture(t)

	m, err := f.dashboard.VentureMetrics(context.Background(), f.ventureID)
	require.NoError(t, err)
	assert.Equal(t, integration.StateNeedsStripeKey, m.Status.State)
	assert.Nil(t, m.Snapshot)
	// Charts still render, zero-filled across the full windows.
	assert.Len(t, m.DailySignups, 30)
	assert.Len(t, m.MonthlyRevenue, 6)
	for _, p := range m.DailySignups {
		assert.Zero(t, p.Count)
	}
}

func TestVentureMetricsZeroFilledWindows(t *testing.T) {
	f := newFixture(t)
	f.connectStripe(t)
	ctx := context.Background()

	_, _, err := f.signups.Upsert(ctx, signupdomain.UpsertRequest{
		VentureID: f.ref, Email: "a@example.com", Plan: "pro",
	})
	require.NoError(t, err)
	_, _, err = f.signups.Upsert(ctx, signupdomain.UpsertRequest{
		VentureID: f.ref, Email: "b@example.com",
	})
	require.NoError(t, err)

	may := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	_, _, err = f.revenue.Record(ctx, revenuedomain.RecordRequest{
		VentureID: f.ref, AmountCents: 12000, OccurredAt: &may,
	})
	require.NoError(t, err)

	m, err := f.dashboard.VentureMetrics(ctx, f.ventureID)
	require.NoError(t, err)

	assert.Equal(t, integration.StateReady, m.Status.State)
	require.NotNil(t, m.Snapshot)

	require.Len(t, m.DailySignups, 30)
	assert.Equal(t, "2025-06-15", m.DailySignups[29].Date)
	assert.Equal(t, int64(2), m.DailySignups[29].Count)

	require.Len(t, m.MonthlyRevenue, 6)
	assert.Equal(t, "2025-01", m.MonthlyRevenue[0].Month)
	assert.Equal(t, "2025-06", m.MonthlyRevenue[5].Month)
	assert.InDelta(t, 120.0, m.MonthlyRevenue[4].Amount, 0.001)
	assert.Zero(t, m.MonthlyRevenue[5].Amount)

	assert.Equal(t, int64(2), m.Signups.Total)
	assert.Equal(t, int64(1), m.Signups.Paying)
	assert.InDelta(t, 50.0, m.Signups.ConversionRate, 0.001)
	assert.InDelta(t, 120.0, m.TrackedRevenue, 0.001)
}
