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

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/venture/domain"
	"github.com/foundrylabs/venturedash/internal/venture/repository"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Venture{}))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(Params{
		DB: db, Log: zap.NewNop(), Repo: repository.Provide(), GenID: node, Clock: fake,
	})
}

func TestCreateGeneratesSlug(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Acme Analytics"})
	require.NoError(t, err)
	assert.Equal(t, "acme-analytics", created.Slug)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Acme Analytics"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestGetBySlug(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Acme Analytics"})
	require.NoError(t, err)

	venture, err := svc.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Acme Analytics", venture.Name)
	assert.Equal(t, created.Slug, venture.Slug)

	_, err = svc.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveStripeKeysRejectsBadPrefix(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Acme Analytics"})
	require.NoError(t, err)

	_, err = svc.SaveStripeKeys(ctx, domain.SaveStripeKeysRequest{
		ID: created.ID, SecretKey: "pk_live_wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSecretKey)

	resp, err := svc.SaveStripeKeys(ctx, domain.SaveStripeKeysRequest{
		ID: created.ID, SecretKey: "sk_test_123", WebhookSecret: "whsec_123",
	})
	require.NoError(t, err)
	assert.True(t, resp.StripeKeySet)
	assert.True(t, resp.WebhookSet)
}
