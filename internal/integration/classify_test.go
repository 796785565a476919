package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want string
	}{
		{
			name: "no secret key",
			in:   Inputs{},
			want: StateNeedsStripeKey,
		},
		{
			name: "key without webhook secret",
			in:   Inputs{HasSecretKey: true},
			want: StateNeedsWebhookSecret,
		},
		{
			name: "fetch error wins over empty catalog",
			in: Inputs{
				HasSecretKey:     true,
				HasWebhookSecret: true,
				FetchError:       "Invalid Stripe Key",
			},
			want: StateError,
		},
		{
			name: "connected but no products",
			in: Inputs{
				HasSecretKey:     true,
				HasWebhookSecret: true,
			},
			want: StateNoProducts,
		},
		{
			name: "products but no customers",
			in: Inputs{
				HasSecretKey:     true,
				HasWebhookSecret: true,
				ProductCount:     2,
			},
			want: StateNoData,
		},
		{
			name: "one-time revenue without subscribers still waits for data",
			in: Inputs{
				HasSecretKey:     true,
				HasWebhookSecret: true,
				ProductCount:     1,
			},
			want: StateNoData,
		},
		{
			name: "subscribers make it live",
			in: Inputs{
				HasSecretKey:     true,
				HasWebhookSecret: true,
				ProductCount:     3,
				SubscriberCount:  10,
			},
			want: StateReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			assert.Equal(t, tt.want, got.State)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestClassifyErrorDetailPassthrough(t *testing.T) {
	got := Classify(Inputs{
		HasSecretKey:     true,
		HasWebhookSecret: true,
		FetchError:       "rate limited",
	})
	assert.Equal(t, StateError, got.State)
	assert.Equal(t, "rate limited", got.Detail)
}
