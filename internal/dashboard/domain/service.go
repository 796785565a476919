package domain

import (
	"context"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/integration"
	"github.com/foundrylabs/venturedash/internal/snapshot"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

type Service interface {
	// VentureMetrics combines the live Stripe snapshot with locally ingested
	// rollups for one venture.
	VentureMetrics(ctx context.Context, ventureID string) (*Metrics, error)
}

type DailyPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type MonthlyPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type SignupSummary struct {
	Total          int64   `json:"total"`
	Active         int64   `json:"active"`
	Paying         int64   `json:"paying"`
	Churned        int64   `json:"churned"`
	ConversionRate float64 `json:"conversion_rate"`
}

type Metrics struct {
	Venture        venturedomain.Response `json:"venture"`
	Status         integration.Status     `json:"status"`
	Snapshot       *snapshot.Snapshot     `json:"snapshot,omitempty"`
	Signups        SignupSummary          `json:"signups"`
	TrackedRevenue float64                `json:"tracked_revenue"`
	DailySignups   []DailyPoint           `json:"daily_signups"`
	MonthlyRevenue []MonthlyPoint         `json:"monthly_revenue"`
	RecentActivity []activitydomain.Event `json:"recent_activity"`
}
