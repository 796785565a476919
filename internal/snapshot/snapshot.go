// Package snapshot pulls a venture's live billing picture straight from
// Stripe and reduces it to the numbers the dashboard shows.
package snapshot

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foundrylabs/venturedash/internal/integration"
	"github.com/foundrylabs/venturedash/internal/stripegateway"
)

// DefaultTargetARR is the fixed annual revenue goal in dollars that the
// subscriber target is derived from. The per-venture target_arr drives
// progress display only, not this computation.
const DefaultTargetARR = 1_000_000

type Credentials struct {
	SecretKey     string
	WebhookSecret string
	TargetARR     int64
}

type PlanRevenue struct {
	Name        string  `json:"name"`
	Subscribers int     `json:"subscribers"`
	MRR         float64 `json:"mrr"`
}

// Snapshot is the reduced billing picture. Money values are dollars.
type Snapshot struct {
	MRR                float64       `json:"mrr"`
	ARR                float64       `json:"arr"`
	ActiveSubscribers  int           `json:"active_subscribers"`
	ChurnedSubscribers int           `json:"churned_subscribers"`
	ChurnRate          float64       `json:"churn_rate"`
	AvgPlanPrice       float64       `json:"avg_plan_price"`
	SubscriberTarget   int           `json:"subscriber_target"`
	TargetARR          float64       `json:"target_arr"`
	TotalRevenue       float64       `json:"total_revenue"`
	ProductCount       int           `json:"product_count"`
	PlanBreakdown      []PlanRevenue `json:"plan_breakdown"`
}

type Result struct {
	Status   integration.Status `json:"status"`
	Snapshot *Snapshot          `json:"snapshot,omitempty"`
}

type Fetcher struct {
	gateway stripegateway.Gateway
	log     *zap.Logger
}

type Params struct {
	fx.In

	Gateway stripegateway.Gateway
	Log     *zap.Logger
}

func NewFetcher(p Params) *Fetcher {
	return &Fetcher{
		gateway: p.Gateway,
		log:     p.Log.Named("snapshot.fetcher"),
	}
}

// Fetch pulls the four Stripe lists concurrently and reduces them. It never
// returns an error: failures degrade into the Status so the dashboard always
// has something to render.
func (f *Fetcher) Fetch(ctx context.Context, creds Credentials) Result {
	if creds.SecretKey == "" {
		return Result{Status: integration.Classify(integration.Inputs{})}
	}
	if creds.WebhookSecret == "" {
		return Result{Status: integration.Classify(integration.Inputs{HasSecretKey: true})}
	}

	var (
		products      []stripegateway.Product
		prices        []stripegateway.Price
		subscriptions []stripegateway.Subscription
		charges       []stripegateway.Charge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = f.gateway.ListProducts(gctx, creds.SecretKey)
		return err
	})
	g.Go(func() (err error) {
		prices, err = f.gateway.ListPrices(gctx, creds.SecretKey)
		return err
	})
	g.Go(func() (err error) {
		subscriptions, err = f.gateway.ListSubscriptions(gctx, creds.SecretKey)
		return err
	})
	g.Go(func() (err error) {
		charges, err = f.gateway.ListCharges(gctx, creds.SecretKey, 100)
		return err
	})
	if err := g.Wait(); err != nil {
		f.log.Warn("stripe fetch failed", zap.Error(err))
		return Result{Status: integration.Status{
			State:   integration.StateError,
			Message: errorLabel(err),
			Detail:  err.Error(),
		}}
	}

	snap := reduce(products, prices, subscriptions, charges, creds.TargetARR)
	status := integration.Classify(integration.Inputs{
		HasSecretKey:     true,
		HasWebhookSecret: true,
		ProductCount:     int64(snap.ProductCount),
		SubscriberCount:  int64(snap.ActiveSubscribers),
	})
	if status.State == integration.StateNoProducts {
		return Result{Status: status}
	}
	return Result{Status: status, Snapshot: snap}
}

func reduce(
	products []stripegateway.Product,
	prices []stripegateway.Price,
	subscriptions []stripegateway.Subscription,
	charges []stripegateway.Charge,
	targetARR int64,
) *Snapshot {
	snap := &Snapshot{}

	productNames := make(map[string]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
		if p.Active {
			snap.ProductCount++
		}
	}
	priceProducts := make(map[string]string, len(prices))
	for _, p := range prices {
		priceProducts[p.ID] = p.ProductID
	}

	type bucket struct {
		name        string
		subscribers int
		mrrCents    float64
	}
	buckets := make(map[string]*bucket)

	var mrrCents float64
	for _, sub := range subscriptions {
		if sub.Status == "canceled" || sub.Status == "incomplete_expired" {
			snap.ChurnedSubscribers++
			continue
		}
		if sub.Status != "active" && sub.Status != "trialing" && sub.Status != "past_due" {
			continue
		}
		snap.ActiveSubscribers++

		monthly := monthlyCents(sub.UnitAmount, sub.Interval, sub.IntervalCount)
		mrrCents += monthly

		name := productNames[priceProducts[sub.PriceID]]
		if name == "" {
			name = "Unknown plan"
		}
		b, ok := buckets[name]
		if !ok {
			b = &bucket{name: name}
			buckets[name] = b
		}
		b.subscribers++
		b.mrrCents += monthly
	}

	snap.MRR = round2(mrrCents / 100)
	snap.ARR = round2(snap.MRR * 12)

	if total := snap.ActiveSubscribers + snap.ChurnedSubscribers; total > 0 {
		snap.ChurnRate = round1(float64(snap.ChurnedSubscribers) / float64(total) * 100)
	}

	// The average paid price follows the actual subscription mix; the
	// catalog mean is only a guess before anyone subscribes.
	if snap.ActiveSubscribers > 0 {
		snap.AvgPlanPrice = round2(mrrCents / float64(snap.ActiveSubscribers) / 100)
	} else {
		var priceSumCents, priceCount float64
		for _, p := range prices {
			if !p.Active || p.UnitAmount <= 0 || p.Interval == "" {
				continue
			}
			priceSumCents += monthlyCents(p.UnitAmount, p.Interval, p.IntervalCount)
			priceCount++
		}
		if priceCount > 0 {
			snap.AvgPlanPrice = round2(priceSumCents / priceCount / 100)
		}
	}

	snap.TargetARR = float64(targetARR)
	if snap.TargetARR <= 0 {
		snap.TargetARR = DefaultTargetARR
	}
	if snap.AvgPlanPrice > 0 {
		snap.SubscriberTarget = int(math.Ceil(float64(DefaultTargetARR) / 12 / snap.AvgPlanPrice))
	}

	var revenueCents int64
	for _, ch := range charges {
		if ch.Paid && !ch.Refunded {
			revenueCents += ch.AmountCents
		}
	}
	snap.TotalRevenue = round2(float64(revenueCents) / 100)

	snap.PlanBreakdown = make([]PlanRevenue, 0, len(buckets))
	for _, b := range buckets {
		snap.PlanBreakdown = append(snap.PlanBreakdown, PlanRevenue{
			Name:        b.name,
			Subscribers: b.subscribers,
			MRR:         round2(b.mrrCents / 100),
		})
	}
	sort.Slice(snap.PlanBreakdown, func(i, j int) bool {
		if snap.PlanBreakdown[i].MRR != snap.PlanBreakdown[j].MRR {
			return snap.PlanBreakdown[i].MRR > snap.PlanBreakdown[j].MRR
		}
		return snap.PlanBreakdown[i].Name < snap.PlanBreakdown[j].Name
	})

	return snap
}

// monthlyCents normalizes a recurring amount to one month. Yearly divides by
// twelve, weekly counts four weeks to a month, daily thirty days.
func monthlyCents(unitAmount int64, interval string, intervalCount int) float64 {
	amount := float64(unitAmount)
	count := float64(intervalCount)
	if count <= 0 {
		count = 1
	}
	switch interval {
	case "year":
		return amount / (12 * count)
	case "week":
		return amount * 4 / count
	case "day":
		return amount * 30 / count
	default:
		return amount / count
	}
}

func errorLabel(err error) string {
	if errors.Is(err, stripegateway.ErrAuth) ||
		strings.Contains(strings.ToLower(err.Error()), "invalid api key") {
		return "Invalid Stripe Key"
	}
	return "Stripe Error"
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
