package stripegateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

type apiGateway struct {
	log *zap.Logger
}

// New returns a Gateway backed by the Stripe API. A fresh client.API is built
// per call because every venture carries its own secret key; the library's
// global key is never set.
func New(log *zap.Logger) Gateway {
	return &apiGateway{log: log.Named("stripe.gateway")}
}

func (g *apiGateway) api(secretKey string) *client.API {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return sc
}

func (g *apiGateway) ListProducts(ctx context.Context, secretKey string) ([]Product, error) {
	params := &stripe.ProductListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(100)},
	}

	var out []Product
	iter := g.api(secretKey).Products.List(params)
	for iter.Next() {
		p := iter.Product()
		out = append(out, Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Active:      p.Active,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr("list products", err)
	}
	return out, nil
}

func (g *apiGateway) ListPrices(ctx context.Context, secretKey string) ([]Price, error) {
	params := &stripe.PriceListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(100)},
	}

	var out []Price
	iter := g.api(secretKey).Prices.List(params)
	for iter.Next() {
		p := iter.Price()
		price := Price{
			ID:         p.ID,
			UnitAmount: p.UnitAmount,
			Currency:   string(p.Currency),
			Active:     p.Active,
		}
		if p.Product != nil {
			price.ProductID = p.Product.ID
		}
		if p.Recurring != nil {
			price.Interval = string(p.Recurring.Interval)
			price.IntervalCount = int(p.Recurring.IntervalCount)
		}
		out = append(out, price)
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr("list prices", err)
	}
	return out, nil
}

func (g *apiGateway) ListSubscriptions(ctx context.Context, secretKey string) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(100)},
		Status:     stripe.String("all"),
	}
	params.AddExpand("data.customer")

	var out []Subscription
	iter := g.api(secretKey).Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		item := Subscription{
			ID:                sub.ID,
			Status:            string(sub.Status),
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
			CanceledAt:        unixPtr(sub.CanceledAt),
			TrialStart:        unixPtr(sub.TrialStart),
			TrialEnd:          unixPtr(sub.TrialEnd),
		}
		if sub.Customer != nil {
			item.CustomerID = sub.Customer.ID
			item.CustomerEmail = sub.Customer.Email
		}
		// Price and period bounds live on the subscription item in v82.
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			first := sub.Items.Data[0]
			item.CurrentPeriodStart = unixPtr(first.CurrentPeriodStart)
			item.CurrentPeriodEnd = unixPtr(first.CurrentPeriodEnd)
			if first.Price != nil {
				item.PriceID = first.Price.ID
				item.UnitAmount = first.Price.UnitAmount
				if first.Price.Recurring != nil {
					item.Interval = string(first.Price.Recurring.Interval)
					item.IntervalCount = int(first.Price.Recurring.IntervalCount)
				}
			}
		}
		out = append(out, item)
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr("list subscriptions", err)
	}
	return out, nil
}

func (g *apiGateway) ListCharges(ctx context.Context, secretKey string, limit int) ([]Charge, error) {
	if limit <= 0 {
		limit = 100
	}
	params := &stripe.ChargeListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(int64(limit))},
	}

	var out []Charge
	iter := g.api(secretKey).Charges.List(params)
	for iter.Next() {
		ch := iter.Charge()
		charge := Charge{
			ID:          ch.ID,
			AmountCents: ch.Amount,
			Currency:    string(ch.Currency),
			Paid:        ch.Paid,
			Refunded:    ch.Refunded,
			Description: ch.Description,
			CreatedAt:   time.Unix(ch.Created, 0).UTC(),
		}
		if ch.BillingDetails != nil {
			charge.CustomerEmail = ch.BillingDetails.Email
		}
		out = append(out, charge)
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr("list charges", err)
	}
	return out, nil
}

func wrapErr(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		// v82 has no dedicated authentication error type; a bad or revoked
		// secret key surfaces as a plain 401.
		if stripeErr.HTTPStatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%s: %w: %s", op, ErrAuth, stripeErr.Msg)
		}
		return fmt.Errorf("%s: %s", op, stripeErr.Msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
