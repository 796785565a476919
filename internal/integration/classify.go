// Package integration decides how far along a venture's billing integration
// is, so the dashboard can show setup guidance instead of empty charts.
package integration

// Integration states, ordered from least to most complete.
const (
	StateNeedsStripeKey     = "needs_stripe_key"
	StateNeedsWebhookSecret = "needs_webhook_secret"
	StateError              = "error"
	StateNoProducts         = "no_products"
	StateNoData             = "no_data"
	StateReady              = "ready"
)

type Status struct {
	State   string `json:"state"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Inputs are the observed facts a classification is made from.
type Inputs struct {
	HasSecretKey     bool
	HasWebhookSecret bool
	FetchError       string
	ProductCount     int64
	SubscriberCount  int64
}

// Classify maps the observed facts to a single state. Checks run in priority
// order: a missing key hides everything downstream of it, a fetch error hides
// catalog emptiness, and so on.
func Classify(in Inputs) Status {
	switch {
	case !in.HasSecretKey:
		return Status{
			State:   StateNeedsStripeKey,
			Message: "Connect Stripe",
			Detail:  "Add the venture's Stripe secret key to start pulling billing data.",
		}
	case !in.HasWebhookSecret:
		return Status{
			State:   StateNeedsWebhookSecret,
			Message: "Add webhook secret",
			Detail:  "Billing data is polled but live events need a webhook signing secret.",
		}
	case in.FetchError != "":
		return Status{
			State:   StateError,
			Message: "Stripe Error",
			Detail:  in.FetchError,
		}
	case in.ProductCount == 0:
		return Status{
			State:   StateNoProducts,
			Message: "No products yet",
			Detail:  "Stripe is connected but no products exist in the account.",
		}
	case in.SubscriberCount == 0:
		// One-time charges alone do not make a recurring business; lump
		// revenue still classifies as waiting for subscribers.
		return Status{
			State:   StateNoData,
			Message: "Waiting for first subscriber",
			Detail:  "Products exist but no one has subscribed yet.",
		}
	default:
		return Status{State: StateReady, Message: "Live"}
	}
}
