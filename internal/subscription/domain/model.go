package domain

import "time"

// Subscription statuses as Stripe reports them.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusUnpaid   = "unpaid"
)

type Subscription struct {
	ID                   int64      `json:"id" gorm:"primaryKey"`
	VentureID            int64      `json:"venture_id" gorm:"not null;uniqueIndex:ux_subscriptions_venture_sub,priority:1"`
	StripeSubscriptionID string     `json:"stripe_subscription_id" gorm:"type:text;not null;uniqueIndex:ux_subscriptions_venture_sub,priority:2"`
	StripeCustomerID     string     `json:"stripe_customer_id" gorm:"type:text;not null;default:''"`
	SignupID             *int64     `json:"signup_id,omitempty"`
	PriceID              *int64     `json:"price_id,omitempty"`
	Status               string     `json:"status" gorm:"type:text;not null;default:active"`
	CurrentPeriodStart   *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end" gorm:"not null;default:false"`
	CanceledAt           *time.Time `json:"canceled_at,omitempty"`
	TrialStart           *time.Time `json:"trial_start,omitempty"`
	TrialEnd             *time.Time `json:"trial_end,omitempty"`
	CreatedAt            time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "subscriptions" }

// Billable reports whether the subscription counts toward recurring revenue.
func (s *Subscription) Billable() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing || s.Status == StatusPastDue
}
