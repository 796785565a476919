package domain

import "time"

const (
	TypeOneTime      = "one_time"
	TypeSubscription = "subscription"
	TypeRefund       = "refund"
)

// Entry is an append-only revenue record. Refunds are entries of their own
// with a negative amount, the original entry is never touched.
type Entry struct {
	ID                   int64      `json:"id" gorm:"primaryKey"`
	VentureID            int64      `json:"venture_id" gorm:"not null;index:ix_revenue_entries_venture_occurred,priority:1"`
	SignupID             *int64     `json:"signup_id,omitempty"`
	AmountCents          int64      `json:"amount_cents" gorm:"not null"`
	Currency             string     `json:"currency" gorm:"type:text;not null;default:usd"`
	Type                 string     `json:"type" gorm:"type:text;not null;default:one_time"`
	StripePaymentID      *string    `json:"stripe_payment_id,omitempty" gorm:"type:text;index:ix_revenue_entries_payment"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty" gorm:"type:text"`
	Description          string     `json:"description" gorm:"type:text;not null;default:''"`
	PeriodStart          *time.Time `json:"period_start,omitempty"`
	PeriodEnd            *time.Time `json:"period_end,omitempty"`
	OccurredAt           time.Time  `json:"occurred_at" gorm:"not null;index:ix_revenue_entries_venture_occurred,priority:2;default:CURRENT_TIMESTAMP"`
	CreatedAt            time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "revenue_entries" }
