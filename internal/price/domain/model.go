package domain

import "time"

// Billing intervals as Stripe reports them.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Price mirrors one Stripe price for a venture. UnitAmount is in the smallest
// currency unit, cents for usd.
type Price struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	VentureID     int64     `json:"venture_id" gorm:"not null;uniqueIndex:ux_prices_venture_price,priority:1"`
	PlanID        *int64    `json:"plan_id,omitempty"`
	StripePriceID string    `json:"stripe_price_id" gorm:"type:text;not null;uniqueIndex:ux_prices_venture_price,priority:2"`
	UnitAmount    int64     `json:"unit_amount" gorm:"not null;default:0"`
	Currency      string    `json:"currency" gorm:"type:text;not null;default:usd"`
	Interval      string    `json:"interval" gorm:"column:interval;type:text;not null;default:month"`
	IntervalCount int       `json:"interval_count" gorm:"not null;default:1"`
	Active        bool      `json:"active" gorm:"not null;default:true"`
	IsDefault     bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Price) TableName() string { return "prices" }

// MonthlyAmount normalizes the price to a monthly figure in cents. Yearly
// prices divide by twelve, weekly prices count four weeks to a month.
func (p *Price) MonthlyAmount() float64 {
	amount := float64(p.UnitAmount)
	count := p.IntervalCount
	if count <= 0 {
		count = 1
	}
	switch p.Interval {
	case IntervalYear:
		return amount / (12 * float64(count))
	case IntervalWeek:
		return amount * 4 / float64(count)
	case IntervalDay:
		return amount * 30 / float64(count)
	default:
		return amount / float64(count)
	}
}
