package entities

import "time"

// PriceState is the ephemeral pricing session for one project token.
type PriceState struct {
	CurrentPrice        float64   `json:"current_price"`
	LastBuyAt           time.Time `json:"last_buy_at"`
	BasePrice           float64   `json:"base_price"`
	DecayRatePerHour    float64   `json:"decay_rate_per_hour"`
	PriceImpactPerToken float64   `json:"price_impact_per_token"`
}

type Purchase struct {
	PurchaseID string
	ProjectID  string
	UserID     string
	Amount     float64
	UnitPrice  float64
	PriceAfter float64
	CreatedAt  time.Time
}

// Cost is the estimated spend at the unit price captured for the purchase.
func (p Purchase) Cost() float64 {
	return p.Amount * p.UnitPrice
}
