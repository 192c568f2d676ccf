package services

import (
	"fmt"
	"math"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
)

const (
	DefaultDecayRatePerHour    = 0.01
	DefaultPriceImpactPerToken = 0.02
)

type PriceOptions struct {
	DecayRatePerHour    float64
	PriceImpactPerToken float64
}

func DefaultPriceOptions() PriceOptions {
	return PriceOptions{
		DecayRatePerHour:    DefaultDecayRatePerHour,
		PriceImpactPerToken: DefaultPriceImpactPerToken,
	}
}

// InitializePrice opens a pricing session at the project's initial price,
// which also becomes the immutable floor.
func InitializePrice(initialPrice float64, now time.Time, opts PriceOptions) (entities.PriceState, error) {
	if !(initialPrice > 0) || math.IsInf(initialPrice, 0) {
		return entities.PriceState{}, fmt.Errorf("%w: initial price must be positive", domainerrors.ErrValidation)
	}
	if opts.DecayRatePerHour < 0 || opts.PriceImpactPerToken < 0 {
		return entities.PriceState{}, fmt.Errorf("%w: price rates must not be negative", domainerrors.ErrValidation)
	}
	return entities.PriceState{
		CurrentPrice:        initialPrice,
		LastBuyAt:           now.UTC(),
		BasePrice:           initialPrice,
		DecayRatePerHour:    opts.DecayRatePerHour,
		PriceImpactPerToken: opts.PriceImpactPerToken,
	}, nil
}

// CurrentPrice decays the last traded price linearly per elapsed hour and
// never returns less than the base price.
func CurrentPrice(state entities.PriceState, now time.Time) float64 {
	hours := now.Sub(state.LastBuyAt).Hours()
	if hours < 0 {
		hours = 0
	}
	decayed := state.CurrentPrice - state.DecayRatePerHour*hours
	return math.Max(decayed, state.BasePrice)
}

// PriceAfterBuy is the price once amount tokens are bought. The caller owns
// persisting it together with the new last-buy time.
func PriceAfterBuy(state entities.PriceState, amount float64) float64 {
	return state.CurrentPrice + state.PriceImpactPerToken*amount
}
