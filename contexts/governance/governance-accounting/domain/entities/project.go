package entities

import "time"

// Project holds the royalty token whose balances weight governance votes and
// the initial price that floors the token's offer price.
type Project struct {
	ProjectID      string
	Title          string
	RoyaltyToken   string
	InitialPrice   float64
	CreatorAddress string
	CreatedAt      time.Time
}
