package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterProjectRequest struct {
	Title          string  `json:"title"`
	RoyaltyToken   string  `json:"royalty_token"`
	InitialPrice   float64 `json:"initial_price"`
	CreatorAddress string  `json:"creator_address,omitempty"`
}

type ProjectResponse struct {
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	RoyaltyToken   string    `json:"royalty_token"`
	InitialPrice   float64   `json:"initial_price"`
	CreatorAddress string    `json:"creator_address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateProposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TallyResponse struct {
	VotesFor            string `json:"votes_for"`
	VotesAgainst        string `json:"votes_against"`
	Quorum              string `json:"quorum"`
	QuorumMet           bool   `json:"quorum_met"`
	Decimals            int    `json:"decimals"`
	VoteCount           int    `json:"vote_count"`
	Participation       string `json:"participation"`
	VotesForTokens      string `json:"votes_for_tokens"`
	VotesAgainstTokens  string `json:"votes_against_tokens"`
	QuorumTokens        string `json:"quorum_tokens"`
	ParticipationTokens string `json:"participation_tokens"`
}

type ProposalResponse struct {
	ProposalID  string         `json:"proposal_id"`
	ProjectID   string         `json:"project_id"`
	CreatorID   string         `json:"creator_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	EndsAt      time.Time      `json:"ends_at"`
	Tally       *TallyResponse `json:"tally,omitempty"`
}

type ProposalListResponse struct {
	Items []ProposalResponse `json:"items"`
}

type CastVoteRequest struct {
	Choice string `json:"choice"`
}

type VoteResponse struct {
	VoteID     string    `json:"vote_id"`
	ProposalID string    `json:"proposal_id"`
	UserID     string    `json:"user_id"`
	Choice     string    `json:"choice"`
	Weight     string    `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
}

type PriceResponse struct {
	ProjectID     string    `json:"project_id"`
	CurrentPrice  float64   `json:"current_price"`
	BasePrice     float64   `json:"base_price"`
	Amount        float64   `json:"amount,omitempty"`
	PriceAfterBuy float64   `json:"price_after_buy"`
	EstimatedCost float64   `json:"estimated_cost,omitempty"`
	LastBuyAt     time.Time `json:"last_buy_at"`
}

type RecordPurchaseRequest struct {
	Amount float64 `json:"amount"`
}

type PurchaseResponse struct {
	PurchaseID string    `json:"purchase_id"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	UnitPrice  float64   `json:"unit_price"`
	PriceAfter float64   `json:"price_after"`
	Cost       float64   `json:"cost"`
	CreatedAt  time.Time `json:"created_at"`
}

type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
}
