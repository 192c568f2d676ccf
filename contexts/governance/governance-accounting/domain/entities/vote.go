package entities

import "time"

type VoteChoice string

const (
	VoteChoiceFor     VoteChoice = "for"
	VoteChoiceAgainst VoteChoice = "against"
)

func (c VoteChoice) Valid() bool {
	return c == VoteChoiceFor || c == VoteChoiceAgainst
}

// Vote is created once and never mutated. Weight is the voter's token balance
// at cast time in smallest units, kept as a base-10 string.
type Vote struct {
	VoteID     string
	ProposalID string
	UserID     string
	Choice     VoteChoice
	Weight     string
	CreatedAt  time.Time
}
