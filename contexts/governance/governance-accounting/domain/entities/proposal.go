package entities

import "time"

type ProposalStatus string

const (
	ProposalStatusActive ProposalStatus = "active"
	ProposalStatusClosed ProposalStatus = "closed"
	ProposalStatusPassed ProposalStatus = "passed"
	ProposalStatusFailed ProposalStatus = "failed"
)

type Proposal struct {
	ProposalID  string
	ProjectID   string
	CreatorID   string
	Title       string
	Description string
	Status      ProposalStatus
	CreatedAt   time.Time
	EndsAt      time.Time
}

// VotingOpen reports whether votes may still be cast at now.
func (p Proposal) VotingOpen(now time.Time) bool {
	return now.Before(p.EndsAt)
}
