package services

import (
	"math/big"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
)

// DeriveStatus computes a proposal's status on read. Stored statuses other
// than active are returned unchanged.
func DeriveStatus(proposal entities.Proposal, tally TallyResult, now time.Time) entities.ProposalStatus {
	if proposal.Status != "" && proposal.Status != entities.ProposalStatusActive {
		return proposal.Status
	}
	if proposal.VotingOpen(now) {
		return entities.ProposalStatusActive
	}
	if tally.QuorumMet && orZero(tally.VotesFor).Cmp(orZero(tally.VotesAgainst)) > 0 {
		return entities.ProposalStatusPassed
	}
	return entities.ProposalStatusFailed
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}
