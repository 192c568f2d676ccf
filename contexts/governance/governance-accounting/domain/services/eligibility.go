package services

import (
	"math/big"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/internal/shared/tokenunits"
)

const (
	ProposalThresholdTokens = 5
	VoteThresholdTokens     = 1
	VotingWindow            = 72 * time.Hour
)

func ProposalThreshold(decimals int) (*big.Int, error) {
	return tokenunits.WholeTokens(ProposalThresholdTokens, decimals)
}

func VoteThreshold(decimals int) (*big.Int, error) {
	return tokenunits.WholeTokens(VoteThresholdTokens, decimals)
}

// CanVote checks, in order, the voting deadline, the one-vote-per-user rule,
// and the caller's balance against threshold.
func CanVote(
	proposal entities.Proposal,
	alreadyVoted bool,
	now time.Time,
	balance *big.Int,
	threshold *big.Int,
) error {
	if !proposal.VotingOpen(now) {
		return domainerrors.ErrVotingClosed
	}
	if alreadyVoted {
		return domainerrors.ErrAlreadyVoted
	}
	return requireBalance(balance, threshold)
}

func CanCreateProposal(balance *big.Int, threshold *big.Int) error {
	return requireBalance(balance, threshold)
}

// OpenProposal builds an active proposal whose voting window starts at now.
func OpenProposal(proposalID string, projectID string, creatorID string, title string, description string, now time.Time) entities.Proposal {
	createdAt := now.UTC()
	return entities.Proposal{
		ProposalID:  proposalID,
		ProjectID:   projectID,
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Status:      entities.ProposalStatusActive,
		CreatedAt:   createdAt,
		EndsAt:      createdAt.Add(VotingWindow),
	}
}

func requireBalance(balance *big.Int, threshold *big.Int) error {
	actual := balance
	if actual == nil {
		actual = new(big.Int)
	}
	if actual.Cmp(threshold) < 0 {
		return &domainerrors.BalanceError{
			Required: new(big.Int).Set(threshold),
			Actual:   new(big.Int).Set(actual),
		}
	}
	return nil
}
