package services

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
)

func tokens(t *testing.T, count int64) *big.Int {
	t.Helper()
	value, err := VoteThreshold(18)
	if err != nil {
		t.Fatalf("threshold failed: %v", err)
	}
	return value.Mul(value, big.NewInt(count))
}

func TestCanVoteAcceptsEligibleHolder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	proposal := OpenProposal("proposal-1", "project-1", "user-0", "Fund assay", "", now.Add(-time.Hour))
	threshold, _ := VoteThreshold(18)

	if err := CanVote(proposal, false, now, tokens(t, 1), threshold); err != nil {
		t.Fatalf("expected vote allowed, got %v", err)
	}
}

func TestCanVoteRejectsAfterDeadline(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	proposal := OpenProposal("proposal-1", "project-1", "user-0", "Fund assay", "", created)
	threshold, _ := VoteThreshold(18)

	err := CanVote(proposal, false, proposal.EndsAt, tokens(t, 10), threshold)
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected voting closed at endsAt, got %v", err)
	}
	err = CanVote(proposal, false, proposal.EndsAt.Add(-time.Nanosecond), tokens(t, 10), threshold)
	if err != nil {
		t.Fatalf("expected vote allowed just before endsAt, got %v", err)
	}
}

func TestCanVoteRejectsSecondVoteRegardlessOfChoice(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	proposal := OpenProposal("proposal-1", "project-1", "user-0", "Fund assay", "", now)
	threshold, _ := VoteThreshold(18)

	err := CanVote(proposal, true, now, tokens(t, 100), threshold)
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}
}

func TestCanVoteRejectsInsufficientBalance(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	proposal := OpenProposal("proposal-1", "project-1", "user-0", "Fund assay", "", now)
	threshold, _ := VoteThreshold(18)
	balance := new(big.Int).Sub(threshold, big.NewInt(1))

	err := CanVote(proposal, false, now, balance, threshold)
	if !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	var balanceErr *domainerrors.BalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("expected balance error detail, got %T", err)
	}
	if balanceErr.Required.Cmp(threshold) != 0 || balanceErr.Actual.Cmp(balance) != 0 {
		t.Fatalf("unexpected detail %s", balanceErr.Error())
	}

	if err := CanVote(proposal, false, now, nil, threshold); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected nil balance treated as zero, got %v", err)
	}
}

func TestCanCreateProposalRequiresFiveTokens(t *testing.T) {
	threshold, err := ProposalThreshold(18)
	if err != nil {
		t.Fatalf("threshold failed: %v", err)
	}
	if threshold.String() != "5000000000000000000" {
		t.Fatalf("expected 5e18 threshold, got %s", threshold)
	}
	if err := CanCreateProposal(tokens(t, 4), threshold); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance with 4 tokens, got %v", err)
	}
	if err := CanCreateProposal(tokens(t, 5), threshold); err != nil {
		t.Fatalf("expected 5 tokens accepted, got %v", err)
	}
}

func TestOpenProposalSetsSeventyTwoHourWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	proposal := OpenProposal("proposal-1", "project-1", "user-1", "Title", "Body", now)
	if proposal.Status != entities.ProposalStatusActive {
		t.Fatalf("expected active, got %s", proposal.Status)
	}
	if !proposal.EndsAt.Equal(now.Add(72 * time.Hour)) {
		t.Fatalf("expected endsAt now+72h, got %s", proposal.EndsAt)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	proposal := OpenProposal("proposal-1", "project-1", "user-1", "Title", "Body", now)
	passing := TallyResult{VotesFor: big.NewInt(30), VotesAgainst: big.NewInt(1), Quorum: big.NewInt(20), QuorumMet: true}
	tied := TallyResult{VotesFor: big.NewInt(15), VotesAgainst: big.NewInt(15), Quorum: big.NewInt(20), QuorumMet: true}
	thin := TallyResult{VotesFor: big.NewInt(5), VotesAgainst: big.NewInt(0), Quorum: big.NewInt(20)}
	after := proposal.EndsAt

	if got := DeriveStatus(proposal, passing, now); got != entities.ProposalStatusActive {
		t.Fatalf("expected active before deadline, got %s", got)
	}
	if got := DeriveStatus(proposal, passing, after); got != entities.ProposalStatusPassed {
		t.Fatalf("expected passed, got %s", got)
	}
	if got := DeriveStatus(proposal, tied, after); got != entities.ProposalStatusFailed {
		t.Fatalf("expected failed on tie, got %s", got)
	}
	if got := DeriveStatus(proposal, thin, after); got != entities.ProposalStatusFailed {
		t.Fatalf("expected failed without quorum, got %s", got)
	}
	closed := proposal
	closed.Status = entities.ProposalStatusClosed
	if got := DeriveStatus(closed, passing, now); got != entities.ProposalStatusClosed {
		t.Fatalf("expected stored terminal status kept, got %s", got)
	}
}
