package services

import (
	"errors"
	"math/big"
	"testing"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
)

func vote(id string, choice entities.VoteChoice, weight string) entities.Vote {
	return entities.Vote{VoteID: id, ProposalID: "proposal-1", UserID: "user-" + id, Choice: choice, Weight: weight}
}

func TestTallyReachesQuorumWithEighteenDecimals(t *testing.T) {
	votes := []entities.Vote{
		vote("1", entities.VoteChoiceFor, "15000000000000000000"),
		vote("2", entities.VoteChoiceAgainst, "3000000000000000000"),
		vote("3", entities.VoteChoiceFor, "6000000000000000000"),
	}

	result, err := Tally(votes, 18, TallyModeStrict)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if result.VotesFor.String() != "21000000000000000000" {
		t.Fatalf("expected votes for 21e18, got %s", result.VotesFor)
	}
	if result.VotesAgainst.String() != "3000000000000000000" {
		t.Fatalf("expected votes against 3e18, got %s", result.VotesAgainst)
	}
	if result.Quorum.String() != "20000000000000000000" {
		t.Fatalf("expected quorum 20e18, got %s", result.Quorum)
	}
	if !result.QuorumMet {
		t.Fatal("expected quorum to be met")
	}
	if result.VoteCount != 3 || result.Decimals != 18 {
		t.Fatalf("unexpected count/decimals %d/%d", result.VoteCount, result.Decimals)
	}
}

func TestTallyBelowQuorum(t *testing.T) {
	result, err := Tally([]entities.Vote{
		vote("1", entities.VoteChoiceFor, "19"),
	}, 0, TallyModeStrict)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if result.QuorumMet {
		t.Fatal("expected quorum not met for 19 of 20")
	}

	result, err = Tally([]entities.Vote{
		vote("1", entities.VoteChoiceFor, "19"),
		vote("2", entities.VoteChoiceAgainst, "1"),
	}, 0, TallyModeStrict)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if !result.QuorumMet {
		t.Fatal("expected quorum met at exactly 20")
	}
}

func TestTallyHandlesWeightsBeyondUint64(t *testing.T) {
	huge := "340282366920938463463374607431768211456"
	result, err := Tally([]entities.Vote{
		vote("1", entities.VoteChoiceFor, huge),
		vote("2", entities.VoteChoiceFor, huge),
	}, 18, TallyModeStrict)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	want, _ := new(big.Int).SetString(huge, 10)
	want.Mul(want, big.NewInt(2))
	if result.VotesFor.Cmp(want) != 0 {
		t.Fatalf("expected %s, got %s", want, result.VotesFor)
	}
}

func TestTallyLegacyModeUsesEighteenWithoutVotes(t *testing.T) {
	result, err := Tally(nil, 6, TallyModeLegacy)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if result.Decimals != 18 {
		t.Fatalf("expected legacy empty scale 18, got %d", result.Decimals)
	}
	if result.Quorum.String() != "20000000000000000000" {
		t.Fatalf("expected quorum 20e18, got %s", result.Quorum)
	}
	if result.VotesFor.Sign() != 0 || result.VotesAgainst.Sign() != 0 || result.QuorumMet {
		t.Fatalf("unexpected empty tally %+v", result)
	}
}

func TestTallyLegacyModeInfersScaleFromVotesForDigits(t *testing.T) {
	votes := []entities.Vote{
		vote("1", entities.VoteChoiceFor, "15000000000000000000"),
		vote("2", entities.VoteChoiceAgainst, "3000000000000000000"),
		vote("3", entities.VoteChoiceFor, "6000000000000000000"),
	}
	result, err := Tally(votes, 18, TallyModeLegacy)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	// "21000000000000000000" has 20 digits.
	if result.Decimals != 20 {
		t.Fatalf("expected legacy scale 20, got %d", result.Decimals)
	}
	if result.QuorumMet {
		t.Fatal("expected legacy scaling to push quorum out of reach")
	}

	strict, err := Tally(votes, 18, TallyModeStrict)
	if err != nil {
		t.Fatalf("strict tally failed: %v", err)
	}
	if strict.VotesFor.Cmp(result.VotesFor) != 0 || strict.VotesAgainst.Cmp(result.VotesAgainst) != 0 {
		t.Fatal("expected both modes to agree on totals")
	}
}

func TestTallyRejectsMalformedWeights(t *testing.T) {
	for _, weight := range []string{"", "1.5", "-1", "ten"} {
		_, err := Tally([]entities.Vote{vote("1", entities.VoteChoiceFor, weight)}, 18, TallyModeStrict)
		if !errors.Is(err, domainerrors.ErrValidation) {
			t.Fatalf("expected validation error for weight %q, got %v", weight, err)
		}
	}
}

func TestTallyRejectsUnknownChoice(t *testing.T) {
	_, err := Tally([]entities.Vote{vote("1", "abstain", "1")}, 18, TallyModeStrict)
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseTallyMode(t *testing.T) {
	cases := map[string]TallyMode{
		"":        TallyModeStrict,
		"strict":  TallyModeStrict,
		" LEGACY": TallyModeLegacy,
	}
	for raw, want := range cases {
		got, err := ParseTallyMode(raw)
		if err != nil {
			t.Fatalf("parse %q failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", raw, want, got)
		}
	}
	if _, err := ParseTallyMode("loose"); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
