package services

import (
	"fmt"
	"math/big"
	"strings"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/internal/shared/tokenunits"
)

// QuorumTokens is the protocol-fixed participation floor in whole tokens.
const QuorumTokens = 20

// legacyEmptyDecimals is the scale the legacy tally assumes when a proposal
// has no votes yet.
const legacyEmptyDecimals = 18

// TallyMode selects how the quorum threshold is scaled.
type TallyMode string

const (
	// TallyModeStrict scales the quorum by the token's queried decimals.
	TallyModeStrict TallyMode = "strict"
	// TallyModeLegacy scales by 18 when no votes exist, and otherwise by the
	// digit count of the summed votes-for value.
	TallyModeLegacy TallyMode = "legacy"
)

func ParseTallyMode(raw string) (TallyMode, error) {
	switch TallyMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TallyModeStrict:
		return TallyModeStrict, nil
	case TallyModeLegacy:
		return TallyModeLegacy, nil
	default:
		return "", fmt.Errorf("%w: unknown tally mode %q", domainerrors.ErrValidation, raw)
	}
}

type TallyResult struct {
	VotesFor     *big.Int
	VotesAgainst *big.Int
	Quorum       *big.Int
	QuorumMet    bool
	// Decimals is the scale actually applied to the quorum.
	Decimals  int
	VoteCount int
}

// Participation is the combined weight of every counted vote.
func (r TallyResult) Participation() *big.Int {
	return new(big.Int).Add(r.VotesFor, r.VotesAgainst)
}

// Tally sums vote weights per choice and evaluates quorum. It is a pure
// function of its inputs.
func Tally(votes []entities.Vote, decimals int, mode TallyMode) (TallyResult, error) {
	votesFor := new(big.Int)
	votesAgainst := new(big.Int)
	for _, vote := range votes {
		weight, err := tokenunits.ParseAmount(vote.Weight)
		if err != nil {
			return TallyResult{}, fmt.Errorf("%w: vote %s weight: %w", domainerrors.ErrValidation, vote.VoteID, err)
		}
		switch vote.Choice {
		case entities.VoteChoiceFor:
			votesFor.Add(votesFor, weight)
		case entities.VoteChoiceAgainst:
			votesAgainst.Add(votesAgainst, weight)
		default:
			return TallyResult{}, fmt.Errorf("%w: vote %s has choice %q", domainerrors.ErrValidation, vote.VoteID, vote.Choice)
		}
	}

	scale := decimals
	if mode == TallyModeLegacy {
		scale = legacyEmptyDecimals
		if len(votes) > 0 {
			scale = len(votesFor.String())
		}
	}
	quorum, err := tokenunits.WholeTokens(QuorumTokens, scale)
	if err != nil {
		return TallyResult{}, fmt.Errorf("%w: %w", domainerrors.ErrValidation, err)
	}

	participation := new(big.Int).Add(votesFor, votesAgainst)
	return TallyResult{
		VotesFor:     votesFor,
		VotesAgainst: votesAgainst,
		Quorum:       quorum,
		QuorumMet:    participation.Cmp(quorum) >= 0,
		Decimals:     scale,
		VoteCount:    len(votes),
	}, nil
}
