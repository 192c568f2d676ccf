package queries

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"desci/contexts/governance/governance-accounting/adapters/memory"
	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/domain/services"
)

const usdcLikeToken = "0x2222222222222222222222222222222222222222"

type seeded struct {
	store    *memory.Store
	ledger   *memory.Ledger
	start    time.Time
	proposal entities.Proposal
}

// seedSixDecimalProposal stores a proposal with 25 tokens for and 1 token
// against on a token with 6 decimals.
func seedSixDecimalProposal(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	ledger := memory.NewLedger()
	ledger.SetDecimals(usdcLikeToken, 6)
	start := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	store.SetNow(start)

	if _, err := store.CreateProject(ctx, entities.Project{
		ProjectID:    "project-1",
		Title:        "Soil microbiome survey",
		RoyaltyToken: usdcLikeToken,
		InitialPrice: 2,
		CreatedAt:    start,
	}); err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	proposal := services.OpenProposal("proposal-1", "project-1", "user-0", "Extend sampling", "", start)
	store.SeedProposal(proposal)

	for _, vote := range []entities.Vote{
		{VoteID: "v1", ProposalID: "proposal-1", UserID: "user-1", Choice: entities.VoteChoiceFor, Weight: "20000000", CreatedAt: start},
		{VoteID: "v2", ProposalID: "proposal-1", UserID: "user-2", Choice: entities.VoteChoiceFor, Weight: "5000000", CreatedAt: start},
		{VoteID: "v3", ProposalID: "proposal-1", UserID: "user-3", Choice: entities.VoteChoiceAgainst, Weight: "1000000", CreatedAt: start},
	} {
		if _, err := store.CreateVote(ctx, vote); err != nil {
			t.Fatalf("create vote failed: %v", err)
		}
	}
	return seeded{store: store, ledger: ledger, start: start, proposal: proposal}
}

func (s seeded) useCase(mode services.TallyMode) ProposalUseCase {
	return ProposalUseCase{
		Projects:  s.store,
		Proposals: s.store,
		Votes:     s.store,
		Oracle:    s.ledger,
		TallyMode: mode,
		Clock:     s.store,
	}
}

func TestProposalTallyStrictUsesTokenDecimals(t *testing.T) {
	s := seedSixDecimalProposal(t)
	view, err := s.useCase(services.TallyModeStrict).ProposalTally(context.Background(), "proposal-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if view.Tally.VotesFor.String() != "25000000" || view.Tally.VotesAgainst.String() != "1000000" {
		t.Fatalf("unexpected sums for=%s against=%s", view.Tally.VotesFor, view.Tally.VotesAgainst)
	}
	if view.Tally.Quorum.String() != "20000000" || !view.Tally.QuorumMet {
		t.Fatalf("expected quorum 20e6 met, got %s met=%v", view.Tally.Quorum, view.Tally.QuorumMet)
	}
	if view.Status != entities.ProposalStatusActive {
		t.Fatalf("expected active while window open, got %s", view.Status)
	}

	s.store.SetNow(s.proposal.EndsAt)
	view, err = s.useCase(services.TallyModeStrict).ProposalTally(context.Background(), "proposal-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if view.Status != entities.ProposalStatusPassed {
		t.Fatalf("expected passed after window, got %s", view.Status)
	}
}

func TestProposalTallyLegacyScalesByDigitCount(t *testing.T) {
	s := seedSixDecimalProposal(t)
	reads := s.ledger.Reads()
	s.store.SetNow(s.proposal.EndsAt.Add(time.Hour))

	view, err := s.useCase(services.TallyModeLegacy).ProposalTally(context.Background(), "proposal-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if view.Tally.Decimals != 8 {
		t.Fatalf("expected legacy scale 8, got %d", view.Tally.Decimals)
	}
	if view.Tally.QuorumMet {
		t.Fatal("expected legacy quorum to be missed")
	}
	if view.Status != entities.ProposalStatusFailed {
		t.Fatalf("expected failed, got %s", view.Status)
	}
	if s.ledger.Reads() != reads {
		t.Fatal("legacy tally must not query the oracle")
	}
}

func TestProposalTallyStrictOracleOutage(t *testing.T) {
	s := seedSixDecimalProposal(t)
	s.ledger.Fail(errors.New("node down"))
	_, err := s.useCase(services.TallyModeStrict).ProposalTally(context.Background(), "proposal-1")
	if !errors.Is(err, domainerrors.ErrOracleUnavailable) {
		t.Fatalf("expected oracle unavailable, got %v", err)
	}
}

func TestProposalTallyUnknownProposal(t *testing.T) {
	s := seedSixDecimalProposal(t)
	_, err := s.useCase(services.TallyModeStrict).ProposalTally(context.Background(), "nope")
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected proposal not found, got %v", err)
	}
}

func TestListProposalsIncludesTallies(t *testing.T) {
	s := seedSixDecimalProposal(t)
	views, err := s.useCase(services.TallyModeStrict).ListProposals(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 || views[0].Tally.VoteCount != 3 {
		t.Fatalf("unexpected views %+v", views)
	}
	if _, err := s.useCase(services.TallyModeStrict).ListProposals(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected project not found, got %v", err)
	}
}

func TestQuotePurchaseDoesNotPersistSession(t *testing.T) {
	s := seedSixDecimalProposal(t)
	uc := PriceUseCase{
		Projects:     s.store,
		Sessions:     s.store,
		PriceOptions: services.DefaultPriceOptions(),
		Clock:        s.store,
	}
	quote, err := uc.QuotePurchase(context.Background(), "project-1", 10)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.CurrentPrice != 2 || quote.BasePrice != 2 {
		t.Fatalf("expected fresh session at 2, got %+v", quote)
	}
	if math.Abs(quote.PriceAfterBuy-2.2) > 1e-9 || math.Abs(quote.EstimatedCost-20) > 1e-9 {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if _, found, _ := s.store.GetPriceState(context.Background(), "project-1"); found {
		t.Fatal("quote must not persist a price session")
	}

	if _, err := uc.QuotePurchase(context.Background(), "project-1", -1); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCurrentPriceDecaysToFloor(t *testing.T) {
	s := seedSixDecimalProposal(t)
	if err := s.store.SavePriceState(context.Background(), "project-1", entities.PriceState{
		CurrentPrice:        2.5,
		LastBuyAt:           s.start,
		BasePrice:           2,
		DecayRatePerHour:    0.01,
		PriceImpactPerToken: 0.02,
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	uc := PriceUseCase{Projects: s.store, Sessions: s.store, PriceOptions: services.DefaultPriceOptions(), Clock: s.store}

	s.store.SetNow(s.start.Add(10 * time.Hour))
	quote, err := uc.CurrentPrice(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("current price failed: %v", err)
	}
	if math.Abs(quote.CurrentPrice-2.4) > 1e-9 {
		t.Fatalf("expected 2.4 after ten hours, got %f", quote.CurrentPrice)
	}

	s.store.SetNow(s.start.Add(500 * time.Hour))
	quote, err = uc.CurrentPrice(context.Background(), "project-1")
	if err != nil {
		t.Fatalf("current price failed: %v", err)
	}
	if quote.CurrentPrice != 2 {
		t.Fatalf("expected floor 2, got %f", quote.CurrentPrice)
	}
}
