package postgresadapter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "governance.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := NewRepository(db, nil)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return repo
}

func TestRepositoryVoteUniqueIndexRejectsDuplicateVoter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := repo.CreateVote(ctx, entities.Vote{
		VoteID: "vote-1", ProposalID: "proposal-1", UserID: "user-1",
		Choice: entities.VoteChoiceFor, Weight: "340282366920938463463374607431768211456", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	_, err = repo.CreateVote(ctx, entities.Vote{
		VoteID: "vote-2", ProposalID: "proposal-1", UserID: "user-1",
		Choice: entities.VoteChoiceAgainst, Weight: "1", CreatedAt: now,
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted from unique index, got %v", err)
	}

	if _, err := repo.CreateVote(ctx, entities.Vote{
		VoteID: "vote-3", ProposalID: "proposal-2", UserID: "user-1",
		Choice: entities.VoteChoiceAgainst, Weight: "1", CreatedAt: now,
	}); err != nil {
		t.Fatalf("vote on another proposal failed: %v", err)
	}

	found, ok, err := repo.FindVote(ctx, "proposal-1", "user-1")
	if err != nil || !ok {
		t.Fatalf("find vote failed: ok=%v err=%v", ok, err)
	}
	if found.Weight != first.Weight {
		t.Fatalf("expected weight preserved exactly, got %s", found.Weight)
	}
	if _, ok, err := repo.FindVote(ctx, "proposal-1", "user-9"); err != nil || ok {
		t.Fatalf("expected no vote for user-9, ok=%v err=%v", ok, err)
	}

	votes, err := repo.ListVotesForProposal(ctx, "proposal-1")
	if err != nil {
		t.Fatalf("list votes failed: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected one stored vote, got %d", len(votes))
	}
}

func TestRepositoryFindOrCreateUserReusesAddress(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.FindOrCreateUser(ctx, entities.User{UserID: "user-1", Address: "0xAAAA000000000000000000000000000000000001"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	second, err := repo.FindOrCreateUser(ctx, entities.User{UserID: "user-2", Address: "0xaaaa000000000000000000000000000000000001"})
	if err != nil {
		t.Fatalf("find user failed: %v", err)
	}
	if first.UserID != "user-1" || second.UserID != "user-1" {
		t.Fatalf("expected user-1 reused, got %s and %s", first.UserID, second.UserID)
	}
	if second.Address != "0xaaaa000000000000000000000000000000000001" {
		t.Fatalf("expected lower-cased address, got %s", second.Address)
	}
}

func TestRepositoryProjectAndProposalRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := repo.FindProject(ctx, "missing"); !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected project not found, got %v", err)
	}
	if _, err := repo.FindProposal(ctx, "missing"); !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected proposal not found, got %v", err)
	}

	project, err := repo.CreateProject(ctx, entities.Project{
		ProjectID:    "project-1",
		Title:        "Open protein atlas",
		RoyaltyToken: "0x1111111111111111111111111111111111111111",
		InitialPrice: 1.25,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	if _, err := repo.CreateProject(ctx, project); !errors.Is(err, domainerrors.ErrConflict) {
		t.Fatalf("expected conflict on duplicate project, got %v", err)
	}

	for i, id := range []string{"proposal-1", "proposal-2"} {
		_, err := repo.CreateProposal(ctx, entities.Proposal{
			ProposalID: id,
			ProjectID:  "project-1",
			CreatorID:  "user-1",
			Title:      "Milestone " + id,
			Status:     entities.ProposalStatusActive,
			CreatedAt:  now.Add(time.Duration(i) * time.Minute),
			EndsAt:     now.Add(72 * time.Hour),
		})
		if err != nil {
			t.Fatalf("create proposal failed: %v", err)
		}
	}
	proposals, err := repo.ListProposalsByProject(ctx, "project-1")
	if err != nil {
		t.Fatalf("list proposals failed: %v", err)
	}
	if len(proposals) != 2 || proposals[0].ProposalID != "proposal-2" {
		t.Fatalf("expected newest proposal first, got %+v", proposals)
	}
	if !proposals[1].EndsAt.Equal(now.Add(72 * time.Hour)) {
		t.Fatalf("unexpected endsAt %s", proposals[1].EndsAt)
	}
}

func TestRepositoryOutboxLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	envelope := ports.EventEnvelope{
		EventID:      "evt-1",
		EventType:    "governance.vote.cast",
		OccurredAt:   now,
		PartitionKey: "proposal-1",
		Data:         []byte(`{"choice":"for"}`),
	}
	if err := repo.AppendOutbox(ctx, envelope); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
	if err := repo.AppendOutbox(ctx, envelope); err != nil {
		t.Fatalf("duplicate append failed: %v", err)
	}

	pending, err := repo.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "evt-1" {
		t.Fatalf("unexpected pending rows %+v", pending)
	}
	if err := repo.MarkOutboxPublished(ctx, "evt-1", now); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = repo.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %d", len(pending))
	}
	if err := repo.MarkOutboxPublished(ctx, "missing", now); !errors.Is(err, domainerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRepositoryPurchases(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	err := repo.CreatePurchase(ctx, entities.Purchase{
		PurchaseID: "purchase-1",
		ProjectID:  "project-1",
		UserID:     "user-1",
		Amount:     10,
		UnitPrice:  1,
		PriceAfter: 1.2,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	items, err := repo.ListPurchasesByProject(ctx, "project-1")
	if err != nil {
		t.Fatalf("list purchases failed: %v", err)
	}
	if len(items) != 1 || items[0].PriceAfter != 1.2 {
		t.Fatalf("unexpected purchases %+v", items)
	}
}
