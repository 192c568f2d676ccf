package ports

import (
	"context"
	"math/big"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	"desci/internal/shared/events"
	"desci/internal/shared/outbox"
)

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type ProjectRepository interface {
	CreateProject(ctx context.Context, project entities.Project) (entities.Project, error)
	FindProject(ctx context.Context, projectID string) (entities.Project, error)
}

type ProposalRepository interface {
	FindProposal(ctx context.Context, proposalID string) (entities.Proposal, error)
	CreateProposal(ctx context.Context, proposal entities.Proposal) (entities.Proposal, error)
	ListProposalsByProject(ctx context.Context, projectID string) ([]entities.Proposal, error)
}

// VoteRepository must reject a second vote for the same (proposal, user) pair
// with ErrAlreadyVoted even when two writers race past FindVote.
type VoteRepository interface {
	ListVotesForProposal(ctx context.Context, proposalID string) ([]entities.Vote, error)
	CreateVote(ctx context.Context, vote entities.Vote) (entities.Vote, error)
	FindVote(ctx context.Context, proposalID string, userID string) (entities.Vote, bool, error)
}

// UserRepository returns the stored user for candidate.Address, inserting
// candidate when none exists.
type UserRepository interface {
	FindOrCreateUser(ctx context.Context, candidate entities.User) (entities.User, error)
}

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase entities.Purchase) error
	ListPurchasesByProject(ctx context.Context, projectID string) ([]entities.Purchase, error)
}

type PriceSessionStore interface {
	GetPriceState(ctx context.Context, projectID string) (entities.PriceState, bool, error)
	SavePriceState(ctx context.Context, projectID string, state entities.PriceState) error
}

// TokenOracle reads ERC-20 metadata. Balances are smallest-unit integers.
type TokenOracle interface {
	Decimals(ctx context.Context, token string) (uint8, error)
	BalanceOf(ctx context.Context, token string, holder string) (*big.Int, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Metrics interface {
	ProposalCreated()
	VoteCast(choice entities.VoteChoice)
	VoteRejected(reason string)
	OracleFailure()
	PurchaseRecorded(amount float64)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
