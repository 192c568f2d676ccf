package commands

import (
	"context"
	"log/slog"
	"strings"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

type CastVoteCommand struct {
	ProposalID   string
	VoterAddress string
	Choice       entities.VoteChoice
}

// VoteUseCase records token-weighted votes.
type VoteUseCase struct {
	Projects  ports.ProjectRepository
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Users     ports.UserRepository
	Oracle    ports.TokenOracle
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Metrics   ports.Metrics
	Logger    *slog.Logger
}

// CastVote captures the voter's current royalty-token balance as the vote
// weight. The weight is never re-validated after the vote is stored.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Vote, error) {
	logger := application.ResolveLogger(uc.Logger)
	metrics := application.ResolveMetrics(uc.Metrics)
	logger.Info("vote cast processing started",
		"event", "governance_vote_cast_started",
		"module", application.Module,
		"layer", "application",
		"proposal_id", strings.TrimSpace(cmd.ProposalID),
		"voter", strings.TrimSpace(cmd.VoterAddress),
	)

	proposalID := strings.TrimSpace(cmd.ProposalID)
	if proposalID == "" || !cmd.Choice.Valid() {
		logger.Warn("vote cast validation failed",
			"event", "governance_vote_cast_validation_failed",
			"module", application.Module,
			"layer", "application",
			"proposal_id", proposalID,
			"choice", string(cmd.Choice),
		)
		return entities.Vote{}, domainerrors.ErrValidation
	}
	voter, err := application.NormalizeAddress(cmd.VoterAddress)
	if err != nil {
		return entities.Vote{}, err
	}

	proposal, err := uc.Proposals.FindProposal(ctx, proposalID)
	if err != nil {
		return entities.Vote{}, err
	}
	at := now(uc.Clock)
	if !proposal.VotingOpen(at) {
		return entities.Vote{}, uc.reject(logger, metrics, proposal.ProposalID, "", domainerrors.ErrVotingClosed)
	}
	project, err := uc.Projects.FindProject(ctx, proposal.ProjectID)
	if err != nil {
		return entities.Vote{}, err
	}

	holding, err := application.ReadHolding(ctx, uc.Oracle, project.RoyaltyToken, voter)
	if err != nil {
		metrics.OracleFailure()
		logger.Error("vote cast oracle read failed",
			"event", "governance_vote_cast_oracle_failed",
			"module", application.Module,
			"layer", "application",
			"proposal_id", proposal.ProposalID,
			"voter", voter,
			"error", err.Error(),
		)
		return entities.Vote{}, err
	}
	threshold, err := services.VoteThreshold(int(holding.Decimals))
	if err != nil {
		return entities.Vote{}, err
	}

	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Vote{}, err
	}
	user, err := uc.Users.FindOrCreateUser(ctx, entities.User{UserID: userID, Address: voter, CreatedAt: at})
	if err != nil {
		return entities.Vote{}, err
	}
	_, alreadyVoted, err := uc.Votes.FindVote(ctx, proposal.ProposalID, user.UserID)
	if err != nil {
		return entities.Vote{}, err
	}

	if err := services.CanVote(proposal, alreadyVoted, at, holding.Balance, threshold); err != nil {
		return entities.Vote{}, uc.reject(logger, metrics, proposal.ProposalID, user.UserID, err)
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Vote{}, err
	}
	vote, err := uc.Votes.CreateVote(ctx, entities.Vote{
		VoteID:     voteID,
		ProposalID: proposal.ProposalID,
		UserID:     user.UserID,
		Choice:     cmd.Choice,
		Weight:     holding.Balance.String(),
		CreatedAt:  at,
	})
	if err != nil {
		return entities.Vote{}, uc.reject(logger, metrics, proposal.ProposalID, user.UserID, err)
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Vote{}, err
	}
	envelope, err := newGovernanceEnvelope(eventID, EventVoteCast, "proposal_id", vote.ProposalID, at, map[string]any{
		"vote_id":     vote.VoteID,
		"proposal_id": vote.ProposalID,
		"user_id":     vote.UserID,
		"choice":      string(vote.Choice),
		"weight":      vote.Weight,
	})
	if err != nil {
		return entities.Vote{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		return entities.Vote{}, err
	}

	metrics.VoteCast(vote.Choice)
	logger.Info("vote cast completed",
		"event", "governance_vote_cast_completed",
		"module", application.Module,
		"layer", "application",
		"vote_id", vote.VoteID,
		"proposal_id", vote.ProposalID,
		"user_id", vote.UserID,
		"choice", string(vote.Choice),
		"weight", vote.Weight,
	)
	return vote, nil
}

func (uc VoteUseCase) reject(logger *slog.Logger, metrics ports.Metrics, proposalID string, userID string, err error) error {
	reason := rejectionReason(err)
	if reason != "other" {
		metrics.VoteRejected(reason)
		logger.Warn("vote cast rejected",
			"event", "governance_vote_cast_rejected",
			"module", application.Module,
			"layer", "application",
			"proposal_id", proposalID,
			"user_id", userID,
			"reason", reason,
		)
	}
	return err
}
