package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

type CreateProposalCommand struct {
	ProjectID      string
	CreatorAddress string
	Title          string
	Description    string
}

// ProposalUseCase opens governance proposals for holders of a project's
// royalty token.
type ProposalUseCase struct {
	Projects  ports.ProjectRepository
	Proposals ports.ProposalRepository
	Users     ports.UserRepository
	Oracle    ports.TokenOracle
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Metrics   ports.Metrics
	Logger    *slog.Logger
}

// CreateProposal requires the creator to hold at least five whole tokens.
// Oracle reads happen before any write so an oracle outage leaves no user or
// proposal behind.
func (uc ProposalUseCase) CreateProposal(ctx context.Context, cmd CreateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	metrics := application.ResolveMetrics(uc.Metrics)

	projectID := strings.TrimSpace(cmd.ProjectID)
	if projectID == "" {
		return entities.Proposal{}, domainerrors.ErrValidation
	}
	creator, err := application.NormalizeAddress(cmd.CreatorAddress)
	if err != nil {
		return entities.Proposal{}, err
	}
	title, err := cleanText("title", cmd.Title, maxTitleLength, true)
	if err != nil {
		return entities.Proposal{}, err
	}
	description, err := cleanText("description", cmd.Description, maxDescriptionLength, false)
	if err != nil {
		return entities.Proposal{}, err
	}

	project, err := uc.Projects.FindProject(ctx, projectID)
	if err != nil {
		return entities.Proposal{}, err
	}

	holding, err := application.ReadHolding(ctx, uc.Oracle, project.RoyaltyToken, creator)
	if err != nil {
		metrics.OracleFailure()
		logger.Error("proposal creation oracle read failed",
			"event", "governance_proposal_oracle_failed",
			"module", application.Module,
			"layer", "application",
			"project_id", project.ProjectID,
			"creator", creator,
			"error", err.Error(),
		)
		return entities.Proposal{}, err
	}
	threshold, err := services.ProposalThreshold(int(holding.Decimals))
	if err != nil {
		return entities.Proposal{}, err
	}
	if err := services.CanCreateProposal(holding.Balance, threshold); err != nil {
		logger.Warn("proposal creation rejected",
			"event", "governance_proposal_rejected",
			"module", application.Module,
			"layer", "application",
			"project_id", project.ProjectID,
			"creator", creator,
			"balance", holding.Balance.String(),
			"threshold", threshold.String(),
		)
		return entities.Proposal{}, err
	}

	at := now(uc.Clock)
	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	user, err := uc.Users.FindOrCreateUser(ctx, entities.User{UserID: userID, Address: creator, CreatedAt: at})
	if err != nil {
		return entities.Proposal{}, err
	}

	proposalID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	proposal, err := uc.Proposals.CreateProposal(ctx, services.OpenProposal(proposalID, project.ProjectID, user.UserID, title, description, at))
	if err != nil {
		return entities.Proposal{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	envelope, err := newGovernanceEnvelope(eventID, EventProposalCreated, "proposal_id", proposal.ProposalID, at, map[string]any{
		"proposal_id": proposal.ProposalID,
		"project_id":  proposal.ProjectID,
		"creator_id":  proposal.CreatorID,
		"ends_at":     proposal.EndsAt,
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		return entities.Proposal{}, err
	}

	metrics.ProposalCreated()
	logger.Info("proposal created",
		"event", "governance_proposal_created",
		"module", application.Module,
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"project_id", proposal.ProjectID,
		"creator_id", proposal.CreatorID,
		"ends_at", proposal.EndsAt,
	)
	return proposal, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrVotingClosed):
		return "voting_closed"
	case errors.Is(err, domainerrors.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domainerrors.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "other"
	}
}
