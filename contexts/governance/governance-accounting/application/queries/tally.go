package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

type ProposalView struct {
	Proposal entities.Proposal
	Tally    services.TallyResult
	Status   entities.ProposalStatus
}

// ProposalUseCase serves proposal reads. Tallies are recomputed from the
// stored votes on every call.
type ProposalUseCase struct {
	Projects  ports.ProjectRepository
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Oracle    ports.TokenOracle
	TallyMode services.TallyMode
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ProposalUseCase) ProposalTally(ctx context.Context, proposalID string) (ProposalView, error) {
	proposal, err := uc.Proposals.FindProposal(ctx, strings.TrimSpace(proposalID))
	if err != nil {
		return ProposalView{}, err
	}
	project, err := uc.Projects.FindProject(ctx, proposal.ProjectID)
	if err != nil {
		return ProposalView{}, err
	}
	return uc.view(ctx, project, proposal)
}

func (uc ProposalUseCase) ListProposals(ctx context.Context, projectID string) ([]ProposalView, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, domainerrors.ErrValidation
	}
	project, err := uc.Projects.FindProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	proposals, err := uc.Proposals.ListProposalsByProject(ctx, project.ProjectID)
	if err != nil {
		return nil, err
	}
	views := make([]ProposalView, 0, len(proposals))
	for _, proposal := range proposals {
		view, err := uc.view(ctx, project, proposal)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (uc ProposalUseCase) view(ctx context.Context, project entities.Project, proposal entities.Proposal) (ProposalView, error) {
	votes, err := uc.Votes.ListVotesForProposal(ctx, proposal.ProposalID)
	if err != nil {
		return ProposalView{}, err
	}
	mode := uc.TallyMode
	if mode == "" {
		mode = services.TallyModeStrict
	}
	decimals := 0
	if mode == services.TallyModeStrict {
		queried, err := application.ReadDecimals(ctx, uc.Oracle, project.RoyaltyToken)
		if err != nil {
			application.ResolveLogger(uc.Logger).Error("tally decimals read failed",
				"event", "governance_tally_oracle_failed",
				"module", application.Module,
				"layer", "application",
				"proposal_id", proposal.ProposalID,
				"error", err.Error(),
			)
			return ProposalView{}, err
		}
		decimals = int(queried)
	}
	tally, err := services.Tally(votes, decimals, mode)
	if err != nil {
		return ProposalView{}, err
	}
	return ProposalView{
		Proposal: proposal,
		Tally:    tally,
		Status:   services.DeriveStatus(proposal, tally, uc.now()),
	}, nil
}

func (uc ProposalUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
