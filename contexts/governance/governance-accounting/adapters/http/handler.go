package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/application/commands"
	"desci/contexts/governance/governance-accounting/application/queries"
	"desci/contexts/governance/governance-accounting/domain/entities"
	"desci/contexts/governance/governance-accounting/domain/services"
	httptransport "desci/contexts/governance/governance-accounting/transport/http"
	"desci/internal/shared/tokenunits"
)

type Handler struct {
	RegisterProject commands.ProjectUseCase
	CreateProposal  commands.ProposalUseCase
	CastVote        commands.VoteUseCase
	RecordPurchase  commands.PurchaseUseCase
	Projects        queries.ProjectUseCase
	Proposals       queries.ProposalUseCase
	PurchaseHistory queries.PurchaseHistoryUseCase
	Prices          queries.PriceUseCase
	Logger          *slog.Logger
}

// RegisterProjectHandler godoc
// @Summary Register a research project
// @Description Registers a project with its royalty token and initial price.
// @Tags governance-accounting
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterProjectRequest true "Project"
// @Success 201 {object} httptransport.ProjectResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/projects [post]
func (h Handler) RegisterProjectHandler(ctx context.Context, req httptransport.RegisterProjectRequest) (httptransport.ProjectResponse, error) {
	project, err := h.RegisterProject.RegisterProject(ctx, commands.RegisterProjectCommand{
		Title:          req.Title,
		RoyaltyToken:   req.RoyaltyToken,
		InitialPrice:   req.InitialPrice,
		CreatorAddress: req.CreatorAddress,
	})
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return mapProject(project), nil
}

// GetProjectHandler godoc
// @Summary Get project
// @Tags governance-accounting
// @Produce json
// @Param project_id path string true "Project id"
// @Success 200 {object} httptransport.ProjectResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/projects/{project_id} [get]
func (h Handler) GetProjectHandler(ctx context.Context, projectID string) (httptransport.ProjectResponse, error) {
	project, err := h.Projects.GetProject(ctx, projectID)
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return mapProject(project), nil
}

// CreateProposalHandler godoc
// @Summary Create proposal
// @Description Opens a 72 hour vote. The creator must hold at least 5 royalty tokens.
// @Tags governance-accounting
// @Accept json
// @Produce json
// @Param X-Wallet-Address header string true "Creator wallet address"
// @Param project_id path string true "Project id"
// @Param request body httptransport.CreateProposalRequest true "Proposal"
// @Success 201 {object} httptransport.ProposalResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/projects/{project_id}/proposals [post]
func (h Handler) CreateProposalHandler(
	ctx context.Context,
	projectID string,
	creatorAddress string,
	req httptransport.CreateProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.CreateProposal.CreateProposal(ctx, commands.CreateProposalCommand{
		ProjectID:      projectID,
		CreatorAddress: creatorAddress,
		Title:          req.Title,
		Description:    req.Description,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(proposal, proposal.Status, nil), nil
}

// ListProposalsHandler godoc
// @Summary List proposals with tallies
// @Tags governance-accounting
// @Produce json
// @Param project_id path string true "Project id"
// @Success 200 {object} httptransport.ProposalListResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/projects/{project_id}/proposals [get]
func (h Handler) ListProposalsHandler(ctx context.Context, projectID string) (httptransport.ProposalListResponse, error) {
	views, err := h.Proposals.ListProposals(ctx, projectID)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(views))
	for _, view := range views {
		tally := mapTally(view.Tally)
		items = append(items, mapProposal(view.Proposal, view.Status, &tally))
	}
	return httptransport.ProposalListResponse{Items: items}, nil
}

// GetProposalHandler godoc
// @Summary Get proposal
// @Tags governance-accounting
// @Produce json
// @Param proposal_id path string true "Proposal id"
// @Success 200 {object} httptransport.ProposalResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/proposals/{proposal_id} [get]
func (h Handler) GetProposalHandler(ctx context.Context, proposalID string) (httptransport.ProposalResponse, error) {
	view, err := h.Proposals.ProposalTally(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	tally := mapTally(view.Tally)
	return mapProposal(view.Proposal, view.Status, &tally), nil
}

// ProposalTallyHandler godoc
// @Summary Tally proposal votes
// @Description Sums vote weights and evaluates the 20 token quorum.
// @Tags governance-accounting
// @Produce json
// @Param proposal_id path string true "Proposal id"
// @Success 200 {object} httptransport.TallyResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/proposals/{proposal_id}/tally [get]
func (h Handler) ProposalTallyHandler(ctx context.Context, proposalID string) (httptransport.TallyResponse, error) {
	view, err := h.Proposals.ProposalTally(ctx, proposalID)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return mapTally(view.Tally), nil
}

// CastVoteHandler godoc
// @Summary Cast vote
// @Description Records one vote per wallet weighted by its current token balance.
// @Tags governance-accounting
// @Accept json
// @Produce json
// @Param X-Wallet-Address header string true "Voter wallet address"
// @Param proposal_id path string true "Proposal id"
// @Param request body httptransport.CastVoteRequest true "Vote"
// @Success 201 {object} httptransport.VoteResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/proposals/{proposal_id}/votes [post]
func (h Handler) CastVoteHandler(
	ctx context.Context,
	proposalID string,
	voterAddress string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	vote, err := h.CastVote.CastVote(ctx, commands.CastVoteCommand{
		ProposalID:   proposalID,
		VoterAddress: voterAddress,
		Choice:       entities.VoteChoice(req.Choice),
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:     vote.VoteID,
		ProposalID: vote.ProposalID,
		UserID:     vote.UserID,
		Choice:     string(vote.Choice),
		Weight:     vote.Weight,
		CreatedAt:  vote.CreatedAt,
	}, nil
}

// PriceHandler godoc
// @Summary Current token price
// @Tags governance-accounting
// @Produce json
// @Param project_id path string true "Project id"
// @Param amount query number false "Tokens to quote"
// @Success 200 {object} httptransport.PriceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/projects/{project_id}/price [get]
func (h Handler) PriceHandler(ctx context.Context, projectID string, amount float64) (httptransport.PriceResponse, error) {
	quote, err := h.Prices.QuotePurchase(ctx, projectID, amount)
	if err != nil {
		return httptransport.PriceResponse{}, err
	}
	return httptransport.PriceResponse{
		ProjectID:     quote.ProjectID,
		CurrentPrice:  quote.CurrentPrice,
		BasePrice:     quote.BasePrice,
		Amount:        quote.Amount,
		PriceAfterBuy: quote.PriceAfterBuy,
		EstimatedCost: quote.EstimatedCost,
		LastBuyAt:     quote.LastBuyAt,
	}, nil
}

// RecordPurchaseHandler godoc
// @Summary Record purchase
// @Tags governance-accounting
// @Accept json
// @Produce json
// @Param X-Wallet-Address header string true "Buyer wallet address"
// @Param project_id path string true "Project id"
// @Param request body httptransport.RecordPurchaseRequest true "Purchase"
// @Success 201 {object} httptransport.PurchaseResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/projects/{project_id}/purchases [post]
func (h Handler) RecordPurchaseHandler(
	ctx context.Context,
	projectID string,
	buyerAddress string,
	req httptransport.RecordPurchaseRequest,
) (httptransport.PurchaseResponse, error) {
	result, err := h.RecordPurchase.RecordPurchase(ctx, commands.RecordPurchaseCommand{
		ProjectID:    projectID,
		BuyerAddress: buyerAddress,
		Amount:       req.Amount,
	})
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	return mapPurchase(result.Purchase), nil
}

// ListPurchasesHandler godoc
// @Summary List purchases
// @Tags governance-accounting
// @Produce json
// @Param project_id path string true "Project id"
// @Success 200 {object} httptransport.PurchaseListResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/projects/{project_id}/purchases [get]
func (h Handler) ListPurchasesHandler(ctx context.Context, projectID string) (httptransport.PurchaseListResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	purchases, err := h.PurchaseHistory.ListPurchases(ctx, projectID)
	if err != nil {
		logger.Warn("governance http list purchases failed",
			"event", "governance_http_list_purchases_failed",
			"module", application.Module,
			"layer", "adapter",
			"project_id", strings.TrimSpace(projectID),
			"error", err.Error(),
		)
		return httptransport.PurchaseListResponse{}, err
	}
	items := make([]httptransport.PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		items = append(items, mapPurchase(purchase))
	}
	logger.Debug("governance http list purchases completed",
		"event", "governance_http_list_purchases_completed",
		"module", application.Module,
		"layer", "adapter",
		"project_id", strings.TrimSpace(projectID),
		"count", len(items),
	)
	return httptransport.PurchaseListResponse{Items: items}, nil
}

func mapPurchase(purchase entities.Purchase) httptransport.PurchaseResponse {
	return httptransport.PurchaseResponse{
		PurchaseID: purchase.PurchaseID,
		ProjectID:  purchase.ProjectID,
		UserID:     purchase.UserID,
		Amount:     purchase.Amount,
		UnitPrice:  purchase.UnitPrice,
		PriceAfter: purchase.PriceAfter,
		Cost:       purchase.Cost(),
		CreatedAt:  purchase.CreatedAt,
	}
}

func mapProject(project entities.Project) httptransport.ProjectResponse {
	return httptransport.ProjectResponse{
		ProjectID:      project.ProjectID,
		Title:          project.Title,
		RoyaltyToken:   project.RoyaltyToken,
		InitialPrice:   project.InitialPrice,
		CreatorAddress: project.CreatorAddress,
		CreatedAt:      project.CreatedAt,
	}
}

func mapProposal(proposal entities.Proposal, status entities.ProposalStatus, tally *httptransport.TallyResponse) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:  proposal.ProposalID,
		ProjectID:   proposal.ProjectID,
		CreatorID:   proposal.CreatorID,
		Title:       proposal.Title,
		Description: proposal.Description,
		Status:      string(status),
		CreatedAt:   proposal.CreatedAt,
		EndsAt:      proposal.EndsAt,
		Tally:       tally,
	}
}

func mapTally(tally services.TallyResult) httptransport.TallyResponse {
	participation := tally.Participation()
	return httptransport.TallyResponse{
		VotesFor:            tally.VotesFor.String(),
		VotesAgainst:        tally.VotesAgainst.String(),
		Quorum:              tally.Quorum.String(),
		QuorumMet:           tally.QuorumMet,
		Decimals:            tally.Decimals,
		VoteCount:           tally.VoteCount,
		Participation:       participation.String(),
		VotesForTokens:      tokenunits.Format(tally.VotesFor, tally.Decimals),
		VotesAgainstTokens:  tokenunits.Format(tally.VotesAgainst, tally.Decimals),
		QuorumTokens:        tokenunits.Format(tally.Quorum, tally.Decimals),
		ParticipationTokens: tokenunits.Format(participation, tally.Decimals),
	}
}
