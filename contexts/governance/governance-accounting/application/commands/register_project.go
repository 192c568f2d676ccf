package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"
)

type RegisterProjectCommand struct {
	Title          string
	RoyaltyToken   string
	InitialPrice   float64
	CreatorAddress string
}

type ProjectUseCase struct {
	Projects ports.ProjectRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc ProjectUseCase) RegisterProject(ctx context.Context, cmd RegisterProjectCommand) (entities.Project, error) {
	logger := application.ResolveLogger(uc.Logger)
	title, err := cleanText("title", cmd.Title, maxTitleLength, true)
	if err != nil {
		return entities.Project{}, err
	}
	token, err := application.NormalizeAddress(cmd.RoyaltyToken)
	if err != nil {
		return entities.Project{}, err
	}
	creator := ""
	if strings.TrimSpace(cmd.CreatorAddress) != "" {
		if creator, err = application.NormalizeAddress(cmd.CreatorAddress); err != nil {
			return entities.Project{}, err
		}
	}
	if !(cmd.InitialPrice > 0) || math.IsInf(cmd.InitialPrice, 0) {
		return entities.Project{}, fmt.Errorf("%w: initial price must be positive", domainerrors.ErrValidation)
	}

	projectID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Project{}, err
	}
	createdAt := now(uc.Clock)
	project, err := uc.Projects.CreateProject(ctx, entities.Project{
		ProjectID:      projectID,
		Title:          title,
		RoyaltyToken:   token,
		InitialPrice:   cmd.InitialPrice,
		CreatorAddress: creator,
		CreatedAt:      createdAt,
	})
	if err != nil {
		return entities.Project{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Project{}, err
		}
		envelope, err := newGovernanceEnvelope(eventID, EventProjectRegistered, "project_id", project.ProjectID, createdAt, map[string]any{
			"project_id":    project.ProjectID,
			"royalty_token": project.RoyaltyToken,
			"initial_price": project.InitialPrice,
		})
		if err != nil {
			return entities.Project{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.Project{}, err
		}
	}

	logger.Info("project registered",
		"event", "governance_project_registered",
		"module", application.Module,
		"layer", "application",
		"project_id", project.ProjectID,
		"royalty_token", project.RoyaltyToken,
	)
	return project, nil
}
