package queries

import (
	"context"
	"strings"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"
)

type ProjectUseCase struct {
	Projects ports.ProjectRepository
}

func (uc ProjectUseCase) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return entities.Project{}, domainerrors.ErrValidation
	}
	return uc.Projects.FindProject(ctx, projectID)
}
