package queries

import (
	"context"
	"strings"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"
)

type PurchaseHistoryUseCase struct {
	Projects  ports.ProjectRepository
	Purchases ports.PurchaseRepository
}

// ListPurchases returns a project's buys oldest first.
func (uc PurchaseHistoryUseCase) ListPurchases(ctx context.Context, projectID string) ([]entities.Purchase, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, domainerrors.ErrValidation
	}
	if _, err := uc.Projects.FindProject(ctx, projectID); err != nil {
		return nil, err
	}
	return uc.Purchases.ListPurchasesByProject(ctx, projectID)
}
