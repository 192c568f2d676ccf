package application

import (
	"context"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

// LoadPriceState returns the stored session or a fresh one seeded from the
// project's initial price. A fresh session is not persisted.
func LoadPriceState(
	ctx context.Context,
	sessions ports.PriceSessionStore,
	project entities.Project,
	opts services.PriceOptions,
	at time.Time,
) (entities.PriceState, error) {
	state, found, err := sessions.GetPriceState(ctx, project.ProjectID)
	if err != nil {
		return entities.PriceState{}, err
	}
	if found {
		return state, nil
	}
	return services.InitializePrice(project.InitialPrice, at, opts)
}
