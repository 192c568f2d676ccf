package queries

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	application "desci/contexts/governance/governance-accounting/application"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

type PriceQuote struct {
	ProjectID     string
	CurrentPrice  float64
	BasePrice     float64
	Amount        float64
	PriceAfterBuy float64
	EstimatedCost float64
	LastBuyAt     time.Time
}

type PriceUseCase struct {
	Projects     ports.ProjectRepository
	Sessions     ports.PriceSessionStore
	PriceOptions services.PriceOptions
	Clock        ports.Clock
}

func (uc PriceUseCase) CurrentPrice(ctx context.Context, projectID string) (PriceQuote, error) {
	return uc.QuotePurchase(ctx, projectID, 0)
}

// QuotePurchase previews a buy without changing the session.
func (uc PriceUseCase) QuotePurchase(ctx context.Context, projectID string, amount float64) (PriceQuote, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return PriceQuote{}, domainerrors.ErrValidation
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return PriceQuote{}, fmt.Errorf("%w: amount must be a non-negative number", domainerrors.ErrValidation)
	}
	project, err := uc.Projects.FindProject(ctx, projectID)
	if err != nil {
		return PriceQuote{}, err
	}
	at := time.Now().UTC()
	if uc.Clock != nil {
		at = uc.Clock.Now().UTC()
	}
	state, err := application.LoadPriceState(ctx, uc.Sessions, project, uc.PriceOptions, at)
	if err != nil {
		return PriceQuote{}, err
	}

	settled := state
	settled.CurrentPrice = services.CurrentPrice(state, at)
	return PriceQuote{
		ProjectID:     project.ProjectID,
		CurrentPrice:  settled.CurrentPrice,
		BasePrice:     state.BasePrice,
		Amount:        amount,
		PriceAfterBuy: services.PriceAfterBuy(settled, amount),
		EstimatedCost: amount * settled.CurrentPrice,
		LastBuyAt:     state.LastBuyAt,
	}, nil
}
