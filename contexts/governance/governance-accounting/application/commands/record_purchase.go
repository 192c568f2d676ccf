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
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

type RecordPurchaseCommand struct {
	ProjectID    string
	BuyerAddress string
	Amount       float64
}

type PurchaseResult struct {
	Purchase entities.Purchase
	State    entities.PriceState
}

// PurchaseUseCase moves a project's price session forward after a buy.
type PurchaseUseCase struct {
	Projects     ports.ProjectRepository
	Users        ports.UserRepository
	Purchases    ports.PurchaseRepository
	Sessions     ports.PriceSessionStore
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	PriceOptions services.PriceOptions
	Metrics      ports.Metrics
	Logger       *slog.Logger
}

// RecordPurchase settles decay up to now, applies the buy impact, and stores
// the resulting price with a fresh last-buy time.
func (uc PurchaseUseCase) RecordPurchase(ctx context.Context, cmd RecordPurchaseCommand) (PurchaseResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	projectID := strings.TrimSpace(cmd.ProjectID)
	if projectID == "" {
		return PurchaseResult{}, domainerrors.ErrValidation
	}
	if !(cmd.Amount > 0) || math.IsInf(cmd.Amount, 0) {
		return PurchaseResult{}, fmt.Errorf("%w: amount must be positive", domainerrors.ErrValidation)
	}
	buyer, err := application.NormalizeAddress(cmd.BuyerAddress)
	if err != nil {
		return PurchaseResult{}, err
	}

	project, err := uc.Projects.FindProject(ctx, projectID)
	if err != nil {
		return PurchaseResult{}, err
	}
	at := now(uc.Clock)
	state, err := application.LoadPriceState(ctx, uc.Sessions, project, uc.PriceOptions, at)
	if err != nil {
		return PurchaseResult{}, err
	}

	settled := state
	settled.CurrentPrice = services.CurrentPrice(state, at)
	next := settled
	next.CurrentPrice = services.PriceAfterBuy(settled, cmd.Amount)
	next.LastBuyAt = at

	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	user, err := uc.Users.FindOrCreateUser(ctx, entities.User{UserID: userID, Address: buyer, CreatedAt: at})
	if err != nil {
		return PurchaseResult{}, err
	}
	purchaseID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	purchase := entities.Purchase{
		PurchaseID: purchaseID,
		ProjectID:  project.ProjectID,
		UserID:     user.UserID,
		Amount:     cmd.Amount,
		UnitPrice:  settled.CurrentPrice,
		PriceAfter: next.CurrentPrice,
		CreatedAt:  at,
	}
	// The session and the purchase row live in different stores. The session
	// moves first and is restored if the row cannot be written.
	if err := uc.Sessions.SavePriceState(ctx, project.ProjectID, next); err != nil {
		return PurchaseResult{}, err
	}
	if err := uc.Purchases.CreatePurchase(ctx, purchase); err != nil {
		if restoreErr := uc.Sessions.SavePriceState(ctx, project.ProjectID, state); restoreErr != nil {
			logger.Error("purchase price session restore failed",
				"event", "governance_purchase_session_restore_failed",
				"module", application.Module,
				"layer", "application",
				"project_id", project.ProjectID,
				"error", restoreErr.Error(),
			)
		}
		return PurchaseResult{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	envelope, err := newGovernanceEnvelope(eventID, EventPurchaseRecorded, "project_id", project.ProjectID, at, map[string]any{
		"purchase_id": purchase.PurchaseID,
		"project_id":  purchase.ProjectID,
		"user_id":     purchase.UserID,
		"amount":      purchase.Amount,
		"unit_price":  purchase.UnitPrice,
		"price_after": purchase.PriceAfter,
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		return PurchaseResult{}, err
	}

	application.ResolveMetrics(uc.Metrics).PurchaseRecorded(cmd.Amount)
	logger.Info("purchase recorded",
		"event", "governance_purchase_recorded",
		"module", application.Module,
		"layer", "application",
		"purchase_id", purchase.PurchaseID,
		"project_id", purchase.ProjectID,
		"amount", purchase.Amount,
		"unit_price", purchase.UnitPrice,
		"price_after", purchase.PriceAfter,
	)
	return PurchaseResult{Purchase: purchase, State: next}, nil
}
