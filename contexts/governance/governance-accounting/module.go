package governanceaccounting

import (
	"log/slog"

	httpadapter "desci/contexts/governance/governance-accounting/adapters/http"
	"desci/contexts/governance/governance-accounting/adapters/memory"
	"desci/contexts/governance/governance-accounting/application/commands"
	"desci/contexts/governance/governance-accounting/application/queries"
	"desci/contexts/governance/governance-accounting/domain/services"
	"desci/contexts/governance/governance-accounting/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Ledger  *memory.Ledger
}

type Dependencies struct {
	Projects     ports.ProjectRepository
	Proposals    ports.ProposalRepository
	Votes        ports.VoteRepository
	Users        ports.UserRepository
	Purchases    ports.PurchaseRepository
	Sessions     ports.PriceSessionStore
	Oracle       ports.TokenOracle
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Metrics      ports.Metrics
	TallyMode    services.TallyMode
	PriceOptions services.PriceOptions
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			RegisterProject: commands.ProjectUseCase{
				Projects: deps.Projects,
				Outbox:   deps.Outbox,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			CreateProposal: commands.ProposalUseCase{
				Projects:  deps.Projects,
				Proposals: deps.Proposals,
				Users:     deps.Users,
				Oracle:    deps.Oracle,
				Outbox:    deps.Outbox,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Metrics:   deps.Metrics,
				Logger:    deps.Logger,
			},
			CastVote: commands.VoteUseCase{
				Projects:  deps.Projects,
				Proposals: deps.Proposals,
				Votes:     deps.Votes,
				Users:     deps.Users,
				Oracle:    deps.Oracle,
				Outbox:    deps.Outbox,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Metrics:   deps.Metrics,
				Logger:    deps.Logger,
			},
			RecordPurchase: commands.PurchaseUseCase{
				Projects:     deps.Projects,
				Users:        deps.Users,
				Purchases:    deps.Purchases,
				Sessions:     deps.Sessions,
				Outbox:       deps.Outbox,
				Clock:        deps.Clock,
				IDGen:        deps.IDGen,
				PriceOptions: deps.PriceOptions,
				Metrics:      deps.Metrics,
				Logger:       deps.Logger,
			},
			Projects: queries.ProjectUseCase{
				Projects: deps.Projects,
			},
			Proposals: queries.ProposalUseCase{
				Projects:  deps.Projects,
				Proposals: deps.Proposals,
				Votes:     deps.Votes,
				Oracle:    deps.Oracle,
				TallyMode: deps.TallyMode,
				Clock:     deps.Clock,
				Logger:    deps.Logger,
			},
			PurchaseHistory: queries.PurchaseHistoryUseCase{
				Projects:  deps.Projects,
				Purchases: deps.Purchases,
			},
			Prices: queries.PriceUseCase{
				Projects:     deps.Projects,
				Sessions:     deps.Sessions,
				PriceOptions: deps.PriceOptions,
				Clock:        deps.Clock,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to in-process adapters. The returned
// Store and Ledger let callers seed projects, balances and the clock.
func NewInMemoryModule(mode services.TallyMode, logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	module := NewModule(Dependencies{
		Projects:     store,
		Proposals:    store,
		Votes:        store,
		Users:        store,
		Purchases:    store,
		Sessions:     store,
		Oracle:       ledger,
		Outbox:       store,
		Clock:        store,
		IDGen:        store,
		TallyMode:    mode,
		PriceOptions: services.DefaultPriceOptions(),
		Logger:       logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
