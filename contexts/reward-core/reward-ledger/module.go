// Package rewardledger implements the campaign reward allocation and claim
// ledger: a fixed USD budget, one-time-use submission proofs, all-or-nothing
// batch allocation and exactly-once claims, with an append-only audit journal
// for reconciliation.
package rewardledger

import (
	"log/slog"

	httpadapter "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/http"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/memory"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/application"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Ledger  *application.Ledger
	Store   *memory.Store
}

type Dependencies struct {
	Policy      ports.Policy
	Owner       string
	Audit       ports.AuditSink
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := application.NewLedger(application.Dependencies{
		Policy:      deps.Policy,
		Owner:       deps.Owner,
		Audit:       deps.Audit,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	})
	return Module{
		Handler: httpadapter.Handler{
			Ledger: ledger,
			Logger: deps.Logger,
		},
		Ledger: ledger,
	}
}

// NewInMemoryModule wires the ledger against the in-memory store, used by
// tests and local runs without postgres or a bolt journal.
func NewInMemoryModule(owner string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Policy:      ports.DefaultPolicy(),
		Owner:       owner,
		Audit:       store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
