// Package settlementservice bridges the reward ledger to the campaign escrow
// contract: committed allocation batches are submitted on-chain, confirmations
// flow back as grant settlements, claims become escrow payouts.
package settlementservice

import (
	"log/slog"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/ports"
)

type Module struct {
	Settler *application.Settler
}

type Dependencies struct {
	Escrow      ports.EscrowClient
	Ledger      ports.LedgerConfirmer
	Mirror      ports.MirrorStore
	Logger      *slog.Logger
	MaxAttempts int
	Backoff     time.Duration
}

func NewModule(deps Dependencies) Module {
	return Module{
		Settler: application.NewSettler(application.Dependencies{
			Escrow:      deps.Escrow,
			Ledger:      deps.Ledger,
			Mirror:      deps.Mirror,
			Logger:      deps.Logger,
			MaxAttempts: deps.MaxAttempts,
			Backoff:     deps.Backoff,
		}),
	}
}
