// Package admindashboardservice is the campaign back office: justified,
// idempotent admin action logging plus the KPI view composed over the
// ledger, submission and progress contexts.
package admindashboardservice

import (
	"time"

	httpadapter "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/adapters/http"
	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/adapters/memory"
	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/ports"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IdempotencyTTL time.Duration

	Ledger        ports.LedgerSource
	Submissions   ports.SubmissionSource
	Progress      ports.ProgressSource
	Policy        rewardports.Policy
	WeeklyTargets map[int]int
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Service: application.Service{
				Repo:           deps.Repository,
				Idempotency:    deps.Idempotency,
				Clock:          deps.Clock,
				IdempotencyTTL: deps.IdempotencyTTL,
			},
			KPIs: application.KPIService{
				Ledger:        deps.Ledger,
				Submissions:   deps.Submissions,
				Progress:      deps.Progress,
				Clock:         deps.Clock,
				Policy:        deps.Policy,
				WeeklyTargets: deps.WeeklyTargets,
			},
		},
	}
}

func NewInMemoryModule(ledger ports.LedgerSource, submissions ports.SubmissionSource, progress ports.ProgressSource) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		Clock:          store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Ledger:         ledger,
		Submissions:    submissions,
		Progress:       progress,
		Policy:         rewardports.DefaultPolicy(),
	})
	module.Store = store
	return module
}
