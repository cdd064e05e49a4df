// Package progressservice tracks per-builder week completion and campaign
// statistics, with a rebuild-from-submissions sync job.
package progressservice

import (
	"log/slog"

	httpadapter "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/adapters/http"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/adapters/memory"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Tracker *application.Tracker
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tracker := application.NewTracker(application.Dependencies{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	})
	return Module{
		Handler: httpadapter.Handler{Tracker: tracker, Logger: deps.Logger},
		Tracker: tracker,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
