// Package submissionservice handles weekly challenge submissions: one proof
// per builder per week, mentor review, and the query feeds used by ranking
// and the admin dashboard.
package submissionservice

import (
	"log/slog"

	httpadapter "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/adapters/http"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/adapters/memory"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/commands"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/queries"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.QueryUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Progress   ports.ProgressNotifier
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	queryUseCase := queries.QueryUseCase{Repository: deps.Repository}
	return Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitChallengeUseCase{
				Repository: deps.Repository,
				Progress:   deps.Progress,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Review: commands.ReviewSubmissionUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Queries: queryUseCase,
			Logger:  deps.Logger,
		},
		Queries: queryUseCase,
	}
}

func NewInMemoryModule(progress ports.ProgressNotifier, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Progress:   progress,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
