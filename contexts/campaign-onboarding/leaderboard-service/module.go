// Package leaderboardservice ranks approved submissions per week and reward
// category, capped to each category's weekly grant count.
package leaderboardservice

import (
	"log/slog"

	httpadapter "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/adapters/http"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	Leaderboard *application.Leaderboard
}

type Dependencies struct {
	Feed    ports.SubmissionFeed
	Scorers map[ports.Category]ports.Scorer
	Policy  rewardports.Policy
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	leaderboard := application.NewLeaderboard(application.Dependencies{
		Feed:    deps.Feed,
		Scorers: deps.Scorers,
		Policy:  deps.Policy,
		Logger:  deps.Logger,
	})
	return Module{
		Handler:     httpadapter.Handler{Leaderboard: leaderboard, Logger: deps.Logger},
		Leaderboard: leaderboard,
	}
}
