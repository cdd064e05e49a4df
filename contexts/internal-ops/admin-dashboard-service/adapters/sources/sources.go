package sources

import (
	"context"

	progressapp "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/application"
	submissionqueries "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/queries"
	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/ports"
	rewardapp "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/application"
)

// Adapters from the other contexts' query sides to the dashboard's read ports.

type Ledger struct {
	Ledger *rewardapp.Ledger
}

func (a Ledger) LedgerStats(_ context.Context) (ports.LedgerView, error) {
	stats := a.Ledger.Stats()
	return ports.LedgerView{
		MaxBudget:       stats.MaxBudget,
		TotalAllocated:  stats.TotalAllocated,
		TotalPaid:       stats.TotalPaid,
		RemainingBudget: stats.RemainingBudget,
		BalanceOnHand:   stats.BalanceOnHand,
		Paused:          stats.Paused,
	}, nil
}

type Submissions struct {
	Queries submissionqueries.QueryUseCase
}

func (a Submissions) WeeklyCounts(ctx context.Context) (map[int]int, error) {
	return a.Queries.WeeklyCounts(ctx)
}

func (a Submissions) CountryDistribution(ctx context.Context) (map[string]int, error) {
	return a.Queries.CountryDistribution(ctx)
}

type Progress struct {
	Tracker *progressapp.Tracker
}

func (a Progress) CampaignStats(ctx context.Context) (ports.ProgressView, error) {
	stats, err := a.Tracker.Stats(ctx)
	if err != nil {
		return ports.ProgressView{}, err
	}
	return ports.ProgressView{
		TotalParticipants: stats.TotalParticipants,
		Graduates:         stats.Graduates,
		AverageWeeks:      stats.AverageWeeks,
		CompletionsByWeek: stats.CompletionsByWeek,
	}, nil
}
