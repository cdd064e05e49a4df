package application

import (
	"context"
	"log/slog"
	"sort"

	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

// Leaderboard ranks approved submissions per week and category. TopN output
// is capped to the category's weekly grant cap so the allocation flow can
// hand the result straight to the ledger.
type Leaderboard struct {
	feed    ports.SubmissionFeed
	scorers map[ports.Category]ports.Scorer
	policy  rewardports.Policy
	logger  *slog.Logger
}

type Dependencies struct {
	Feed    ports.SubmissionFeed
	Scorers map[ports.Category]ports.Scorer
	Policy  rewardports.Policy
	Logger  *slog.Logger
}

func NewLeaderboard(deps Dependencies) *Leaderboard {
	policy := deps.Policy
	if policy.Categories == nil {
		policy = rewardports.DefaultPolicy()
	}
	scorers := deps.Scorers
	if scorers == nil {
		scorers = DefaultScorers()
	}
	return &Leaderboard{
		feed:    deps.Feed,
		scorers: scorers,
		policy:  policy,
		logger:  deps.Logger,
	}
}

// DefaultScorers wires speed ranking and leaves quality and engagement
// explicitly unimplemented.
func DefaultScorers() map[ports.Category]ports.Scorer {
	return map[ports.Category]ports.Scorer{
		rewardports.CategoryTopQuality:     UnimplementedScorer{},
		rewardports.CategoryTopEngagement:  UnimplementedScorer{},
		rewardports.CategoryFastCompletion: SpeedScorer{},
	}
}

// TopN returns the week's ranked entries for a category, capped to the
// category's weekly grant cap.
func (l *Leaderboard) TopN(ctx context.Context, week int, category ports.Category) ([]ports.RankedEntry, error) {
	if week < l.policy.FirstWeek || week > l.policy.LastWeek {
		return nil, domainerrors.ErrInvalidWeek
	}
	rule, ok := l.policy.Categories[category]
	if !ok {
		return nil, domainerrors.ErrUnknownCategory
	}
	scorer, ok := l.scorers[category]
	if !ok {
		return nil, domainerrors.ErrScorerNotImplemented
	}

	entries, err := l.feed.ApprovedByWeek(ctx, week)
	if err != nil {
		return nil, err
	}

	ranked := make([]ports.RankedEntry, 0, len(entries))
	for _, entry := range entries {
		score, err := scorer.Score(ctx, entry)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, ports.RankedEntry{Score: score, Entry: entry})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > rule.WeeklyCap {
		ranked = ranked[:rule.WeeklyCap]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if l.logger != nil {
		l.logger.Info("leaderboard computed",
			"event", "leaderboard_computed",
			"module", "campaign-onboarding/leaderboard-service",
			"layer", "application",
			"week", week,
			"category", string(category),
			"entries", len(ranked),
		)
	}
	return ranked, nil
}
