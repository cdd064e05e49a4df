package application

import (
	"context"

	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
)

// SpeedScorer ranks by submission time: the earlier the submission, the
// higher the score.
type SpeedScorer struct{}

func (SpeedScorer) Score(_ context.Context, entry ports.Entry) (float64, error) {
	return -float64(entry.SubmittedAt.UnixNano()), nil
}

// UnimplementedScorer is the default for quality and engagement until a real
// review or engagement signal is wired in.
type UnimplementedScorer struct{}

func (UnimplementedScorer) Score(context.Context, ports.Entry) (float64, error) {
	return 0, domainerrors.ErrScorerNotImplemented
}
