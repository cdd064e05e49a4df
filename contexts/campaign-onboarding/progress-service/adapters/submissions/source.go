package submissionsadapter

import (
	"context"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/ports"
	submissionqueries "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/queries"
)

// Source adapts the submission context's query side to the sync job's
// participation projection.
type Source struct {
	Queries submissionqueries.QueryUseCase
}

func (s Source) ListParticipation(ctx context.Context) ([]ports.Participation, error) {
	items, err := s.Queries.All(ctx)
	if err != nil {
		return nil, err
	}
	participation := make([]ports.Participation, 0, len(items))
	for _, item := range items {
		participation = append(participation, ports.Participation{
			UserAddress: item.UserAddress,
			Week:        item.Week,
			SubmittedAt: item.SubmittedAt,
		})
	}
	return participation, nil
}
