package submissionsadapter

import (
	"context"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	submissionqueries "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/queries"
)

// Feed adapts the submission context's query side to the ranking feed.
type Feed struct {
	Queries submissionqueries.QueryUseCase
}

func (f Feed) ApprovedByWeek(ctx context.Context, week int) ([]ports.Entry, error) {
	items, err := f.Queries.ByWeek(ctx, week, true)
	if err != nil {
		return nil, err
	}
	entries := make([]ports.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, ports.Entry{
			SubmissionID:  item.SubmissionID,
			UserAddress:   item.UserAddress,
			Week:          item.Week,
			GithubURL:     item.GithubURL,
			SocialPostURL: item.SocialPostURL,
			SubmittedAt:   item.SubmittedAt,
		})
	}
	return entries, nil
}
