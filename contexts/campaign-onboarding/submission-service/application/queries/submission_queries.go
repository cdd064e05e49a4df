package queries

import (
	"context"
	"strings"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
}

func (uc QueryUseCase) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	return uc.Repository.GetSubmission(ctx, strings.TrimSpace(submissionID))
}

func (uc QueryUseCase) ByUser(ctx context.Context, userAddress string) ([]entities.Submission, error) {
	return uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{
		UserAddress: strings.ToLower(strings.TrimSpace(userAddress)),
	})
}

// ByWeek lists a week's submissions; approvedOnly is the feed consumed by the
// ranking flow.
func (uc QueryUseCase) ByWeek(ctx context.Context, week int, approvedOnly bool) ([]entities.Submission, error) {
	return uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{
		Week:         week,
		ApprovedOnly: approvedOnly,
	})
}

// All lists every submission, used by the progress rebuild sync.
func (uc QueryUseCase) All(ctx context.Context) ([]entities.Submission, error) {
	return uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{})
}

func (uc QueryUseCase) WeeklyCounts(ctx context.Context) (map[int]int, error) {
	return uc.Repository.CountByWeek(ctx)
}

func (uc QueryUseCase) CountryDistribution(ctx context.Context) (map[string]int, error) {
	return uc.Repository.CountryDistribution(ctx)
}
