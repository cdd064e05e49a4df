package ports

import (
	"context"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
)

type SubmissionFilter struct {
	UserAddress  string
	Week         int
	ApprovedOnly bool
}

type Repository interface {
	CreateSubmission(ctx context.Context, submission entities.Submission) error
	UpdateSubmission(ctx context.Context, submission entities.Submission) error
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	GetByUserWeek(ctx context.Context, userAddress string, week int) (entities.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]entities.Submission, error)
	CountByWeek(ctx context.Context) (map[int]int, error)
	CountryDistribution(ctx context.Context) (map[string]int, error)
}

// ProgressNotifier feeds the per-user week completion tracker after a
// successful submit. A nil notifier is allowed in partial deployments.
type ProgressNotifier interface {
	RecordSubmission(ctx context.Context, userAddress string, week int, submittedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
