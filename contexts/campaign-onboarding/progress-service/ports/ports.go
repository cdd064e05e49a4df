package ports

import (
	"context"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/entities"
)

type Repository interface {
	GetProgress(ctx context.Context, userAddress string) (entities.Progress, error)
	UpsertProgress(ctx context.Context, progress entities.Progress) error
	ListProgress(ctx context.Context) ([]entities.Progress, error)
}

// Participation is the minimal submission projection the sync job consumes.
type Participation struct {
	UserAddress string
	Week        int
	SubmittedAt time.Time
}

// SubmissionSource feeds the rebuild-from-submissions sync. Participation is
// counted on submit, not on approval.
type SubmissionSource interface {
	ListParticipation(ctx context.Context) ([]Participation, error)
}

type Clock interface {
	Now() time.Time
}
