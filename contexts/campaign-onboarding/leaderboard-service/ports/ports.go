package ports

import (
	"context"
	"time"

	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

// Category reuses the reward ledger's category names so rankings line up with
// grants one to one.
type Category = rewardports.RewardCategory

// Entry is the slice of an approved submission the ranking needs.
type Entry struct {
	SubmissionID  string
	UserAddress   string
	Week          int
	GithubURL     string
	SocialPostURL string
	SubmittedAt   time.Time
}

// SubmissionFeed supplies the approved submissions for a week.
type SubmissionFeed interface {
	ApprovedByWeek(ctx context.Context, week int) ([]Entry, error)
}

// Scorer assigns a ranking score to an entry; higher wins.
type Scorer interface {
	Score(ctx context.Context, entry Entry) (float64, error)
}

type RankedEntry struct {
	Rank  int
	Score float64
	Entry Entry
}
