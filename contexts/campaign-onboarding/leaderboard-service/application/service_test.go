package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

type staticFeed struct {
	entries []ports.Entry
}

func (f staticFeed) ApprovedByWeek(_ context.Context, week int) ([]ports.Entry, error) {
	items := make([]ports.Entry, 0)
	for _, entry := range f.entries {
		if entry.Week == week {
			items = append(items, entry)
		}
	}
	return items, nil
}

func entryAt(i int, week int, offset time.Duration) ports.Entry {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	return ports.Entry{
		SubmissionID: fmt.Sprintf("sub-%d", i),
		UserAddress:  fmt.Sprintf("0x%040x", i+1),
		Week:         week,
		SubmittedAt:  base.Add(offset),
	}
}

func TestTopNRanksBySubmissionTime(t *testing.T) {
	feed := staticFeed{entries: []ports.Entry{
		entryAt(0, 1, 3*time.Hour),
		entryAt(1, 1, 1*time.Hour),
		entryAt(2, 1, 2*time.Hour),
	}}
	board := NewLeaderboard(Dependencies{Feed: feed})

	ranked, err := board.TopN(context.Background(), 1, rewardports.CategoryFastCompletion)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "sub-1", ranked[0].Entry.SubmissionID)
	assert.Equal(t, "sub-2", ranked[1].Entry.SubmissionID)
	assert.Equal(t, "sub-0", ranked[2].Entry.SubmissionID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestTopNCapsToCategoryWeeklyCap(t *testing.T) {
	entries := make([]ports.Entry, 0, 60)
	for i := 0; i < 60; i++ {
		entries = append(entries, entryAt(i, 2, time.Duration(i)*time.Minute))
	}
	board := NewLeaderboard(Dependencies{Feed: staticFeed{entries: entries}})

	ranked, err := board.TopN(context.Background(), 2, rewardports.CategoryFastCompletion)
	require.NoError(t, err)
	assert.Len(t, ranked, 50)
}

func TestTopNFailsForUnscoredCategories(t *testing.T) {
	board := NewLeaderboard(Dependencies{Feed: staticFeed{entries: []ports.Entry{entryAt(0, 1, 0)}}})

	_, err := board.TopN(context.Background(), 1, rewardports.CategoryTopQuality)
	require.ErrorIs(t, err, domainerrors.ErrScorerNotImplemented)

	_, err = board.TopN(context.Background(), 1, rewardports.CategoryTopEngagement)
	require.ErrorIs(t, err, domainerrors.ErrScorerNotImplemented)
}

func TestTopNValidatesWeekAndCategory(t *testing.T) {
	board := NewLeaderboard(Dependencies{Feed: staticFeed{}})

	_, err := board.TopN(context.Background(), 0, rewardports.CategoryFastCompletion)
	require.ErrorIs(t, err, domainerrors.ErrInvalidWeek)

	_, err = board.TopN(context.Background(), 1, ports.Category("MOST_MEMES"))
	require.ErrorIs(t, err, domainerrors.ErrUnknownCategory)
}
