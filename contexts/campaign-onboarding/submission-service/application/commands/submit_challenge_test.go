package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/adapters/memory"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/queries"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/errors"
)

const builderAddr = "0x0000000000000000000000000000000000000123"

type progressRecorder struct {
	calls []progressCall
}

type progressCall struct {
	UserAddress string
	Week        int
}

func (p *progressRecorder) RecordSubmission(_ context.Context, userAddress string, week int, _ time.Time) error {
	p.calls = append(p.calls, progressCall{UserAddress: userAddress, Week: week})
	return nil
}

func validCommand() SubmitChallengeCommand {
	return SubmitChallengeCommand{
		UserAddress:   builderAddr,
		Week:          1,
		GithubURL:     "https://github.com/builder/speedrun-week1",
		SocialPostURL: "https://x.com/builder/status/123456",
		Country:       "Vietnam",
	}
}

func newUseCases(progress *progressRecorder) (SubmitChallengeUseCase, ReviewSubmissionUseCase, queries.QueryUseCase, *memory.Store) {
	store := memory.NewStore()
	submit := SubmitChallengeUseCase{
		Repository: store,
		Progress:   progress,
		Clock:      store,
		IDGen:      store,
	}
	review := ReviewSubmissionUseCase{Repository: store, Clock: store}
	return submit, review, queries.QueryUseCase{Repository: store}, store
}

func TestSubmitChallengeCreatesSubmissionAndNotifiesProgress(t *testing.T) {
	progress := &progressRecorder{}
	submit, _, query, _ := newUseCases(progress)
	ctx := context.Background()

	submission, err := submit.Execute(ctx, validCommand())
	require.NoError(t, err)
	assert.NotEmpty(t, submission.SubmissionID)
	assert.Equal(t, entities.ReviewStatusSubmitted, submission.Status)
	assert.Equal(t, builderAddr, submission.UserAddress)

	require.Len(t, progress.calls, 1)
	assert.Equal(t, builderAddr, progress.calls[0].UserAddress)
	assert.Equal(t, 1, progress.calls[0].Week)

	items, err := query.ByUser(ctx, builderAddr)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSubmitChallengeRejectsSecondSubmissionSameWeek(t *testing.T) {
	submit, _, _, _ := newUseCases(&progressRecorder{})
	ctx := context.Background()

	_, err := submit.Execute(ctx, validCommand())
	require.NoError(t, err)

	repeat := validCommand()
	repeat.GithubURL = "https://github.com/builder/speedrun-week1-redo"
	_, err = submit.Execute(ctx, repeat)
	require.ErrorIs(t, err, domainerrors.ErrDuplicateSubmission)

	// A different week is a fresh slot.
	nextWeek := validCommand()
	nextWeek.Week = 2
	_, err = submit.Execute(ctx, nextWeek)
	require.NoError(t, err)
}

func TestSubmitChallengeValidatesInput(t *testing.T) {
	submit, _, _, _ := newUseCases(&progressRecorder{})
	ctx := context.Background()

	bad := validCommand()
	bad.UserAddress = "not-an-address"
	_, err := submit.Execute(ctx, bad)
	require.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionInput)

	bad = validCommand()
	bad.Week = 7
	_, err = submit.Execute(ctx, bad)
	require.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionInput)

	bad = validCommand()
	bad.GithubURL = "https://gitlab.com/builder/repo"
	_, err = submit.Execute(ctx, bad)
	require.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionInput)

	bad = validCommand()
	bad.SocialPostURL = "not a url at all\x00"
	_, err = submit.Execute(ctx, bad)
	require.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionInput)
}

func TestReviewSubmissionSetsOutcomeAndFeedback(t *testing.T) {
	submit, review, query, _ := newUseCases(&progressRecorder{})
	ctx := context.Background()

	submission, err := submit.Execute(ctx, validCommand())
	require.NoError(t, err)

	reviewed, err := review.Execute(ctx, ReviewSubmissionCommand{
		SubmissionID:   submission.SubmissionID,
		Outcome:        entities.ReviewStatusApproved,
		MentorFeedback: "clean deployment, nice readme",
		ReviewedBy:     "mentor-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusApproved, reviewed.Status)
	assert.Equal(t, "clean deployment, nice readme", reviewed.MentorFeedback)
	require.NotNil(t, reviewed.ReviewedAt)

	approved, err := query.ByWeek(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, approved, 1)
}

func TestReviewSubmissionRejectsBadOutcome(t *testing.T) {
	submit, review, _, _ := newUseCases(&progressRecorder{})
	ctx := context.Background()

	submission, err := submit.Execute(ctx, validCommand())
	require.NoError(t, err)

	_, err = review.Execute(ctx, ReviewSubmissionCommand{
		SubmissionID: submission.SubmissionID,
		Outcome:      entities.ReviewStatusSubmitted,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidReviewStatus)

	_, err = review.Execute(ctx, ReviewSubmissionCommand{
		SubmissionID: "missing",
		Outcome:      entities.ReviewStatusRejected,
	})
	require.ErrorIs(t, err, domainerrors.ErrSubmissionNotFound)
}

func TestWeeklyCountsAndCountryDistribution(t *testing.T) {
	submit, _, query, _ := newUseCases(&progressRecorder{})
	ctx := context.Background()

	first := validCommand()
	_, err := submit.Execute(ctx, first)
	require.NoError(t, err)

	second := validCommand()
	second.UserAddress = "0x0000000000000000000000000000000000000456"
	second.Country = "Indonesia"
	_, err = submit.Execute(ctx, second)
	require.NoError(t, err)

	third := validCommand()
	third.UserAddress = "0x0000000000000000000000000000000000000789"
	third.Week = 2
	third.Country = "Vietnam"
	_, err = submit.Execute(ctx, third)
	require.NoError(t, err)

	counts, err := query.WeeklyCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, counts)

	countries, err := query.CountryDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Vietnam": 2, "Indonesia": 1}, countries)
}
