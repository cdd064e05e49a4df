package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/ports"
)

type SubmitChallengeCommand struct {
	UserAddress   string
	Week          int
	GithubURL     string
	SocialPostURL string
	PayoutWallet  string
	Country       string
	Notes         string
}

type SubmitChallengeUseCase struct {
	Repository ports.Repository
	Progress   ports.ProgressNotifier
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute records one challenge submission. A user gets exactly one slot per
// week; repeats are rejected regardless of the first submission's review
// status.
func (uc SubmitChallengeUseCase) Execute(ctx context.Context, cmd SubmitChallengeCommand) (entities.Submission, error) {
	logger := application.ResolveLogger(uc.Logger)

	userAddress := strings.ToLower(strings.TrimSpace(cmd.UserAddress))
	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	now := uc.Clock.Now().UTC()
	submission := entities.Submission{
		SubmissionID:  submissionID,
		UserAddress:   userAddress,
		Week:          cmd.Week,
		GithubURL:     strings.TrimSpace(cmd.GithubURL),
		SocialPostURL: strings.TrimSpace(cmd.SocialPostURL),
		PayoutWallet:  strings.ToLower(strings.TrimSpace(cmd.PayoutWallet)),
		Country:       strings.TrimSpace(cmd.Country),
		Notes:         strings.TrimSpace(cmd.Notes),
		Status:        entities.ReviewStatusSubmitted,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if !submission.ValidateCreate() {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	}

	if _, err := uc.Repository.GetByUserWeek(ctx, userAddress, cmd.Week); err == nil {
		return entities.Submission{}, domainerrors.ErrDuplicateSubmission
	} else if !errors.Is(err, domainerrors.ErrSubmissionNotFound) {
		return entities.Submission{}, err
	}

	if err := uc.Repository.CreateSubmission(ctx, submission); err != nil {
		return entities.Submission{}, err
	}

	if uc.Progress != nil {
		if err := uc.Progress.RecordSubmission(ctx, userAddress, cmd.Week, now); err != nil {
			// The submission is committed; progress catches up on the next
			// sync job run.
			logger.Warn("progress notification failed",
				"event", "submission_progress_notify_failed",
				"module", "campaign-onboarding/submission-service",
				"layer", "application",
				"submission_id", submission.SubmissionID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("challenge submitted",
		"event", "challenge_submitted",
		"module", "campaign-onboarding/submission-service",
		"layer", "application",
		"submission_id", submission.SubmissionID,
		"user_address", userAddress,
		"week", cmd.Week,
	)
	return submission, nil
}
