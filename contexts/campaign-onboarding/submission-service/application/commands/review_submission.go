package commands

import (
	"context"
	"log/slog"
	"strings"

	application "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/ports"
)

type ReviewSubmissionCommand struct {
	SubmissionID   string
	Outcome        entities.ReviewStatus
	MentorFeedback string
	ReviewedBy     string
}

type ReviewSubmissionUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc ReviewSubmissionUseCase) Execute(ctx context.Context, cmd ReviewSubmissionCommand) (entities.Submission, error) {
	if !cmd.Outcome.IsReviewOutcome() {
		return entities.Submission{}, domainerrors.ErrInvalidReviewStatus
	}
	submission, err := uc.Repository.GetSubmission(ctx, strings.TrimSpace(cmd.SubmissionID))
	if err != nil {
		return entities.Submission{}, err
	}

	now := uc.Clock.Now().UTC()
	submission.Status = cmd.Outcome
	submission.MentorFeedback = strings.TrimSpace(cmd.MentorFeedback)
	submission.ReviewedBy = strings.TrimSpace(cmd.ReviewedBy)
	submission.ReviewedAt = &now
	submission.UpdatedAt = now

	if err := uc.Repository.UpdateSubmission(ctx, submission); err != nil {
		return entities.Submission{}, err
	}

	application.ResolveLogger(uc.Logger).Info("submission reviewed",
		"event", "submission_reviewed",
		"module", "campaign-onboarding/submission-service",
		"layer", "application",
		"submission_id", submission.SubmissionID,
		"outcome", string(cmd.Outcome),
		"reviewed_by", submission.ReviewedBy,
	)
	return submission, nil
}
