package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/commands"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/application/queries"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	httptransport "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/transport/http"
)

type Handler struct {
	Submit  commands.SubmitChallengeUseCase
	Review  commands.ReviewSubmissionUseCase
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) SubmitHandler(ctx context.Context, req httptransport.SubmitChallengeRequest) (httptransport.SubmitChallengeResponse, error) {
	submission, err := h.Submit.Execute(ctx, commands.SubmitChallengeCommand{
		UserAddress:   req.UserAddress,
		Week:          req.Week,
		GithubURL:     req.GithubURL,
		SocialPostURL: req.SocialPostURL,
		PayoutWallet:  req.PayoutWallet,
		Country:       req.Country,
		Notes:         req.Notes,
	})
	if err != nil {
		return httptransport.SubmitChallengeResponse{}, err
	}
	return httptransport.SubmitChallengeResponse{Status: "success", Data: toDTO(submission)}, nil
}

func (h Handler) ReviewHandler(ctx context.Context, submissionID string, req httptransport.ReviewSubmissionRequest) (httptransport.ReviewSubmissionResponse, error) {
	submission, err := h.Review.Execute(ctx, commands.ReviewSubmissionCommand{
		SubmissionID:   submissionID,
		Outcome:        entities.ReviewStatus(req.Outcome),
		MentorFeedback: req.MentorFeedback,
		ReviewedBy:     req.ReviewedBy,
	})
	if err != nil {
		return httptransport.ReviewSubmissionResponse{}, err
	}
	return httptransport.ReviewSubmissionResponse{Status: "success", Data: toDTO(submission)}, nil
}

func (h Handler) ByUserHandler(ctx context.Context, userAddress string) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ByUser(ctx, userAddress)
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	return listResponse(items), nil
}

func (h Handler) ByWeekHandler(ctx context.Context, week int, approvedOnly bool) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ByWeek(ctx, week, approvedOnly)
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	return listResponse(items), nil
}

func (h Handler) WeeklyCountsHandler(ctx context.Context) (httptransport.WeeklyCountsResponse, error) {
	counts, err := h.Queries.WeeklyCounts(ctx)
	if err != nil {
		return httptransport.WeeklyCountsResponse{}, err
	}
	return httptransport.WeeklyCountsResponse{Status: "success", Data: counts}, nil
}

func (h Handler) CountryDistributionHandler(ctx context.Context) (httptransport.CountryDistributionResponse, error) {
	counts, err := h.Queries.CountryDistribution(ctx)
	if err != nil {
		return httptransport.CountryDistributionResponse{}, err
	}
	return httptransport.CountryDistributionResponse{Status: "success", Data: counts}, nil
}

func listResponse(items []entities.Submission) httptransport.ListSubmissionsResponse {
	data := make([]httptransport.SubmissionDTO, 0, len(items))
	for _, item := range items {
		data = append(data, toDTO(item))
	}
	return httptransport.ListSubmissionsResponse{Status: "success", Data: data}
}

func toDTO(submission entities.Submission) httptransport.SubmissionDTO {
	dto := httptransport.SubmissionDTO{
		SubmissionID:   submission.SubmissionID,
		UserAddress:    submission.UserAddress,
		Week:           submission.Week,
		GithubURL:      submission.GithubURL,
		SocialPostURL:  submission.SocialPostURL,
		PayoutWallet:   submission.PayoutWallet,
		Country:        submission.Country,
		Notes:          submission.Notes,
		Status:         string(submission.Status),
		MentorFeedback: submission.MentorFeedback,
		ReviewedBy:     submission.ReviewedBy,
		SubmittedAt:    submission.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if submission.ReviewedAt != nil {
		dto.ReviewedAt = submission.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
