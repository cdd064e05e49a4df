package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/entities"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/ports"
	httptransport "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/transport/http"
)

type Handler struct {
	Tracker *application.Tracker
	Logger  *slog.Logger
}

func (h Handler) ProgressHandler(ctx context.Context, userAddress string) (httptransport.ProgressResponse, error) {
	progress, err := h.Tracker.Progress(ctx, userAddress)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	resp := httptransport.ProgressResponse{Status: "success"}
	resp.Data.UserAddress = progress.UserAddress
	resp.Data.WeeksCompleted = completedWeeks(progress)
	resp.Data.TotalWeeks = progress.TotalWeeksCompleted()
	resp.Data.Graduated = progress.IsGraduate()
	resp.Data.RegisteredAt = progress.RegisteredAt.UTC().Format(time.RFC3339)
	resp.Data.LastActivityAt = progress.LastActivityAt.UTC().Format(time.RFC3339)
	if progress.GraduatedAt != nil {
		resp.Data.GraduatedAt = progress.GraduatedAt.UTC().Format(time.RFC3339)
	}
	return resp, nil
}

func (h Handler) StatsHandler(ctx context.Context) (httptransport.CampaignStatsResponse, error) {
	stats, err := h.Tracker.Stats(ctx)
	if err != nil {
		return httptransport.CampaignStatsResponse{}, err
	}
	resp := httptransport.CampaignStatsResponse{Status: "success"}
	resp.Data.TotalParticipants = stats.TotalParticipants
	resp.Data.Graduates = stats.Graduates
	resp.Data.AverageWeeks = stats.AverageWeeks
	resp.Data.CompletionsByWeek = stats.CompletionsByWeek
	return resp, nil
}

func (h Handler) SyncHandler(ctx context.Context, source ports.SubmissionSource) (httptransport.SyncResponse, error) {
	applied, err := h.Tracker.Sync(ctx, source)
	if err != nil {
		return httptransport.SyncResponse{}, err
	}
	resp := httptransport.SyncResponse{Status: "success"}
	resp.Data.RecordsApplied = applied
	return resp, nil
}

func completedWeeks(progress entities.Progress) []int {
	weeks := make([]int, 0, entities.TotalCampaignWeeks)
	for week := entities.FirstCampaignWeek; week <= entities.LastCampaignWeek; week++ {
		if progress.HasCompleted(week) {
			weeks = append(weeks, week)
		}
	}
	return weeks
}
