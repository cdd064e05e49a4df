package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/application"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	httptransport "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/transport/http"
)

type Handler struct {
	Leaderboard *application.Leaderboard
	Logger      *slog.Logger
}

func (h Handler) TopNHandler(ctx context.Context, week int, category string) (httptransport.LeaderboardResponse, error) {
	ranked, err := h.Leaderboard.TopN(ctx, week, ports.Category(category))
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	resp := httptransport.LeaderboardResponse{Status: "success"}
	resp.Data.Week = week
	resp.Data.Category = category
	resp.Data.Entries = make([]httptransport.RankedEntryDTO, 0, len(ranked))
	for _, item := range ranked {
		resp.Data.Entries = append(resp.Data.Entries, httptransport.RankedEntryDTO{
			Rank:          item.Rank,
			Score:         item.Score,
			SubmissionID:  item.Entry.SubmissionID,
			UserAddress:   item.Entry.UserAddress,
			Week:          item.Entry.Week,
			GithubURL:     item.Entry.GithubURL,
			SocialPostURL: item.Entry.SocialPostURL,
			SubmittedAt:   item.Entry.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
