package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/ports"
)

// Tracker maintains per-builder week completion and campaign-level statistics.
// It satisfies the submission context's ProgressNotifier port.
type Tracker struct {
	repo   ports.Repository
	clock  ports.Clock
	logger *slog.Logger
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewTracker(deps Dependencies) *Tracker {
	return &Tracker{
		repo:   deps.Repository,
		clock:  deps.Clock,
		logger: deps.Logger,
	}
}

// RecordSubmission marks a week complete for the builder, registering them on
// first contact. Repeat calls for the same week are no-ops.
func (t *Tracker) RecordSubmission(ctx context.Context, userAddress string, week int, submittedAt time.Time) error {
	if week < entities.FirstCampaignWeek || week > entities.LastCampaignWeek {
		return domainerrors.ErrInvalidWeek
	}
	addr := strings.ToLower(strings.TrimSpace(userAddress))

	progress, err := t.repo.GetProgress(ctx, addr)
	if errors.Is(err, domainerrors.ErrProgressNotFound) {
		progress = entities.Progress{
			UserAddress:  addr,
			RegisteredAt: submittedAt.UTC(),
		}
	} else if err != nil {
		return err
	}

	progress.CompleteWeek(week)
	progress.LastActivityAt = submittedAt.UTC()
	if progress.IsGraduate() && progress.GraduatedAt == nil {
		graduatedAt := t.now()
		progress.GraduatedAt = &graduatedAt
		t.logInfo("builder graduated",
			"event", "builder_graduated",
			"user_address", addr,
		)
	}
	return t.repo.UpsertProgress(ctx, progress)
}

func (t *Tracker) Progress(ctx context.Context, userAddress string) (entities.Progress, error) {
	return t.repo.GetProgress(ctx, strings.ToLower(strings.TrimSpace(userAddress)))
}

// CampaignStats is the aggregate view shown on the public campaign page.
type CampaignStats struct {
	TotalParticipants int
	Graduates         int
	AverageWeeks      float64
	CompletionsByWeek map[int]int
}

func (t *Tracker) Stats(ctx context.Context) (CampaignStats, error) {
	items, err := t.repo.ListProgress(ctx)
	if err != nil {
		return CampaignStats{}, err
	}
	stats := CampaignStats{CompletionsByWeek: make(map[int]int)}
	totalWeeks := 0
	for _, progress := range items {
		stats.TotalParticipants++
		completed := progress.TotalWeeksCompleted()
		totalWeeks += completed
		if progress.IsGraduate() {
			stats.Graduates++
		}
		for week := entities.FirstCampaignWeek; week <= entities.LastCampaignWeek; week++ {
			if progress.HasCompleted(week) {
				stats.CompletionsByWeek[week]++
			}
		}
	}
	if stats.TotalParticipants > 0 {
		stats.AverageWeeks = float64(totalWeeks) / float64(stats.TotalParticipants)
	}
	return stats, nil
}

// Sync rebuilds every progress record from the submission history. Used after
// backfills or when the notifier path was down.
func (t *Tracker) Sync(ctx context.Context, source ports.SubmissionSource) (int, error) {
	participation, err := source.ListParticipation(ctx)
	if err != nil {
		return 0, err
	}
	synced := 0
	for _, record := range participation {
		if err := t.RecordSubmission(ctx, record.UserAddress, record.Week, record.SubmittedAt); err != nil {
			t.logWarn("sync skipped participation record",
				"event", "progress_sync_record_skipped",
				"user_address", record.UserAddress,
				"week", record.Week,
				"error", err.Error(),
			)
			continue
		}
		synced++
	}
	t.logInfo("progress synced from submissions",
		"event", "progress_synced",
		"records", len(participation),
		"applied", synced,
	)
	return synced, nil
}

func (t *Tracker) now() time.Time {
	if t.clock == nil {
		return time.Now().UTC()
	}
	return t.clock.Now().UTC()
}

func (t *Tracker) logInfo(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Info(msg, append([]any{"module", "campaign-onboarding/progress-service", "layer", "application"}, args...)...)
	}
}

func (t *Tracker) logWarn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, append([]any{"module", "campaign-onboarding/progress-service", "layer", "application"}, args...)...)
	}
}
