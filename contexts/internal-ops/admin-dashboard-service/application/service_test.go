package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/adapters/memory"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/ports"
)

func newService() Service {
	store := memory.NewStore()
	return Service{Repo: store, Idempotency: store, Clock: store}
}

func pauseInput() RecordActionInput {
	return RecordActionInput{
		ActorID:       "admin-1",
		Action:        "campaign.pause",
		TargetID:      "campaign",
		Justification: "suspected duplicate submissions in week 3",
	}
}

func TestRecordAdminActionIsIdempotent(t *testing.T) {
	service := newService()
	ctx := context.Background()

	first, err := service.RecordAdminAction(ctx, "key-1", pauseInput())
	require.NoError(t, err)

	replay, err := service.RecordAdminAction(ctx, "key-1", pauseInput())
	require.NoError(t, err)
	assert.Equal(t, first.AuditID, replay.AuditID)

	rows, err := service.ListRecentActions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestRecordAdminActionRejectsKeyReuseWithDifferentPayload(t *testing.T) {
	service := newService()
	ctx := context.Background()

	_, err := service.RecordAdminAction(ctx, "key-1", pauseInput())
	require.NoError(t, err)

	other := pauseInput()
	other.Action = "campaign.unpause"
	_, err = service.RecordAdminAction(ctx, "key-1", other)
	require.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)
}

func TestRecordAdminActionValidation(t *testing.T) {
	service := newService()
	ctx := context.Background()

	input := pauseInput()
	input.ActorID = ""
	_, err := service.RecordAdminAction(ctx, "key-1", input)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	input = pauseInput()
	input.Justification = ""
	_, err = service.RecordAdminAction(ctx, "key-1", input)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = service.RecordAdminAction(ctx, "  ", pauseInput())
	require.ErrorIs(t, err, domainerrors.ErrIdempotencyRequired)
}

type stubLedger struct{ view ports.LedgerView }

func (s stubLedger) LedgerStats(context.Context) (ports.LedgerView, error) { return s.view, nil }

type stubSubmissions struct {
	weekly    map[int]int
	countries map[string]int
}

func (s stubSubmissions) WeeklyCounts(context.Context) (map[int]int, error) { return s.weekly, nil }
func (s stubSubmissions) CountryDistribution(context.Context) (map[string]int, error) {
	return s.countries, nil
}

type stubProgress struct{ view ports.ProgressView }

func (s stubProgress) CampaignStats(context.Context) (ports.ProgressView, error) {
	return s.view, nil
}

func TestKPIReportComposesSources(t *testing.T) {
	kpis := KPIService{
		Ledger: stubLedger{view: ports.LedgerView{
			MaxBudget:       2000,
			TotalAllocated:  1000,
			TotalPaid:       400,
			RemainingBudget: 1000,
		}},
		Submissions: stubSubmissions{
			weekly:    map[int]int{1: 120, 2: 50},
			countries: map[string]int{"Vietnam": 40, "Indonesia": 25, "Nigeria": 10},
		},
		Progress:      stubProgress{view: ports.ProgressView{TotalParticipants: 150, Graduates: 12}},
		WeeklyTargets: map[int]int{1: 100, 2: 100},
	}

	report, err := kpis.Report(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Weekly, 6)
	assert.Equal(t, 120, report.Weekly[0].Actual)
	assert.InDelta(t, 1.2, report.Weekly[0].Attainment, 0.001)
	assert.Equal(t, 0, report.Weekly[5].Actual)

	// Attainment contributions cap at 1 per week: (1+0.5+0+0+0+0)/6.
	assert.InDelta(t, (1.5/6.0*0.7+0.5*0.3)*100, report.HealthScore, 0.01)

	require.NotEmpty(t, report.TopCountries)
	assert.Equal(t, "Vietnam", report.TopCountries[0].Country)
	assert.Len(t, report.RewardStructure, 3)
	assert.Equal(t, 12, report.Progress.Graduates)
}
