package http

import (
	"context"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/application"
	httptransport "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/transport/http"
)

type Handler struct {
	Service application.Service
	KPIs    application.KPIService
}

func (h Handler) RecordAdminActionHandler(
	ctx context.Context,
	adminID string,
	idempotencyKey string,
	req httptransport.RecordAdminActionRequest,
) (httptransport.RecordAdminActionResponse, error) {
	row, err := h.Service.RecordAdminAction(ctx, idempotencyKey, application.RecordActionInput{
		ActorID:       adminID,
		Action:        req.Action,
		TargetID:      req.TargetID,
		Justification: req.Justification,
		SourceIP:      req.SourceIP,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		return httptransport.RecordAdminActionResponse{}, err
	}
	return httptransport.RecordAdminActionResponse{
		AuditID:    row.AuditID,
		OccurredAt: row.OccurredAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) ListActionsHandler(ctx context.Context, limit int) (httptransport.ListAdminActionsResponse, error) {
	rows, err := h.Service.ListRecentActions(ctx, limit)
	if err != nil {
		return httptransport.ListAdminActionsResponse{}, err
	}
	resp := httptransport.ListAdminActionsResponse{Status: "success"}
	resp.Data = make([]httptransport.AdminActionDTO, 0, len(rows))
	for _, row := range rows {
		resp.Data = append(resp.Data, httptransport.AdminActionDTO{
			AuditID:       row.AuditID,
			ActorID:       row.ActorID,
			Action:        row.Action,
			TargetID:      row.TargetID,
			Justification: row.Justification,
			OccurredAt:    row.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) KPIReportHandler(ctx context.Context) (httptransport.KPIReportResponse, error) {
	report, err := h.KPIs.Report(ctx)
	if err != nil {
		return httptransport.KPIReportResponse{}, err
	}
	resp := httptransport.KPIReportResponse{Status: "success"}
	resp.Data.GeneratedAt = report.GeneratedAt.UTC().Format(time.RFC3339)
	resp.Data.HealthScore = report.HealthScore
	resp.Data.Ledger.MaxBudget = report.Ledger.MaxBudget
	resp.Data.Ledger.TotalAllocated = report.Ledger.TotalAllocated
	resp.Data.Ledger.TotalPaid = report.Ledger.TotalPaid
	resp.Data.Ledger.RemainingBudget = report.Ledger.RemainingBudget
	resp.Data.Ledger.BalanceOnHand = report.Ledger.BalanceOnHand
	resp.Data.Ledger.Paused = report.Ledger.Paused
	resp.Data.Progress.TotalParticipants = report.Progress.TotalParticipants
	resp.Data.Progress.Graduates = report.Progress.Graduates
	resp.Data.Progress.AverageWeeks = report.Progress.AverageWeeks
	resp.Data.Progress.CompletionsByWeek = report.Progress.CompletionsByWeek
	for _, kpi := range report.Weekly {
		resp.Data.Weekly = append(resp.Data.Weekly, httptransport.WeekKPIDTO{
			Week:       kpi.Week,
			Target:     kpi.Target,
			Actual:     kpi.Actual,
			Attainment: kpi.Attainment,
		})
	}
	for _, country := range report.TopCountries {
		resp.Data.TopCountries = append(resp.Data.TopCountries, httptransport.CountryCountDTO{
			Country: country.Country,
			Total:   country.Total,
		})
	}
	for _, category := range report.RewardStructure {
		resp.Data.RewardStructure = append(resp.Data.RewardStructure, httptransport.CategoryInfoDTO{
			Category:  category.Category,
			Amount:    category.Amount,
			WeeklyCap: category.WeeklyCap,
		})
	}
	return resp, nil
}
