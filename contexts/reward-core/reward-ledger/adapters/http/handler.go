package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/application"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	httptransport "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/transport/http"
)

type Handler struct {
	Ledger *application.Ledger
	Logger *slog.Logger
}

func (h Handler) AllocateHandler(
	ctx context.Context,
	actor string,
	req httptransport.AllocateBatchRequest,
) (httptransport.AllocateBatchResponse, error) {
	batch := make([]ports.Grant, 0, len(req.Grants))
	for _, grant := range req.Grants {
		batch = append(batch, ports.Grant{
			Recipient: grant.Recipient,
			Amount:    grant.Amount,
			Category:  ports.RewardCategory(grant.Category),
			Week:      grant.Week,
			Proof:     grant.Proof,
		})
	}
	result, err := h.Ledger.Allocate(ctx, actor, batch)
	if err != nil {
		return httptransport.AllocateBatchResponse{}, err
	}
	resp := httptransport.AllocateBatchResponse{Status: "success"}
	resp.Data.BatchRef = result.BatchRef
	resp.Data.GrantsApplied = result.GrantsApplied
	resp.Data.TotalAllocated = result.TotalAllocated
	resp.Data.AllocatedAt = result.AllocatedAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func (h Handler) ClaimHandler(
	ctx context.Context,
	req httptransport.ClaimRequest,
) (httptransport.ClaimResponse, error) {
	result, err := h.Ledger.ClaimAll(ctx, req.Recipient)
	if err != nil {
		return httptransport.ClaimResponse{}, err
	}
	resp := httptransport.ClaimResponse{Status: "success"}
	resp.Data.Recipient = result.Recipient
	resp.Data.AmountPaid = result.AmountPaid
	resp.Data.PaidAt = result.PaidAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func (h Handler) StatsHandler(_ context.Context) httptransport.StatsResponse {
	stats := h.Ledger.Stats()
	resp := httptransport.StatsResponse{Status: "success"}
	resp.Data.MaxBudget = stats.MaxBudget
	resp.Data.TotalAllocated = stats.TotalAllocated
	resp.Data.TotalPaid = stats.TotalPaid
	resp.Data.RemainingBudget = stats.RemainingBudget
	resp.Data.BalanceOnHand = stats.BalanceOnHand
	resp.Data.Paused = stats.Paused
	return resp
}

func (h Handler) AvailableRewardsHandler(_ context.Context, recipient string) httptransport.AvailableRewardsResponse {
	balance := h.Ledger.Balance(recipient)
	resp := httptransport.AvailableRewardsResponse{Status: "success"}
	resp.Data.Recipient = balance.Recipient
	resp.Data.Claimable = balance.Claimable
	resp.Data.Earned = balance.Earned
	resp.Data.Claimed = balance.Claimed
	return resp
}

func (h Handler) PauseHandler(_ context.Context, actor string) error {
	return h.Ledger.Pause(actor)
}

func (h Handler) UnpauseHandler(_ context.Context, actor string) error {
	return h.Ledger.Unpause(actor)
}

func (h Handler) FundHandler(ctx context.Context, actor string, req httptransport.FundRequest) error {
	return h.Ledger.Fund(ctx, actor, req.Amount)
}

func (h Handler) EmergencyWithdrawHandler(ctx context.Context, actor string) (httptransport.EmergencyWithdrawResponse, error) {
	swept, err := h.Ledger.EmergencyWithdraw(ctx, actor)
	if err != nil {
		return httptransport.EmergencyWithdrawResponse{}, err
	}
	resp := httptransport.EmergencyWithdrawResponse{Status: "success"}
	resp.Data.AmountSwept = swept
	return resp, nil
}
