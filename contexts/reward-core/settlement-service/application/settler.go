package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/ports"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
)

// Settler consumes committed ledger events and drives the escrow contract:
// allocation batches become on-chain reservations, claims become payouts.
// A batch whose escrow submission never succeeds stays PENDING in the ledger;
// the settler never rolls reservations back.
type Settler struct {
	escrow      ports.EscrowClient
	ledger      ports.LedgerConfirmer
	mirror      ports.MirrorStore
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
}

type Dependencies struct {
	Escrow      ports.EscrowClient
	Ledger      ports.LedgerConfirmer
	Mirror      ports.MirrorStore
	Logger      *slog.Logger
	MaxAttempts int
	Backoff     time.Duration
}

func NewSettler(deps Dependencies) *Settler {
	maxAttempts := deps.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	backoff := deps.Backoff
	if backoff < 0 {
		backoff = defaultBackoff
	}
	return &Settler{
		escrow:      deps.Escrow,
		ledger:      deps.Ledger,
		mirror:      deps.Mirror,
		logger:      deps.Logger,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// Handle dispatches one consumed event. Unknown event types are an error so a
// misrouted subscription shows up in the consumer log instead of vanishing.
func (s *Settler) Handle(ctx context.Context, envelope ports.EventEnvelope) error {
	switch envelope.EventType {
	case ports.TopicBatchAllocated:
		return s.handleBatchAllocated(ctx, envelope)
	case ports.TopicClaimed:
		return s.handleClaimed(ctx, envelope)
	default:
		return fmt.Errorf("%w: %s", domainerrors.ErrUnknownEvent, envelope.EventType)
	}
}

func (s *Settler) handleBatchAllocated(ctx context.Context, envelope ports.EventEnvelope) error {
	var event ports.BatchAllocatedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrMalformedEvent, err)
	}
	if strings.TrimSpace(event.BatchRef) == "" || len(event.Grants) == 0 {
		return domainerrors.ErrMalformedEvent
	}
	allocatedAt, err := time.Parse(time.RFC3339, event.AllocatedAt)
	if err != nil {
		return fmt.Errorf("%w: bad allocated_at: %v", domainerrors.ErrMalformedEvent, err)
	}

	// Mirror the pending grants first so dashboards see the batch even while
	// the escrow transaction is in flight.
	if s.mirror != nil {
		for _, grant := range event.Grants {
			if err := s.mirror.UpsertGrant(ctx, rewardports.GrantRecord{
				GrantID:     grant.GrantID,
				BatchRef:    event.BatchRef,
				Recipient:   grant.Recipient,
				Amount:      grant.Amount,
				Category:    rewardports.RewardCategory(grant.Category),
				Week:        grant.Week,
				Proof:       grant.Proof,
				Status:      rewardports.GrantStatusPending,
				AllocatedAt: allocatedAt,
			}); err != nil {
				return err
			}
		}
	}

	batch := ports.AllocationBatch{BatchRef: event.BatchRef}
	for _, grant := range event.Grants {
		batch.Grants = append(batch.Grants, ports.AllocationGrant{
			GrantID:   grant.GrantID,
			Recipient: grant.Recipient,
			Amount:    grant.Amount,
			Category:  rewardports.RewardCategory(grant.Category),
			Week:      grant.Week,
			Proof:     grant.Proof,
		})
	}

	txHash, err := s.submitWithRetry(ctx, "allocation", event.BatchRef, func(ctx context.Context) (string, error) {
		return s.escrow.SubmitAllocation(ctx, batch)
	})
	if err != nil {
		return err
	}

	if err := s.ledger.MarkSettled(ctx, event.BatchRef, txHash); err != nil {
		return err
	}
	if s.mirror != nil {
		records, err := s.ledger.GrantsForBatch(event.BatchRef)
		if err != nil {
			return err
		}
		for _, record := range records {
			if err := s.mirror.UpsertGrant(ctx, record); err != nil {
				return err
			}
		}
	}

	s.logInfo("batch settled on escrow",
		"event", "settlement_batch_settled",
		"batch_ref", event.BatchRef,
		"tx_hash", txHash,
		"grants", len(event.Grants),
	)
	return nil
}

func (s *Settler) handleClaimed(ctx context.Context, envelope ports.EventEnvelope) error {
	var event ports.ClaimedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrMalformedEvent, err)
	}
	if strings.TrimSpace(event.Recipient) == "" || event.AmountPaid <= 0 {
		return domainerrors.ErrMalformedEvent
	}
	paidAt, err := time.Parse(time.RFC3339, event.PaidAt)
	if err != nil {
		return fmt.Errorf("%w: bad paid_at: %v", domainerrors.ErrMalformedEvent, err)
	}

	txHash, err := s.submitWithRetry(ctx, "payout", event.Recipient, func(ctx context.Context) (string, error) {
		return s.escrow.SubmitPayout(ctx, event.Recipient, event.AmountPaid)
	})
	if err != nil {
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.MarkGrantsPaid(ctx, event.Recipient, paidAt, txHash); err != nil {
			return err
		}
	}

	s.logInfo("claim paid out on escrow",
		"event", "settlement_claim_paid",
		"recipient", event.Recipient,
		"amount", event.AmountPaid,
		"tx_hash", txHash,
	)
	return nil
}

func (s *Settler) submitWithRetry(
	ctx context.Context,
	kind string,
	ref string,
	submit func(context.Context) (string, error),
) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		txHash, err := submit(ctx)
		if err == nil {
			return txHash, nil
		}
		lastErr = err
		s.logWarn("escrow submission failed",
			"event", "settlement_submit_failed",
			"kind", kind,
			"ref", ref,
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"error", err.Error(),
		)
		if attempt == s.maxAttempts {
			break
		}
		wait := s.backoff * time.Duration(attempt)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return "", fmt.Errorf("%w: %s %s: %v", domainerrors.ErrRetriesExhausted, kind, ref, lastErr)
}

func (s *Settler) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, append([]any{"module", "reward-core/settlement-service", "layer", "application"}, args...)...)
	}
}

func (s *Settler) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, append([]any{"module", "reward-core/settlement-service", "layer", "application"}, args...)...)
	}
}
