package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rewardledger "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger"
	ledgermemory "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/memory"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	escrowmemory "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/adapters/memory"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/ports"
)

const (
	ownerAddr = "0x00000000000000000000000000000000000000aa"
	addrA     = "0x0000000000000000000000000000000000000001"
)

type fixture struct {
	ledger  rewardledger.Module
	store   *ledgermemory.Store
	escrow  *escrowmemory.Escrow
	settler *Settler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := rewardledger.NewInMemoryModule(ownerAddr, nil)
	escrow := escrowmemory.NewEscrow()
	settler := NewSettler(Dependencies{
		Escrow:      escrow,
		Ledger:      ledger.Ledger,
		Mirror:      ledger.Store,
		MaxAttempts: 3,
		Backoff:     0,
	})
	return &fixture{ledger: ledger, store: ledger.Store, escrow: escrow, settler: settler}
}

// drainOutbox pops all pending outbox messages as envelopes, in append order.
func (f *fixture) drainOutbox(t *testing.T) []ports.EventEnvelope {
	t.Helper()
	ctx := context.Background()
	messages, err := f.store.ListPendingOutbox(ctx, 100)
	require.NoError(t, err)
	envelopes := make([]ports.EventEnvelope, 0, len(messages))
	for _, message := range messages {
		var envelope ports.EventEnvelope
		require.NoError(t, json.Unmarshal(message.Payload, &envelope))
		envelopes = append(envelopes, envelope)
	}
	return envelopes
}

func (f *fixture) allocate(t *testing.T, proofs ...string) rewardports.BatchResult {
	t.Helper()
	batch := make([]rewardports.Grant, 0, len(proofs))
	for _, proofToken := range proofs {
		batch = append(batch, rewardports.Grant{
			Recipient: addrA,
			Amount:    50,
			Category:  rewardports.CategoryTopQuality,
			Week:      1,
			Proof:     proofToken,
		})
	}
	result, err := f.ledger.Ledger.Allocate(context.Background(), ownerAddr, batch)
	require.NoError(t, err)
	return result
}

func TestSettlerConfirmsAllocatedBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	result := f.allocate(t, "s1", "s2")

	envelopes := f.drainOutbox(t)
	require.Len(t, envelopes, 1)
	require.Equal(t, ports.TopicBatchAllocated, envelopes[0].EventType)

	require.NoError(t, f.settler.Handle(ctx, envelopes[0]))

	allocations := f.escrow.Allocations()
	require.Len(t, allocations, 1)
	assert.Equal(t, result.BatchRef, allocations[0].BatchRef)
	assert.Len(t, allocations[0].Grants, 2)

	records, err := f.ledger.Ledger.GrantsForBatch(result.BatchRef)
	require.NoError(t, err)
	for _, record := range records {
		assert.Equal(t, rewardports.GrantStatusSettled, record.Status)
		assert.NotEmpty(t, record.TxHash)
	}

	mirrored, err := f.store.ListGrantsByRecipient(ctx, addrA)
	require.NoError(t, err)
	require.Len(t, mirrored, 2)
	for _, record := range mirrored {
		assert.Equal(t, rewardports.GrantStatusSettled, record.Status)
	}
}

func TestSettlerRetriesTransientEscrowFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	result := f.allocate(t, "r1")
	f.escrow.FailNext(2)

	envelopes := f.drainOutbox(t)
	require.Len(t, envelopes, 1)
	require.NoError(t, f.settler.Handle(ctx, envelopes[0]))

	require.Len(t, f.escrow.Allocations(), 1)
	records, err := f.ledger.Ledger.GrantsForBatch(result.BatchRef)
	require.NoError(t, err)
	assert.Equal(t, rewardports.GrantStatusSettled, records[0].Status)
}

func TestSettlerLeavesBatchPendingWhenRetriesExhaust(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	result := f.allocate(t, "x1")
	f.escrow.FailNext(3)

	envelopes := f.drainOutbox(t)
	require.Len(t, envelopes, 1)
	err := f.settler.Handle(ctx, envelopes[0])
	require.ErrorIs(t, err, domainerrors.ErrRetriesExhausted)

	// No rollback: the reservation stands, the grant just never confirms.
	records, err := f.ledger.Ledger.GrantsForBatch(result.BatchRef)
	require.NoError(t, err)
	assert.Equal(t, rewardports.GrantStatusPending, records[0].Status)
	assert.Equal(t, int64(50), f.ledger.Ledger.Stats().TotalAllocated)
}

func TestSettlerPaysOutClaims(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Ledger.Fund(ctx, ownerAddr, 100))
	f.allocate(t, "c1")

	_, err := f.ledger.Ledger.ClaimAll(ctx, addrA)
	require.NoError(t, err)

	for _, envelope := range f.drainOutbox(t) {
		require.NoError(t, f.settler.Handle(ctx, envelope))
	}

	payouts := f.escrow.Payouts()
	require.Len(t, payouts, 1)
	assert.Equal(t, addrA, payouts[0].Recipient)
	assert.Equal(t, int64(50), payouts[0].Amount)

	mirrored, err := f.store.ListGrantsByRecipient(ctx, addrA)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, rewardports.GrantStatusSettled, mirrored[0].Status)
	assert.NotEmpty(t, mirrored[0].TxHash)
}

func TestSettlerRejectsUnknownAndMalformedEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.settler.Handle(ctx, ports.EventEnvelope{EventType: "reward.unknown"})
	require.ErrorIs(t, err, domainerrors.ErrUnknownEvent)

	err = f.settler.Handle(ctx, ports.EventEnvelope{
		EventType: ports.TopicBatchAllocated,
		Data:      json.RawMessage(`{"batch_ref":""}`),
	})
	require.ErrorIs(t, err, domainerrors.ErrMalformedEvent)

	err = f.settler.Handle(ctx, ports.EventEnvelope{
		EventType: ports.TopicClaimed,
		Data:      json.RawMessage(`not-json`),
	})
	require.ErrorIs(t, err, domainerrors.ErrMalformedEvent)
}
