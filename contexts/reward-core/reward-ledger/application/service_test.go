package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/memory"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

const (
	ownerAddr = "0x00000000000000000000000000000000000000aa"
	addrA     = "0x0000000000000000000000000000000000000001"
	addrB     = "0x0000000000000000000000000000000000000002"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))
	ledger := NewLedger(Dependencies{
		Policy:      ports.DefaultPolicy(),
		Owner:       ownerAddr,
		Audit:       store,
		Outbox:      store,
		Clock:       clock,
		IDGenerator: store,
	})
	return ledger, store
}

func grant(recipient string, amount int64, category ports.RewardCategory, week int, proofToken string) ports.Grant {
	return ports.Grant{
		Recipient: recipient,
		Amount:    amount,
		Category:  category,
		Week:      week,
		Proof:     proofToken,
	}
}

func TestAllocateCommitsBatchAndCreditsBalances(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	result, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "p1"),
		grant(addrB, 50, ports.CategoryTopQuality, 1, "p2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.GrantsApplied)
	assert.Equal(t, int64(100), result.TotalAllocated)
	assert.NotEmpty(t, result.BatchRef)

	stats := ledger.Stats()
	assert.Equal(t, int64(100), stats.TotalAllocated)
	assert.Equal(t, int64(1900), stats.RemainingBudget)
	assert.Equal(t, int64(50), ledger.AvailableRewards(addrA))

	records, err := ledger.GrantsForBatch(result.BatchRef)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, ports.GrantStatusPending, record.Status)
	}

	trail := store.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, ports.AuditKindAllocation, trail[0].Kind)
	assert.Equal(t, int64(0), trail[0].AllocatedBefore)
	assert.Equal(t, int64(100), trail[0].AllocatedAfter)
}

func TestAllocateRejectsNonOwner(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Allocate(context.Background(), addrA, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "p1"),
	})
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAllocateRejectsMalformedBatch(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Allocate(ctx, ownerAddr, nil)
	require.ErrorIs(t, err, domainerrors.ErrMalformedBatch)

	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant("not-an-address", 50, ports.CategoryTopQuality, 1, "p1"),
	})
	require.ErrorIs(t, err, domainerrors.ErrMalformedBatch)

	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 0, ports.CategoryTopQuality, 1, "p1"),
	})
	require.ErrorIs(t, err, domainerrors.ErrMalformedBatch)
}

func TestAllocateRejectsInvalidWeek(t *testing.T) {
	ledger, _ := newTestLedger(t)

	for _, week := range []int{0, 7, -1} {
		_, err := ledger.Allocate(context.Background(), ownerAddr, []ports.Grant{
			grant(addrA, 50, ports.CategoryTopQuality, week, "p1"),
		})
		require.ErrorIs(t, err, domainerrors.ErrInvalidWeek, "week %d", week)
	}
}

func TestAllocateRejectsUnknownCategory(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Allocate(context.Background(), ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.RewardCategory("MOST_CREATIVE"), 1, "p1"),
	})
	require.ErrorIs(t, err, domainerrors.ErrUnknownCategory)
}

func TestAllocateEnforcesWeeklyCategoryCap(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	over := make([]ports.Grant, 0, 11)
	for i := 0; i < 11; i++ {
		over = append(over, grant(
			fmt.Sprintf("0x%040x", i+1), 50, ports.CategoryTopQuality, 2, fmt.Sprintf("cap-p%d", i),
		))
	}
	_, err := ledger.Allocate(ctx, ownerAddr, over)
	require.ErrorIs(t, err, domainerrors.ErrCategoryCapExceeded)
	assert.Equal(t, int64(0), ledger.Stats().TotalAllocated)

	_, err = ledger.Allocate(ctx, ownerAddr, over[:10])
	require.NoError(t, err)
	assert.Equal(t, int64(500), ledger.Stats().TotalAllocated)
}

func TestAllocateCapIsPerWeek(t *testing.T) {
	ledger, _ := newTestLedger(t)

	// 10 quality grants in week 1 plus 10 in week 2 is fine in one batch.
	batch := make([]ports.Grant, 0, 20)
	for i := 0; i < 20; i++ {
		week := 1
		if i >= 10 {
			week = 2
		}
		batch = append(batch, grant(
			fmt.Sprintf("0x%040x", i+1), 50, ports.CategoryTopQuality, week, fmt.Sprintf("pw-p%d", i),
		))
	}
	_, err := ledger.Allocate(context.Background(), ownerAddr, batch)
	require.NoError(t, err)
}

func TestAllocateEnforcesBudgetCeiling(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	// 50 fast-completion grants of 20 plus 10 quality of 50 four weeks running
	// would pass 2000; drive the ledger to exactly the ceiling instead.
	fill := make([]ports.Grant, 0, 50)
	for i := 0; i < 50; i++ {
		fill = append(fill, grant(
			fmt.Sprintf("0x%040x", i+1), 20, ports.CategoryFastCompletion, 6, fmt.Sprintf("fc-p%d", i),
		))
	}
	_, err := ledger.Allocate(ctx, ownerAddr, fill) // 1000
	require.NoError(t, err)

	quality := func(week int, tag string) []ports.Grant {
		batch := make([]ports.Grant, 0, 10)
		for i := 0; i < 10; i++ {
			batch = append(batch, grant(
				fmt.Sprintf("0x%040x", i+1), 50, ports.CategoryTopQuality, week, fmt.Sprintf("%s-p%d", tag, i),
			))
		}
		return batch
	}
	_, err = ledger.Allocate(ctx, ownerAddr, quality(1, "q1")) // 1500
	require.NoError(t, err)
	_, err = ledger.Allocate(ctx, ownerAddr, quality(2, "q2")) // 2000
	require.NoError(t, err)

	stats := ledger.Stats()
	assert.Equal(t, int64(2000), stats.TotalAllocated)
	assert.Equal(t, int64(0), stats.RemainingBudget)

	// One more unit over the ceiling fails and changes nothing.
	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 20, ports.CategoryFastCompletion, 6, "overflow"),
	})
	require.ErrorIs(t, err, domainerrors.ErrBudgetExceeded)
	assert.Equal(t, int64(2000), ledger.Stats().TotalAllocated)
}

func TestAllocateRejectsBatchWhoseSumWouldWrap(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	// Two max-int64 grants sum to -2 if added naively; the ceiling check must
	// still reject the batch with nothing credited.
	_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, math.MaxInt64, ports.CategoryTopQuality, 1, "wrap-p1"),
		grant(addrB, math.MaxInt64, ports.CategoryTopQuality, 1, "wrap-p2"),
	})
	require.ErrorIs(t, err, domainerrors.ErrBudgetExceeded)

	stats := ledger.Stats()
	assert.Equal(t, int64(0), stats.TotalAllocated)
	assert.Equal(t, stats.MaxBudget, stats.RemainingBudget)
	assert.Equal(t, int64(0), ledger.AvailableRewards(addrA))

	// A single oversized grant fails the same way.
	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, math.MaxInt64, ports.CategoryTopQuality, 1, "wrap-p3"),
	})
	require.ErrorIs(t, err, domainerrors.ErrBudgetExceeded)

	// The rejected proofs were never registered.
	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "wrap-p1"),
	})
	require.NoError(t, err)
}

func TestAllocateRejectsDuplicateProofAcrossBatches(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "shared-proof"),
	})
	require.NoError(t, err)

	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrB, 50, ports.CategoryTopQuality, 1, "shared-proof"),
	})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateProof)

	var batchErr *domainerrors.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, "shared-proof", batchErr.Proof)

	// Exactly one credit happened.
	assert.Equal(t, int64(50), ledger.Stats().TotalAllocated)
	assert.Equal(t, int64(0), ledger.AvailableRewards(addrB))
}

func TestAllocateRejectsDuplicateProofWithinBatch(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Allocate(context.Background(), ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "same"),
		grant(addrB, 50, ports.CategoryTopQuality, 1, "same"),
	})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateProof)
	assert.Equal(t, int64(0), ledger.Stats().TotalAllocated)
}

func TestAllocateIsAllOrNothing(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Allocate(context.Background(), ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "good"),
		grant(addrB, 50, ports.CategoryTopQuality, 9, "bad-week"),
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidWeek)

	stats := ledger.Stats()
	assert.Equal(t, int64(0), stats.TotalAllocated)
	assert.Equal(t, int64(0), ledger.AvailableRewards(addrA))

	// The proof from the valid half of the rejected batch is still usable.
	_, err = ledger.Allocate(context.Background(), ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "good"),
	})
	require.NoError(t, err)
}

func TestClaimAllPaysOutAccumulatedBalanceOnce(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, ownerAddr, 500))

	_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "c1"),
	})
	require.NoError(t, err)
	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 20, ports.CategoryFastCompletion, 6, "c2"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(70), ledger.AvailableRewards(addrA))

	result, err := ledger.ClaimAll(ctx, addrA)
	require.NoError(t, err)
	assert.Equal(t, int64(70), result.AmountPaid)

	stats := ledger.Stats()
	assert.Equal(t, int64(70), stats.TotalPaid)
	assert.Equal(t, int64(430), stats.BalanceOnHand)
	assert.Equal(t, int64(0), ledger.AvailableRewards(addrA))
	assert.Equal(t, int64(70), ledger.Balance(addrA).Claimed)

	_, err = ledger.ClaimAll(ctx, addrA)
	require.ErrorIs(t, err, domainerrors.ErrNothingToClaim)

	trail := store.AuditTrail()
	last := trail[len(trail)-1]
	assert.Equal(t, ports.AuditKindClaim, last.Kind)
	assert.Equal(t, int64(0), last.PaidBefore)
	assert.Equal(t, int64(70), last.PaidAfter)
}

func TestClaimAllFailsWhenUnderfunded(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, addrB, 30))

	_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "uf1"),
	})
	require.NoError(t, err)

	_, err = ledger.ClaimAll(ctx, addrA)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	// Ledger state untouched: the claim can retry after a top-up.
	assert.Equal(t, int64(50), ledger.AvailableRewards(addrA))
	assert.Equal(t, int64(0), ledger.Stats().TotalPaid)

	require.NoError(t, ledger.Fund(ctx, ownerAddr, 100))
	result, err := ledger.ClaimAll(ctx, addrA)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.AmountPaid)
}

func TestFundRejectsNonPositiveAndWrappingAmounts(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.ErrorIs(t, ledger.Fund(ctx, ownerAddr, 0), domainerrors.ErrInvalidAmount)
	require.ErrorIs(t, ledger.Fund(ctx, ownerAddr, -5), domainerrors.ErrInvalidAmount)
	assert.Equal(t, int64(0), ledger.Stats().BalanceOnHand)

	require.NoError(t, ledger.Fund(ctx, ownerAddr, math.MaxInt64))
	require.ErrorIs(t, ledger.Fund(ctx, ownerAddr, 1), domainerrors.ErrInvalidAmount)
	assert.Equal(t, int64(math.MaxInt64), ledger.Stats().BalanceOnHand)
}

func TestPauseGatesAllocationAndClaims(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, ownerAddr, 100))

	_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "pg1"),
	})
	require.NoError(t, err)

	require.NoError(t, ledger.Pause(ownerAddr))

	_, err = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrB, 50, ports.CategoryTopQuality, 1, "pg2"),
	})
	require.ErrorIs(t, err, domainerrors.ErrCampaignPaused)

	_, err = ledger.ClaimAll(ctx, addrA)
	require.ErrorIs(t, err, domainerrors.ErrCampaignPaused)

	require.NoError(t, ledger.Unpause(ownerAddr))
	_, err = ledger.ClaimAll(ctx, addrA)
	require.NoError(t, err)
}

func TestPauseIsIdempotentAndOwnerOnly(t *testing.T) {
	ledger, _ := newTestLedger(t)

	require.ErrorIs(t, ledger.Pause(addrA), domainerrors.ErrUnauthorized)
	require.NoError(t, ledger.Pause(ownerAddr))
	require.NoError(t, ledger.Pause(ownerAddr)) // no-op success
	require.True(t, ledger.Stats().Paused)
	require.ErrorIs(t, ledger.Unpause(addrA), domainerrors.ErrUnauthorized)
	require.NoError(t, ledger.Unpause(ownerAddr))
	require.NoError(t, ledger.Unpause(ownerAddr))
	require.False(t, ledger.Stats().Paused)
}

func TestEmergencyWithdrawSweepsFundsAndStrandsBalances(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, ownerAddr, 300))

	_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "ew1"),
	})
	require.NoError(t, err)

	_, err = ledger.EmergencyWithdraw(ctx, addrA)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	swept, err := ledger.EmergencyWithdraw(ctx, ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(300), swept)

	// Earned balances survive the sweep but cannot be paid out.
	assert.Equal(t, int64(50), ledger.AvailableRewards(addrA))
	_, err = ledger.ClaimAll(ctx, addrA)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)
}

func TestMarkSettledTransitionsGrants(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	result, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "ms1"),
	})
	require.NoError(t, err)

	require.ErrorIs(t, ledger.MarkSettled(ctx, "no-such-batch", "0xdead"), domainerrors.ErrBatchNotFound)
	require.NoError(t, ledger.MarkSettled(ctx, result.BatchRef, "0xabc123"))

	records, err := ledger.GrantsForBatch(result.BatchRef)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ports.GrantStatusSettled, records[0].Status)
	assert.Equal(t, "0xabc123", records[0].TxHash)
	require.NotNil(t, records[0].SettledAt)
}

func TestBudgetInvariantHoldsAcrossMixedSequence(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, ownerAddr, 2000))

	checkInvariant := func() {
		stats := ledger.Stats()
		require.GreaterOrEqual(t, stats.TotalPaid, int64(0))
		require.LessOrEqual(t, stats.TotalPaid, stats.TotalAllocated)
		require.LessOrEqual(t, stats.TotalAllocated, stats.MaxBudget)
	}

	for week := 1; week <= 6; week++ {
		batch := make([]ports.Grant, 0, 5)
		for i := 0; i < 5; i++ {
			batch = append(batch, grant(
				fmt.Sprintf("0x%040x", i+1), 50, ports.CategoryTopQuality, week, fmt.Sprintf("w%d-p%d", week, i),
			))
		}
		_, err := ledger.Allocate(ctx, ownerAddr, batch)
		require.NoError(t, err)
		checkInvariant()

		_, err = ledger.ClaimAll(ctx, fmt.Sprintf("0x%040x", week))
		if err != nil {
			require.True(t, errors.Is(err, domainerrors.ErrNothingToClaim))
		}
		checkInvariant()
	}
}

func TestConcurrentAllocationsRespectBudgetCeiling(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	// 60 racing single-grant batches of 50 jointly ask for 3000 against the
	// 2000 ceiling. Exactly 40 commit, whichever ones win the race.
	const attempts = 60
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Allocate(ctx, ownerAddr, []ports.Grant{
				grant(fmt.Sprintf("0x%040x", i+1), 50, ports.CategoryTopQuality, 1, fmt.Sprintf("race-p%d", i)),
			})
		}(i)
	}
	wg.Wait()

	committed := 0
	for _, err := range errs {
		if err == nil {
			committed++
			continue
		}
		assert.ErrorIs(t, err, domainerrors.ErrBudgetExceeded)
	}
	assert.Equal(t, 40, committed)

	stats := ledger.Stats()
	assert.Equal(t, int64(2000), stats.TotalAllocated)
	assert.Equal(t, int64(0), stats.RemainingBudget)
}

func TestConcurrentProofReplaysAndClaimsCommitOnce(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, ownerAddr, 2000))

	// Ten goroutines replay the same proof; exactly one allocation lands.
	var wg sync.WaitGroup
	var committed atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Allocate(ctx, ownerAddr, []ports.Grant{
				grant(addrA, 50, ports.CategoryTopQuality, 1, "contested"),
			})
			if err == nil {
				committed.Add(1)
				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrDuplicateProof)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), committed.Load())
	assert.Equal(t, int64(50), ledger.Stats().TotalAllocated)

	// Racing ClaimAll calls pay the balance exactly once.
	var paid atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := ledger.ClaimAll(ctx, addrA)
			if err == nil {
				paid.Add(result.AmountPaid)
				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrNothingToClaim)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), paid.Load())
	assert.Equal(t, int64(50), ledger.Stats().TotalPaid)
	assert.Equal(t, int64(0), ledger.AvailableRewards(addrA))
}

// End-to-end walk mirroring the campaign runbook: fund, allocate week one
// winners, first claim, replay rejection.
func TestCampaignEndToEnd(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.Fund(ctx, ownerAddr, 2000))

	batch := []ports.Grant{
		grant(addrA, 50, ports.CategoryTopQuality, 1, "p1"),
		grant(addrB, 50, ports.CategoryTopQuality, 1, "p2"),
	}
	_, err := ledger.Allocate(ctx, ownerAddr, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger.Stats().TotalAllocated)
	assert.Equal(t, int64(50), ledger.AvailableRewards(addrA))

	result, err := ledger.ClaimAll(ctx, addrA)
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.AmountPaid)
	assert.Equal(t, int64(50), ledger.Stats().TotalPaid)
	assert.Equal(t, int64(0), ledger.AvailableRewards(addrA))

	before := ledger.Stats()
	_, err = ledger.Allocate(ctx, ownerAddr, batch)
	require.ErrorIs(t, err, domainerrors.ErrDuplicateProof)
	assert.Equal(t, before, ledger.Stats())
}
