package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

// Ledger is the campaign reward aggregate: proof registry, budget ledger,
// recipient balances and the pause gate live behind one mutex. Every Allocate
// and ClaimAll runs as a single critical section so the budget ceiling and
// proof uniqueness hold under concurrent batches.
type Ledger struct {
	policy ports.Policy
	owner  string

	audit  ports.AuditSink
	outbox ports.OutboxWriter
	clock  ports.Clock
	idGen  ports.IDGenerator
	logger *slog.Logger

	mu             sync.RWMutex
	paused         bool
	halted         bool
	balanceOnHand  int64
	totalAllocated int64
	totalPaid      int64
	usedProofs     map[string]struct{}
	balances       map[string]*recipientBalance
	grants         map[string][]*ports.GrantRecord // batchRef -> grants
}

type recipientBalance struct {
	earned    int64
	claimable int64
	claimed   int64
}

type Dependencies struct {
	Policy      ports.Policy
	Owner       string
	Audit       ports.AuditSink
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewLedger(deps Dependencies) *Ledger {
	policy := deps.Policy
	if policy.Categories == nil {
		policy = ports.DefaultPolicy()
	}
	return &Ledger{
		policy:     policy,
		owner:      normalizeAddress(deps.Owner),
		audit:      deps.Audit,
		outbox:     deps.Outbox,
		clock:      deps.Clock,
		idGen:      deps.IDGenerator,
		logger:     deps.Logger,
		usedProofs: make(map[string]struct{}),
		balances:   make(map[string]*recipientBalance),
		grants:     make(map[string][]*ports.GrantRecord),
	}
}

// Allocate validates and commits a batch of grants all-or-nothing. Validation
// runs to completion before any state is touched; there is no rollback path
// because nothing is mutated until every check has passed.
func (l *Ledger) Allocate(ctx context.Context, actor string, batch []ports.Grant) (ports.BatchResult, error) {
	if normalizeAddress(actor) != l.owner {
		return ports.BatchResult{}, domainerrors.ErrUnauthorized
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.halted {
		return ports.BatchResult{}, domainerrors.ErrLedgerHalted
	}
	if err := l.validateBatchLocked(batch); err != nil {
		return ports.BatchResult{}, err
	}
	if l.paused {
		return ports.BatchResult{}, domainerrors.ErrCampaignPaused
	}

	now := l.now()
	batchRef := batchReference(batch)
	var total int64
	for _, grant := range batch {
		total += grant.Amount
	}

	allocatedBefore := l.totalAllocated
	records := make([]*ports.GrantRecord, 0, len(batch))
	for _, grant := range batch {
		l.usedProofs[grant.Proof] = struct{}{}
		balance := l.balanceFor(grant.Recipient)
		balance.earned += grant.Amount
		balance.claimable += grant.Amount
		records = append(records, &ports.GrantRecord{
			GrantID:     fmt.Sprintf("%s:%s", batchRef, grant.Proof),
			BatchRef:    batchRef,
			Recipient:   normalizeAddress(grant.Recipient),
			Amount:      grant.Amount,
			Category:    grant.Category,
			Week:        grant.Week,
			Proof:       grant.Proof,
			Status:      ports.GrantStatusPending,
			AllocatedAt: now,
		})
	}
	// Single aggregate reservation, not per-grant.
	l.totalAllocated += total
	l.grants[batchRef] = records

	result := ports.BatchResult{
		BatchRef:       batchRef,
		GrantsApplied:  len(batch),
		TotalAllocated: total,
		AllocatedAt:    now,
	}

	l.appendAudit(ctx, ports.AuditRecord{
		Kind:            ports.AuditKindAllocation,
		Ref:             batchRef,
		Actor:           normalizeAddress(actor),
		Amount:          total,
		AllocatedBefore: allocatedBefore,
		AllocatedAfter:  l.totalAllocated,
		PaidBefore:      l.totalPaid,
		PaidAfter:       l.totalPaid,
		BalanceBefore:   l.balanceOnHand,
		BalanceAfter:    l.balanceOnHand,
		OccurredAt:      now,
	})
	l.appendBatchAllocatedOutbox(ctx, result, records)

	l.logInfo("reward batch allocated",
		"event", "reward_batch_allocated",
		"batch_ref", batchRef,
		"grants", len(batch),
		"total_amount", total,
		"total_allocated", l.totalAllocated,
	)
	return result, nil
}

// validateBatchLocked applies the rejection checks in their contractual order.
// The whole batch fails on the first offending grant.
func (l *Ledger) validateBatchLocked(batch []ports.Grant) error {
	if len(batch) == 0 {
		return domainerrors.ErrMalformedBatch
	}
	for i, grant := range batch {
		if !common.IsHexAddress(grant.Recipient) || grant.Amount <= 0 || strings.TrimSpace(grant.Proof) == "" {
			return &domainerrors.BatchError{Index: i, Proof: grant.Proof, Reason: domainerrors.ErrMalformedBatch}
		}
	}
	for i, grant := range batch {
		if grant.Week < l.policy.FirstWeek || grant.Week > l.policy.LastWeek {
			return &domainerrors.BatchError{Index: i, Proof: grant.Proof, Reason: domainerrors.ErrInvalidWeek}
		}
	}
	for i, grant := range batch {
		if _, ok := l.policy.Categories[grant.Category]; !ok {
			return &domainerrors.BatchError{Index: i, Proof: grant.Proof, Reason: domainerrors.ErrUnknownCategory}
		}
	}
	// The caller already truncates to top-N but caps are re-validated here:
	// policy drift upstream must not overrun the weekly grant counts.
	type weekCategory struct {
		week     int
		category ports.RewardCategory
	}
	counts := make(map[weekCategory]int)
	for i, grant := range batch {
		key := weekCategory{week: grant.Week, category: grant.Category}
		counts[key]++
		if counts[key] > l.policy.Categories[grant.Category].WeeklyCap {
			return &domainerrors.BatchError{Index: i, Proof: grant.Proof, Reason: domainerrors.ErrCategoryCapExceeded}
		}
	}
	// Grant amounts are individually positive but their int64 sum can wrap.
	// Spend the remaining headroom grant by grant instead of summing first.
	headroom := l.policy.MaxBudget - l.totalAllocated
	for _, grant := range batch {
		if grant.Amount > headroom {
			return domainerrors.ErrBudgetExceeded
		}
		headroom -= grant.Amount
	}
	seen := make(map[string]struct{}, len(batch))
	for i, grant := range batch {
		if _, used := l.usedProofs[grant.Proof]; used {
			return &domainerrors.BatchError{Index: i, Proof: grant.Proof, Reason: domainerrors.ErrDuplicateProof}
		}
		if _, dup := seen[grant.Proof]; dup {
			return &domainerrors.BatchError{Index: i, Proof: grant.Proof, Reason: domainerrors.ErrDuplicateProof}
		}
		seen[grant.Proof] = struct{}{}
	}
	return nil
}

// ClaimAll pays out the recipient's entire claimable balance exactly once.
func (l *Ledger) ClaimAll(ctx context.Context, recipient string) (ports.ClaimResult, error) {
	addr := normalizeAddress(recipient)
	if !common.IsHexAddress(addr) {
		return ports.ClaimResult{}, domainerrors.ErrNothingToClaim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.halted {
		return ports.ClaimResult{}, domainerrors.ErrLedgerHalted
	}
	if l.paused {
		return ports.ClaimResult{}, domainerrors.ErrCampaignPaused
	}

	balance, ok := l.balances[addr]
	if !ok || balance.claimable == 0 {
		return ports.ClaimResult{}, domainerrors.ErrNothingToClaim
	}
	amount := balance.claimable
	if amount > l.balanceOnHand {
		return ports.ClaimResult{}, domainerrors.ErrInsufficientFunds
	}
	if l.totalPaid+amount > l.totalAllocated {
		// Unreachable by construction. If it fires the accounting is corrupt
		// and no further mutation is safe.
		l.halted = true
		l.logError("overpay invariant violated, halting ledger",
			"event", "reward_ledger_halted",
			"recipient", addr,
			"claimable", amount,
			"total_paid", l.totalPaid,
			"total_allocated", l.totalAllocated,
		)
		return ports.ClaimResult{}, domainerrors.ErrOverpayInvariant
	}

	now := l.now()
	paidBefore := l.totalPaid
	balanceBefore := l.balanceOnHand
	balance.claimable = 0
	balance.claimed += amount
	l.totalPaid += amount
	l.balanceOnHand -= amount

	result := ports.ClaimResult{Recipient: addr, AmountPaid: amount, PaidAt: now}

	l.appendAudit(ctx, ports.AuditRecord{
		Kind:            ports.AuditKindClaim,
		Ref:             addr,
		Actor:           addr,
		Amount:          amount,
		AllocatedBefore: l.totalAllocated,
		AllocatedAfter:  l.totalAllocated,
		PaidBefore:      paidBefore,
		PaidAfter:       l.totalPaid,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    l.balanceOnHand,
		OccurredAt:      now,
	})
	l.appendClaimedOutbox(ctx, result)

	l.logInfo("rewards claimed",
		"event", "reward_claimed",
		"recipient", addr,
		"amount", amount,
		"total_paid", l.totalPaid,
	)
	return result, nil
}

// Pause blocks allocation and claims. Pausing an already-paused campaign is a
// no-op success.
func (l *Ledger) Pause(actor string) error {
	if normalizeAddress(actor) != l.owner {
		return domainerrors.ErrUnauthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.paused {
		return nil
	}
	l.paused = true
	l.logInfo("campaign paused", "event", "campaign_paused", "actor", normalizeAddress(actor))
	return nil
}

func (l *Ledger) Unpause(actor string) error {
	if normalizeAddress(actor) != l.owner {
		return domainerrors.ErrUnauthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.paused {
		return nil
	}
	l.paused = false
	l.logInfo("campaign unpaused", "event", "campaign_unpaused", "actor", normalizeAddress(actor))
	return nil
}

// Fund adds backing value for future claims. Anyone may fund; the declared
// budget ceiling is unchanged.
func (l *Ledger) Fund(ctx context.Context, actor string, amount int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.halted {
		return domainerrors.ErrLedgerHalted
	}
	// Funds on hand must never wrap int64.
	if amount > math.MaxInt64-l.balanceOnHand {
		return domainerrors.ErrInvalidAmount
	}

	now := l.now()
	before := l.balanceOnHand
	l.balanceOnHand += amount

	l.appendAudit(ctx, ports.AuditRecord{
		Kind:            ports.AuditKindFund,
		Ref:             normalizeAddress(actor),
		Actor:           normalizeAddress(actor),
		Amount:          amount,
		AllocatedBefore: l.totalAllocated,
		AllocatedAfter:  l.totalAllocated,
		PaidBefore:      l.totalPaid,
		PaidAfter:       l.totalPaid,
		BalanceBefore:   before,
		BalanceAfter:    l.balanceOnHand,
		OccurredAt:      now,
	})
	l.logInfo("campaign funded",
		"event", "campaign_funded",
		"actor", normalizeAddress(actor),
		"amount", amount,
		"balance_on_hand", l.balanceOnHand,
	)
	return nil
}

// EmergencyWithdraw sweeps all funds on hand, bypassing claim accounting.
// Break-glass only: earned-but-unclaimed balances are intentionally stranded
// until the campaign is refunded.
func (l *Ledger) EmergencyWithdraw(ctx context.Context, actor string) (int64, error) {
	if normalizeAddress(actor) != l.owner {
		return 0, domainerrors.ErrUnauthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	swept := l.balanceOnHand
	l.balanceOnHand = 0

	l.appendAudit(ctx, ports.AuditRecord{
		Kind:            ports.AuditKindEmergencyWithdraw,
		Ref:             normalizeAddress(actor),
		Actor:           normalizeAddress(actor),
		Amount:          swept,
		AllocatedBefore: l.totalAllocated,
		AllocatedAfter:  l.totalAllocated,
		PaidBefore:      l.totalPaid,
		PaidAfter:       l.totalPaid,
		BalanceBefore:   swept,
		BalanceAfter:    0,
		OccurredAt:      now,
	})
	l.logWarn("emergency withdrawal",
		"event", "campaign_emergency_withdrawal",
		"actor", normalizeAddress(actor),
		"amount", swept,
	)
	return swept, nil
}

// MarkSettled records external escrow confirmation for a committed batch.
// A batch that never confirms stays PENDING; reservations are not reverted.
func (l *Ledger) MarkSettled(ctx context.Context, batchRef string, txHash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, ok := l.grants[strings.TrimSpace(batchRef)]
	if !ok {
		return domainerrors.ErrBatchNotFound
	}
	now := l.now()
	for _, record := range records {
		if record.Status == ports.GrantStatusSettled {
			continue
		}
		record.Status = ports.GrantStatusSettled
		record.TxHash = strings.TrimSpace(txHash)
		settledAt := now
		record.SettledAt = &settledAt
	}
	l.logInfo("batch settled",
		"event", "reward_batch_settled",
		"batch_ref", strings.TrimSpace(batchRef),
		"tx_hash", strings.TrimSpace(txHash),
	)
	return nil
}

// Stats returns a consistent snapshot without blocking writers for long.
func (l *Ledger) Stats() ports.LedgerStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return ports.LedgerStats{
		MaxBudget:       l.policy.MaxBudget,
		TotalAllocated:  l.totalAllocated,
		TotalPaid:       l.totalPaid,
		RemainingBudget: l.policy.MaxBudget - l.totalAllocated,
		BalanceOnHand:   l.balanceOnHand,
		Paused:          l.paused,
	}
}

func (l *Ledger) AvailableRewards(recipient string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, ok := l.balances[normalizeAddress(recipient)]
	if !ok {
		return 0
	}
	return balance.claimable
}

func (l *Ledger) Balance(recipient string) ports.RecipientBalance {
	addr := normalizeAddress(recipient)
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, ok := l.balances[addr]
	if !ok {
		return ports.RecipientBalance{Recipient: addr}
	}
	return ports.RecipientBalance{
		Recipient: addr,
		Earned:    balance.earned,
		Claimable: balance.claimable,
		Claimed:   balance.claimed,
	}
}

// GrantsForBatch returns copies of the committed grant records for a batch.
func (l *Ledger) GrantsForBatch(batchRef string) ([]ports.GrantRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records, ok := l.grants[strings.TrimSpace(batchRef)]
	if !ok {
		return nil, domainerrors.ErrBatchNotFound
	}
	out := make([]ports.GrantRecord, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}
	return out, nil
}

func (l *Ledger) Owner() string { return l.owner }

func (l *Ledger) balanceFor(recipient string) *recipientBalance {
	addr := normalizeAddress(recipient)
	balance, ok := l.balances[addr]
	if !ok {
		balance = &recipientBalance{}
		l.balances[addr] = balance
	}
	return balance
}

func (l *Ledger) appendAudit(ctx context.Context, record ports.AuditRecord) {
	if l.audit == nil {
		return
	}
	if l.idGen != nil {
		if id, err := l.idGen.NewID(ctx); err == nil {
			record.RecordID = id
		}
	}
	if record.RecordID == "" {
		record.RecordID = fmt.Sprintf("%s:%d", record.Kind, record.OccurredAt.UnixNano())
	}
	if err := l.audit.AppendAudit(ctx, record); err != nil {
		l.logError("audit append failed",
			"event", "reward_audit_append_failed",
			"kind", record.Kind,
			"ref", record.Ref,
			"error", err.Error(),
		)
	}
}

func (l *Ledger) appendBatchAllocatedOutbox(ctx context.Context, result ports.BatchResult, records []*ports.GrantRecord) {
	if l.outbox == nil {
		return
	}
	grants := make([]map[string]any, 0, len(records))
	for _, record := range records {
		grants = append(grants, map[string]any{
			"grant_id":  record.GrantID,
			"recipient": record.Recipient,
			"amount":    record.Amount,
			"category":  string(record.Category),
			"week":      record.Week,
			"proof":     record.Proof,
		})
	}
	data, err := json.Marshal(map[string]any{
		"batch_ref":       result.BatchRef,
		"grants_applied":  result.GrantsApplied,
		"total_allocated": result.TotalAllocated,
		"allocated_at":    result.AllocatedAt.UTC().Format(time.RFC3339),
		"grants":          grants,
	})
	if err != nil {
		return
	}
	l.appendOutbox(ctx, "reward.batch_allocated", result.BatchRef, data)
}

func (l *Ledger) appendClaimedOutbox(ctx context.Context, result ports.ClaimResult) {
	if l.outbox == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"recipient":   result.Recipient,
		"amount_paid": result.AmountPaid,
		"paid_at":     result.PaidAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	l.appendOutbox(ctx, "reward.claimed", result.Recipient, data)
}

func (l *Ledger) appendOutbox(ctx context.Context, eventType string, partitionKey string, data []byte) {
	eventID := ""
	if l.idGen != nil {
		if id, err := l.idGen.NewID(ctx); err == nil {
			eventID = id
		}
	}
	if eventID == "" {
		eventID = fmt.Sprintf("%s:%s", eventType, partitionKey)
	}
	err := l.outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       l.now(),
		SourceService:    "reward-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "batch_ref",
		PartitionKey:     partitionKey,
		Data:             data,
	})
	if err != nil {
		l.logError("outbox append failed",
			"event", "reward_outbox_append_failed",
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (l *Ledger) now() time.Time {
	if l.clock == nil {
		return time.Now().UTC()
	}
	return l.clock.Now().UTC()
}

func (l *Ledger) logInfo(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, append([]any{"module", "reward-core/reward-ledger", "layer", "application"}, args...)...)
	}
}

func (l *Ledger) logWarn(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(msg, append([]any{"module", "reward-core/reward-ledger", "layer", "application"}, args...)...)
	}
}

func (l *Ledger) logError(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Error(msg, append([]any{"module", "reward-core/reward-ledger", "layer", "application"}, args...)...)
	}
}

// batchReference is the audit handle for a committed batch: a content hash of
// the grants, stable across retries of the same payload.
func batchReference(batch []ports.Grant) string {
	entries := make([]map[string]any, 0, len(batch))
	for _, grant := range batch {
		entries = append(entries, map[string]any{
			"recipient": normalizeAddress(grant.Recipient),
			"amount":    grant.Amount,
			"category":  string(grant.Category),
			"week":      grant.Week,
			"proof":     grant.Proof,
		})
	}
	raw, _ := json.Marshal(entries)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
