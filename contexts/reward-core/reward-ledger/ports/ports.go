package ports

import (
	"context"
	"time"

	contractsv1 "github.com/0xandee/SpeedRunLisk/contracts/gen/events/v1"
)

// RewardCategory mirrors the escrow contract's reward type enum.
type RewardCategory string

const (
	CategoryTopQuality     RewardCategory = "TOP_QUALITY"
	CategoryTopEngagement  RewardCategory = "TOP_ENGAGEMENT"
	CategoryFastCompletion RewardCategory = "FAST_COMPLETION"
)

// CategoryRule fixes the per-grant amount and the weekly grant cap for one
// category. Amounts are whole USD units.
type CategoryRule struct {
	Amount    int64
	WeeklyCap int
}

// Policy is the immutable campaign configuration handed to the ledger at
// construction. Multiple campaign instances can coexist with different
// policies; nothing here is process-global.
type Policy struct {
	MaxBudget  int64
	FirstWeek  int
	LastWeek   int
	Categories map[RewardCategory]CategoryRule
}

// DefaultPolicy is the six-week campaign shipped with Speedrun Lisk:
// a 2000 USD ceiling, 10x50 for quality and engagement per week and
// 50x20 for fast completion.
func DefaultPolicy() Policy {
	return Policy{
		MaxBudget: 2000,
		FirstWeek: 1,
		LastWeek:  6,
		Categories: map[RewardCategory]CategoryRule{
			CategoryTopQuality:     {Amount: 50, WeeklyCap: 10},
			CategoryTopEngagement:  {Amount: 50, WeeklyCap: 10},
			CategoryFastCompletion: {Amount: 20, WeeklyCap: 50},
		},
	}
}

type Grant struct {
	Recipient string
	Amount    int64
	Category  RewardCategory
	Week      int
	Proof     string
}

type GrantStatus string

const (
	GrantStatusPending GrantStatus = "PENDING"
	GrantStatusSettled GrantStatus = "SETTLED"
)

// GrantRecord is a committed grant awaiting (or past) external settlement.
type GrantRecord struct {
	GrantID     string
	BatchRef    string
	Recipient   string
	Amount      int64
	Category    RewardCategory
	Week        int
	Proof       string
	Status      GrantStatus
	TxHash      string
	AllocatedAt time.Time
	SettledAt   *time.Time
}

type BatchResult struct {
	BatchRef       string
	GrantsApplied  int
	TotalAllocated int64
	AllocatedAt    time.Time
}

type ClaimResult struct {
	Recipient  string
	AmountPaid int64
	PaidAt     time.Time
}

// LedgerStats is a consistent snapshot of the budget ledger. BalanceOnHand is
// the funded backing value, distinct from the declared budget ceiling.
type LedgerStats struct {
	MaxBudget       int64
	TotalAllocated  int64
	TotalPaid       int64
	RemainingBudget int64
	BalanceOnHand   int64
	Paused          bool
}

type RecipientBalance struct {
	Recipient string
	Earned    int64
	Claimable int64
	Claimed   int64
}

// AuditRecord is one immutable entry in the append-only reconciliation log.
// Before/after totals make every committed mutation independently checkable.
type AuditRecord struct {
	RecordID        string
	Kind            string
	Ref             string
	Actor           string
	Amount          int64
	AllocatedBefore int64
	AllocatedAfter  int64
	PaidBefore      int64
	PaidAfter       int64
	BalanceBefore   int64
	BalanceAfter    int64
	OccurredAt      time.Time
}

const (
	AuditKindAllocation        = "allocation"
	AuditKindClaim             = "claim"
	AuditKindFund              = "fund"
	AuditKindEmergencyWithdraw = "emergency_withdraw"
)

type AuditSink interface {
	AppendAudit(ctx context.Context, record AuditRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// MirrorStore is the off-chain read mirror of committed grants. It is a
// read-through projection rebuilt from ledger events, never an independent
// writer of ledger state.
type MirrorStore interface {
	UpsertGrant(ctx context.Context, record GrantRecord) error
	MarkGrantsPaid(ctx context.Context, recipient string, paidAt time.Time, txHash string) error
	ListGrantsByRecipient(ctx context.Context, recipient string) ([]GrantRecord, error)
	ListGrantsByWeek(ctx context.Context, week int) ([]GrantRecord, error)
}
