package ports

import (
	"context"

	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

// AllocationGrant is one escrow-bound grant from a committed ledger batch.
type AllocationGrant struct {
	GrantID   string
	Recipient string
	Amount    int64
	Category  rewardports.RewardCategory
	Week      int
	Proof     string
}

type AllocationBatch struct {
	BatchRef string
	Grants   []AllocationGrant
}

// EscrowClient submits campaign money movements to the escrow contract.
// Implementations must be safe for concurrent use by the worker pool.
type EscrowClient interface {
	SubmitAllocation(ctx context.Context, batch AllocationBatch) (txHash string, err error)
	SubmitPayout(ctx context.Context, recipient string, amount int64) (txHash string, err error)
	FundEscrow(ctx context.Context, amount int64) (txHash string, err error)
}

// LedgerConfirmer is the slice of the reward ledger the settler needs: confirm
// a settled batch and read back its committed records for the mirror.
type LedgerConfirmer interface {
	MarkSettled(ctx context.Context, batchRef string, txHash string) error
	GrantsForBatch(batchRef string) ([]rewardports.GrantRecord, error)
}

// MirrorStore re-exports the ledger's read-mirror port; the settler keeps the
// mirror in step with escrow confirmations.
type MirrorStore = rewardports.MirrorStore

type EventEnvelope = rewardports.EventEnvelope

// BatchAllocatedEvent is the payload of reward.batch_allocated.
type BatchAllocatedEvent struct {
	BatchRef       string                `json:"batch_ref"`
	GrantsApplied  int                   `json:"grants_applied"`
	TotalAllocated int64                 `json:"total_allocated"`
	AllocatedAt    string                `json:"allocated_at"`
	Grants         []BatchAllocatedGrant `json:"grants"`
}

type BatchAllocatedGrant struct {
	GrantID   string `json:"grant_id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Category  string `json:"category"`
	Week      int    `json:"week"`
	Proof     string `json:"proof"`
}

// ClaimedEvent is the payload of reward.claimed.
type ClaimedEvent struct {
	Recipient  string `json:"recipient"`
	AmountPaid int64  `json:"amount_paid"`
	PaidAt     string `json:"paid_at"`
}

const (
	TopicBatchAllocated = "reward.batch_allocated"
	TopicClaimed        = "reward.claimed"
)
