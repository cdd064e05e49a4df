package ports

import (
	"context"
	"time"
)

// AuditLog is one justified admin action (pause, allocation, review override).
type AuditLog struct {
	AuditID       string
	ActorID       string
	Action        string
	TargetID      string
	Justification string
	OccurredAt    time.Time
	SourceIP      string
	CorrelationID string
}

type Repository interface {
	AppendAuditLog(ctx context.Context, row AuditLog) error
	ListRecentAuditLogs(ctx context.Context, limit int) ([]AuditLog, error)
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseBody []byte, at time.Time) error
}

type Clock interface {
	Now() time.Time
}

// LedgerView is the dashboard's snapshot of the reward ledger.
type LedgerView struct {
	MaxBudget       int64
	TotalAllocated  int64
	TotalPaid       int64
	RemainingBudget int64
	BalanceOnHand   int64
	Paused          bool
}

type ProgressView struct {
	TotalParticipants int
	Graduates         int
	AverageWeeks      float64
	CompletionsByWeek map[int]int
}

// Read-only query ports over the other contexts; the dashboard composes,
// never writes.
type LedgerSource interface {
	LedgerStats(ctx context.Context) (LedgerView, error)
}

type SubmissionSource interface {
	WeeklyCounts(ctx context.Context) (map[int]int, error)
	CountryDistribution(ctx context.Context) (map[string]int, error)
}

type ProgressSource interface {
	CampaignStats(ctx context.Context) (ProgressView, error)
}
