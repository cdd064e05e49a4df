package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedBatch      = errors.New("reward batch is malformed")
	ErrInvalidWeek         = errors.New("week number must be between 1 and 6")
	ErrUnknownCategory     = errors.New("unknown reward category")
	ErrCategoryCapExceeded = errors.New("category weekly grant cap exceeded")
	ErrBudgetExceeded      = errors.New("allocation exceeds maximum campaign budget")
	ErrDuplicateProof      = errors.New("proof hash already used")
	ErrCampaignPaused      = errors.New("campaign is paused")
	ErrNothingToClaim      = errors.New("no rewards to claim")
	ErrInsufficientFunds   = errors.New("contract balance cannot cover claim")
	ErrInvalidAmount       = errors.New("amount must be a positive value the ledger can account for")
	ErrUnauthorized        = errors.New("caller is not the campaign owner")
	ErrLedgerHalted        = errors.New("ledger halted after invariant violation")
	ErrBatchNotFound       = errors.New("allocation batch not found")

	// ErrOverpayInvariant is defensive and should be unreachable. Observing it
	// means the ledger accounting itself is broken; the ledger halts.
	ErrOverpayInvariant = errors.New("total paid would exceed total allocated")
)

// BatchError pins a batch-level rejection to the grant that caused it so the
// admin caller can correct and resubmit.
type BatchError struct {
	Index  int
	Proof  string
	Reason error
}

func (e *BatchError) Error() string {
	if e.Proof != "" {
		return fmt.Sprintf("grant %d (proof %s): %v", e.Index, e.Proof, e.Reason)
	}
	return fmt.Sprintf("grant %d: %v", e.Index, e.Reason)
}

func (e *BatchError) Unwrap() error { return e.Reason }
