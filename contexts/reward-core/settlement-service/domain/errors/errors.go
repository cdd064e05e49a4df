package errors

import "errors"

var (
	// ErrEscrowUnavailable signals a transient escrow failure; the settler
	// retries up to its attempt budget.
	ErrEscrowUnavailable = errors.New("escrow unavailable")

	// ErrRetriesExhausted means the batch stays pending in the ledger and will
	// be picked up again on the next relay of the same event.
	ErrRetriesExhausted = errors.New("escrow submission retries exhausted")

	ErrMalformedEvent = errors.New("malformed settlement event")
	ErrUnknownEvent   = errors.New("unknown settlement event type")
)
