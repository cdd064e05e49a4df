package errors

import "errors"

var (
	// ErrScorerNotImplemented is returned by ranking categories that need a
	// real scoring signal wired in. Placeholder scores are worse than an
	// explicit failure here: whatever ranks winners decides who gets paid.
	ErrScorerNotImplemented = errors.New("scorer not implemented")

	ErrUnknownCategory = errors.New("unknown ranking category")
	ErrInvalidWeek     = errors.New("week outside campaign range")
)
