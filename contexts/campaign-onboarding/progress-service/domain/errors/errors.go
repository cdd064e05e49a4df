package errors

import "errors"

var (
	ErrInvalidWeek      = errors.New("week outside campaign range")
	ErrProgressNotFound = errors.New("progress not found")
)
