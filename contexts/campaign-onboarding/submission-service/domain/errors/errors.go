package errors

import "errors"

var (
	ErrInvalidSubmissionInput = errors.New("invalid submission input")
	ErrDuplicateSubmission    = errors.New("submission already exists for this week")
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrInvalidReviewStatus    = errors.New("invalid review status")
)
