package llm

import "errors"

var (
	// ErrUnavailable indicates the completion service is unreachable.
	ErrUnavailable = errors.New("completion service unavailable")

	// ErrTimeout indicates the completion request exceeded the configured
	// timeout.
	ErrTimeout = errors.New("completion request timed out")

	// ErrInvalidOutput indicates the completion text could not be parsed into
	// the expected structured format.
	ErrInvalidOutput = errors.New("invalid completion output format")
)
