package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// timeSleep is a wrapper for time.After that can be overridden in tests.
// It returns a channel that receives after the given duration.
//
//nolint:gochecknoglobals // Required for test mocking
var timeSleep = func(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// isRetryable determines whether an error should be retried.
// Returns false for non-retryable errors (context errors, auth errors,
// format errors). Returns true for transient errors (network, rate
// limits, provider 5xx).
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A classified status error knows whether it is transient.
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.retryable()
	}

	errStr := strings.ToLower(err.Error())

	// Authentication errors are not retryable
	if strings.Contains(errStr, "authentication") ||
		strings.Contains(errStr, "api key") ||
		strings.Contains(errStr, "unauthorized") {
		return false
	}

	// Format and parse errors are not retryable
	if strings.Contains(errStr, "expected format") ||
		strings.Contains(errStr, "failed to parse json") {
		return false
	}

	// All other errors are considered transient and retryable
	// (network errors, connection resets, timeouts at the transport layer)
	return true
}
