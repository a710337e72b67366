// This file implements shared retry logic for hub API operations.
package hub

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/constants"
)

// RetryConfig defines retry behavior for hub API operations.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff delay.
	MaxDelay time.Duration
	// Multiplier is the backoff multiplication factor.
	Multiplier float64
}

// DefaultRetryConfig returns the default retry configuration for API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  constants.MaxRetryAttempts,
		InitialDelay: constants.InitialBackoff,
		MaxDelay:     30 * time.Second,
		Multiplier:   float64(constants.BackoffMultiplier),
	}
}

// RetryableOperation defines the interface for operations that can be retried.
// Implementations provide the attempt logic and retry decision making.
type RetryableOperation[R any] interface {
	// Attempt performs a single attempt and returns the result.
	// success indicates if the attempt succeeded.
	Attempt(ctx context.Context, attempt int) (result R, success bool, err error)

	// ShouldRetry returns true if the operation should be retried given the error.
	ShouldRetry(err error) bool

	// OnRetryWait is called before waiting for the next retry (optional logging/progress).
	OnRetryWait(attempt int, delay time.Duration)
}

// ExecuteWithRetry executes an operation with retry logic based on the provided config.
// Returns the result, total attempts made, and any final error.
func ExecuteWithRetry[R any](
	ctx context.Context,
	config RetryConfig,
	op RetryableOperation[R],
	_ zerolog.Logger,
) (result R, attempts int, finalErr error) {
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attempts = attempt

		res, success, err := op.Attempt(ctx, attempt)
		if success {
			return res, attempts, nil
		}

		result = res
		finalErr = err

		if !op.ShouldRetry(err) {
			break
		}

		// Wait before retrying (unless this is the last attempt)
		if attempt < config.MaxAttempts {
			op.OnRetryWait(attempt, delay)

			select {
			case <-ctx.Done():
				return result, attempts, ctx.Err()
			case <-timeAfter(delay):
			}

			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}

	return result, attempts, finalErr
}

// timeAfter is a wrapper for time.After that can be overridden in tests.
//
//nolint:gochecknoglobals // Required for test mocking
var timeAfter = time.After

// SimpleRetryOperation provides a simplified implementation for common cases.
// Use this when you have straightforward attempt and retry logic.
type SimpleRetryOperation[R any] struct {
	AttemptFunc     func(ctx context.Context, attempt int) (R, bool, error)
	ShouldRetryFunc func(err error) bool
	OnRetryWaitFunc func(attempt int, delay time.Duration)
}

// Attempt implements RetryableOperation.
func (s *SimpleRetryOperation[R]) Attempt(ctx context.Context, attempt int) (R, bool, error) {
	return s.AttemptFunc(ctx, attempt)
}

// ShouldRetry implements RetryableOperation.
func (s *SimpleRetryOperation[R]) ShouldRetry(err error) bool {
	if s.ShouldRetryFunc == nil {
		return false
	}
	return s.ShouldRetryFunc(err)
}

// OnRetryWait implements RetryableOperation.
func (s *SimpleRetryOperation[R]) OnRetryWait(attempt int, delay time.Duration) {
	if s.OnRetryWaitFunc != nil {
		s.OnRetryWaitFunc(attempt, delay)
	}
}

// Compile-time interface check.
var _ RetryableOperation[any] = (*SimpleRetryOperation[any])(nil)
