// This file contains error classification for hub API failures.
package hub

import (
	"context"
	"errors"
	"net/http"
	"strings"

	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// ErrorType represents the classification of a hub API error.
type ErrorType int

const (
	// ErrorTypeUnknown indicates the error could not be classified.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuth indicates an authentication error.
	ErrorTypeAuth
	// ErrorTypeNetwork indicates a network connectivity error.
	ErrorTypeNetwork
	// ErrorTypeRateLimit indicates an API rate limit error.
	ErrorTypeRateLimit
	// ErrorTypeNotFound indicates a resource not found error.
	ErrorTypeNotFound
	// ErrorTypeConflict indicates the resource already exists.
	ErrorTypeConflict
	// ErrorTypeServer indicates a transient server-side failure.
	ErrorTypeServer
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeUnknown:
		return "unknown"
	case ErrorTypeAuth:
		return "authentication"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeConflict:
		return "conflict"
	case ErrorTypeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Retryable reports whether errors of this type are worth retrying.
func (e ErrorType) Retryable() bool {
	switch e {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServer:
		return true
	default:
		return false
	}
}

// PatternMatcher checks if a string contains any of a list of patterns.
// It performs case-insensitive matching on the lowercased input.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a new PatternMatcher with the given patterns.
// All patterns should be lowercase for consistent matching.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches returns true if the input string contains any of the patterns.
// The input is lowercased before matching.
func (m *PatternMatcher) Matches(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// Common error pattern matchers for reuse across the package.
//
//nolint:gochecknoglobals // Package-level immutable pattern matchers for performance
var (
	// authPatterns matches authentication-related errors.
	authPatterns = NewPatternMatcher(
		"bad credentials",
		"requires authentication",
		"must be authenticated",
		"invalid token",
		"token expired",
		"permission denied",
		"access denied",
	)

	// networkPatterns matches network-related errors.
	networkPatterns = NewPatternMatcher(
		"could not resolve host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"no route to host",
		"failed to connect",
		"connection reset",
		"timeout",
		"eof",
	)

	// rateLimitPatterns matches rate limiting errors.
	rateLimitPatterns = NewPatternMatcher(
		"rate limit exceeded",
		"api rate limit",
		"secondary rate limit",
		"abuse detection",
		"too many requests",
	)
)

// ClassifyStatus maps an API response status to an error type.
func ClassifyStatus(status int) ErrorType {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuth
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return ErrorTypeConflict
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeUnknown
	}
}

// ClassifyError determines the error type for any error surfaced by the
// API client. Classified apiError values carry their own type; everything
// else is matched by message text.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.errType
	}

	msg := err.Error()
	switch {
	case rateLimitPatterns.Matches(msg):
		return ErrorTypeRateLimit
	case authPatterns.Matches(msg):
		return ErrorTypeAuth
	case networkPatterns.Matches(msg):
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}

// isTransient reports whether an error should be retried. Unknown errors
// from the transport layer are treated as transient; classified terminal
// types are not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Terminal sentinels stay terminal no matter how they were wrapped.
	if errors.Is(err, pserrors.ErrRepoExists) ||
		errors.Is(err, pserrors.ErrRepoNotFound) ||
		errors.Is(err, pserrors.ErrFileNotFound) {
		return false
	}

	errType := ClassifyError(err)
	if errType == ErrorTypeUnknown {
		var apiErr *apiError
		// Unclassified transport errors are usually network hiccups.
		return !errors.As(err, &apiErr)
	}
	return errType.Retryable()
}
