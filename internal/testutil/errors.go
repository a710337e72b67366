// Package testutil provides testing utilities for pagesmith.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockNetwork indicates a mock network error occurred (used in tests).
	ErrMockNetwork = errors.New("network error")

	// ErrMockAPIError indicates a mock API error occurred (used in tests).
	ErrMockAPIError = errors.New("API error")

	// ErrMockNotFound indicates a mock resource was not found (used in tests).
	ErrMockNotFound = errors.New("not found")

	// ErrMockStoreUnavailable indicates a mock record store is unavailable (used in tests).
	ErrMockStoreUnavailable = errors.New("record store unavailable")

	// ErrMockDeliveryRefused indicates a mock webhook delivery was refused (used in tests).
	ErrMockDeliveryRefused = errors.New("delivery refused")
)
