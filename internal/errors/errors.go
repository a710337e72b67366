// Package errors provides centralized error handling for pagesmith.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrSecretMismatch indicates the request's shared secret did not match
	// the configured secret.
	ErrSecretMismatch = errors.New("invalid secret")

	// ErrInvalidRound indicates a deploy round other than 1 or 2 was requested.
	ErrInvalidRound = errors.New("invalid round number")

	// ErrInvalidRequest indicates a deploy request failed validation.
	ErrInvalidRequest = errors.New("invalid deploy request")

	// ErrLLMInvocation indicates the LLM provider call failed or returned
	// a non-success status.
	ErrLLMInvocation = errors.New("llm invocation failed")

	// ErrLLMInvalidFormat indicates the LLM response did not contain the
	// required fenced code blocks.
	ErrLLMInvalidFormat = errors.New("llm response not in expected format")

	// ErrLLMEmptyResponse indicates the LLM returned an empty completion.
	ErrLLMEmptyResponse = errors.New("llm returned empty response")

	// ErrHubOperation indicates a hosting API operation failed.
	ErrHubOperation = errors.New("hosting api operation failed")

	// ErrHubAuthFailed indicates hosting API authentication failed.
	ErrHubAuthFailed = errors.New("hosting api authentication failed")

	// ErrHubRateLimited indicates the hosting API rate limit was exceeded.
	ErrHubRateLimited = errors.New("hosting api rate limited")

	// ErrRepoExists indicates an attempt to create a repository that
	// already exists. A round-one deploy fails on this condition.
	ErrRepoExists = errors.New("repository already exists")

	// ErrRepoNotFound indicates the repository for a revision round does
	// not exist.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrFileNotFound indicates a repository file was not found.
	ErrFileNotFound = errors.New("file not found in repository")

	// ErrNotifyFailed indicates the completion notice could not be
	// delivered after all retry attempts.
	ErrNotifyFailed = errors.New("completion notice delivery failed")

	// ErrMaxRetriesExceeded indicates the maximum retry attempts have been reached.
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidServer indicates an invalid server configuration value.
	ErrConfigInvalidServer = errors.New("invalid server configuration")

	// ErrConfigInvalidLLM indicates an invalid LLM configuration value.
	ErrConfigInvalidLLM = errors.New("invalid LLM configuration")

	// ErrConfigInvalidHub indicates an invalid hosting configuration value.
	ErrConfigInvalidHub = errors.New("invalid hosting configuration")

	// ErrConfigInvalidNotify indicates an invalid notification configuration value.
	ErrConfigInvalidNotify = errors.New("invalid notify configuration")

	// ErrSecretNotConfigured indicates the shared deploy secret is missing
	// from the environment.
	ErrSecretNotConfigured = errors.New("deploy secret not configured")

	// ErrTokenNotConfigured indicates the hosting API token is missing
	// from the environment.
	ErrTokenNotConfigured = errors.New("hosting api token not configured")

	// ErrAPIKeyNotConfigured indicates the LLM API key is missing from
	// the environment.
	ErrAPIKeyNotConfigured = errors.New("llm api key not configured")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrRecordNotFound indicates no deploy record exists for a task.
	ErrRecordNotFound = errors.New("deploy record not found")

	// ErrLockTimeout indicates a record file lock could not be acquired
	// within the allowed time.
	ErrLockTimeout = errors.New("timed out acquiring record lock")

	// ErrRecordExists indicates an attempt to create a deploy record that
	// already exists.
	ErrRecordExists = errors.New("deploy record already exists")

	// ErrDispatcherBusy indicates the background dispatcher could not
	// accept more work.
	ErrDispatcherBusy = errors.New("deploy dispatcher at capacity")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")
)
