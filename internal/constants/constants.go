// Package constants provides centralized constant values used throughout pagesmith.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names used by pagesmith for organizing data.
const (
	// Home is the hidden directory name where pagesmith stores all its data.
	// This directory is created in the user's home directory.
	Home = ".pagesmith"

	// TasksDir is the directory name where deploy records are stored.
	TasksDir = "tasks"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// File names used by pagesmith for state persistence and logging.
const (
	// ServiceLogFileName is the name of the rotating service log file.
	ServiceLogFileName = "pagesmith.log"

	// RecordFileName is the name of the JSON file that stores a task's deploy record.
	RecordFileName = "record.json"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"
)

// Names of the files committed to every generated repository.
const (
	// SiteFileName is the single-page application entry point.
	SiteFileName = "index.html"

	// ReadmeFileName is the generated project README.
	ReadmeFileName = "README.md"

	// LicenseFileName is the MIT license file committed on the first round.
	LicenseFileName = "LICENSE"
)

// Commit messages used when publishing generated files.
const (
	// CommitMsgSite is the commit message for the initial application code.
	CommitMsgSite = "feat: initial application structure"

	// CommitMsgReadme is the commit message for the initial README.
	CommitMsgReadme = "docs: add project README"

	// CommitMsgLicense is the commit message for the MIT license.
	CommitMsgLicense = "docs: add MIT license"

	// CommitMsgSiteRevision is the commit message for a round-two code revision.
	CommitMsgSiteRevision = "feat: revise application code"

	// CommitMsgReadmeRevision is the commit message for a round-two README update.
	CommitMsgReadmeRevision = "docs: revise project README"
)

// DefaultRepoPrefix is prepended to the task identifier to form the
// repository name for a deploy task.
const DefaultRepoPrefix = "pagesmith"

// DefaultBranch is the branch generated files are committed to.
const DefaultBranch = "main"

// Timeout configurations for various operations.
const (
	// DefaultLLMTimeout is the default maximum duration for a single
	// LLM completion call.
	DefaultLLMTimeout = 5 * time.Minute

	// DefaultHubTimeout is the default maximum duration for a single
	// hosting API call.
	DefaultHubTimeout = 60 * time.Second

	// DefaultNotifyTimeout is the per-request timeout when posting the
	// completion notice to the evaluation server.
	DefaultNotifyTimeout = 20 * time.Second

	// DefaultShutdownTimeout is how long the HTTP server waits for
	// in-flight requests to drain on shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultPagesSettle is how long the pipeline waits after committing
	// files before resolving the head SHA, giving the hosting service a
	// moment to register the new content.
	DefaultPagesSettle = 5 * time.Second
)

// Retry configuration defaults for recoverable operations.
const (
	// MaxRetryAttempts is the maximum number of retry attempts for recoverable errors.
	MaxRetryAttempts = 3

	// InitialBackoff is the initial backoff duration before the first retry.
	// Subsequent retries use exponential backoff based on this value.
	InitialBackoff = 1 * time.Second

	// BackoffMultiplier is the factor applied to the backoff duration
	// after each failed attempt.
	BackoffMultiplier = 2
)

// Notification retry defaults for the completion webhook.
const (
	// NotifyMaxAttempts is the number of delivery attempts for the
	// completion notice.
	NotifyMaxAttempts = 4

	// NotifyInitialBackoff is the delay before the second delivery attempt.
	// The delay doubles after each failure (1s, 2s, 4s, 8s).
	NotifyInitialBackoff = 1 * time.Second
)

// HTTP server defaults.
const (
	// DefaultListenAddr is the default address the HTTP server binds to.
	DefaultListenAddr = ":8080"

	// DefaultReadTimeout bounds how long reading a request may take.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds how long writing a response may take.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultMaxConcurrentDeploys bounds how many deploy pipelines may
	// run in the background at once.
	DefaultMaxConcurrentDeploys = 4
)

// Default LLM provider settings.
const (
	// DefaultLLMBaseURL is the OpenRouter-compatible chat completions endpoint.
	DefaultLLMBaseURL = "https://aipipe.org/openrouter/v1"

	// DefaultLLMModel is the fully qualified model name sent to the provider.
	DefaultLLMModel = "openai/gpt-4o-mini"
)

// Default hosting API settings.
const (
	// DefaultHubBaseURL is the GitHub REST API endpoint.
	DefaultHubBaseURL = "https://api.github.com"
)

// RecordSchemaVersion is the current version of the deploy record JSON schema.
// This enables forward-compatible schema migrations.
const RecordSchemaVersion = "1.0"

// Log rotation settings for the service log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to retain.
	LogMaxBackups = 5

	// LogMaxAgeDays is the maximum age in days of a rotated file.
	LogMaxAgeDays = 30

	// LogCompress controls whether rotated files are gzip compressed.
	LogCompress = true
)
