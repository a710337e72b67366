package domain

import (
	"time"

	"github.com/mrz1836/pagesmith/internal/constants"
)

// DeployRecord is the persisted state of a deploy task across rounds.
// One record exists per task identifier; each processed round appends a
// RoundResult. The record lets the service branch on create-vs-revise
// using local state and gives operators an audit trail.
//
// Example JSON representation:
//
//	{
//	    "schema_version": "1.0",
//	    "task": "markdown-to-html",
//	    "repo_name": "pagesmith-markdown-to-html",
//	    "repo_url": "https://github.com/user/pagesmith-markdown-to-html",
//	    "pages_url": "https://user.github.io/pagesmith-markdown-to-html/",
//	    "rounds": [...],
//	    "created_at": "2026-08-30T10:00:00Z",
//	    "updated_at": "2026-08-30T10:05:00Z"
//	}
type DeployRecord struct {
	// SchemaVersion enables forward-compatible migrations of record files.
	SchemaVersion string `json:"schema_version"`

	// Task is the stable task identifier.
	Task string `json:"task"`

	// RepoName is the repository created for this task.
	RepoName string `json:"repo_name"`

	// RepoURL is the browser URL of the repository, set once round one
	// publishes successfully.
	RepoURL string `json:"repo_url,omitempty"`

	// PagesURL is the static-hosting URL, set once round one publishes.
	PagesURL string `json:"pages_url,omitempty"`

	// Rounds holds one entry per processed round, in processing order.
	Rounds []RoundResult `json:"rounds"`

	// CreatedAt is when the record was first written.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// RoundResult captures the outcome of one processed round.
type RoundResult struct {
	// Round is the round number (1 or 2).
	Round int `json:"round"`

	// RunID is the unique identifier of the background run that
	// processed the round. Useful for correlating log entries.
	RunID string `json:"run_id"`

	// Status is the final lifecycle status of the round.
	Status constants.DeployStatus `json:"status"`

	// CommitSHA is the head commit after publishing, when successful.
	CommitSHA string `json:"commit_sha,omitempty"`

	// Error holds the failure description for failed rounds.
	Error string `json:"error,omitempty"`

	// StartedAt is when background processing began.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the round reached a terminal status.
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// NewDeployRecord creates a record for a task with no processed rounds.
func NewDeployRecord(task, repoName string, now time.Time) *DeployRecord {
	return &DeployRecord{
		SchemaVersion: constants.RecordSchemaVersion,
		Task:          task,
		RepoName:      repoName,
		Rounds:        []RoundResult{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// LatestRound returns the most recently appended round result, or nil
// if no round has been processed.
func (r *DeployRecord) LatestRound() *RoundResult {
	if len(r.Rounds) == 0 {
		return nil
	}
	return &r.Rounds[len(r.Rounds)-1]
}

// HasCompletedRound reports whether the given round number has completed
// successfully at least once.
func (r *DeployRecord) HasCompletedRound(round int) bool {
	for i := range r.Rounds {
		if r.Rounds[i].Round == round && r.Rounds[i].Status == constants.StatusCompleted {
			return true
		}
	}
	return false
}
