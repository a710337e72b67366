package constants

// DeployStatus represents the lifecycle state of a deploy round.
type DeployStatus string

// Deploy lifecycle statuses.
const (
	// StatusPending indicates the round was accepted but processing has not started.
	StatusPending DeployStatus = "pending"

	// StatusGenerating indicates the LLM is synthesizing the site bundle.
	StatusGenerating DeployStatus = "generating"

	// StatusPublishing indicates generated files are being committed to the repository.
	StatusPublishing DeployStatus = "publishing"

	// StatusNotifying indicates the completion notice is being delivered.
	StatusNotifying DeployStatus = "notifying"

	// StatusCompleted indicates the round finished and the notice was delivered.
	StatusCompleted DeployStatus = "completed"

	// StatusFailed indicates the round failed at some stage.
	StatusFailed DeployStatus = "failed"
)

// IsTerminal returns true if the status is a final state that will not
// transition further.
func (s DeployStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsValid returns true if the status is one of the known lifecycle states.
func (s DeployStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusGenerating, StatusPublishing, StatusNotifying, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
