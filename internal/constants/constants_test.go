package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDefaults(t *testing.T) {
	// The backoff schedule for the completion webhook is 1s, 2s, 4s, 8s.
	assert.Equal(t, 4, NotifyMaxAttempts)
	assert.Equal(t, time.Second, NotifyInitialBackoff)

	assert.Equal(t, 3, MaxRetryAttempts)
	assert.Equal(t, time.Second, InitialBackoff)
	assert.Equal(t, 2, BackoffMultiplier)
}

func TestCommittedFileNames(t *testing.T) {
	assert.Equal(t, "index.html", SiteFileName)
	assert.Equal(t, "README.md", ReadmeFileName)
	assert.Equal(t, "LICENSE", LicenseFileName)
}

func TestTimeoutsArePositive(t *testing.T) {
	timeouts := map[string]time.Duration{
		"llm":      DefaultLLMTimeout,
		"hub":      DefaultHubTimeout,
		"notify":   DefaultNotifyTimeout,
		"shutdown": DefaultShutdownTimeout,
		"read":     DefaultReadTimeout,
		"write":    DefaultWriteTimeout,
	}
	for name, d := range timeouts {
		assert.Positive(t, d, "timeout %q must be positive", name)
	}
}
