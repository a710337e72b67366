package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pagesmith/internal/domain"
)

// TestBuildPromptCreate tests the create-round prompt contents.
func TestBuildPromptCreate(t *testing.T) {
	req := NewRequest("a tip calculator",
		WithChecks([]string{"has an input field", "shows the tip total"}),
	)

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, `"a tip calculator"`)
	assert.Contains(t, prompt, "has an input field, shows the tip total")
	assert.Contains(t, prompt, "```html")
	assert.Contains(t, prompt, "```markdown")
	assert.Contains(t, prompt, "```text")
	assert.Contains(t, prompt, "MIT License")
	assert.NotContains(t, prompt, "ORIGINAL CODE")
}

// TestBuildPromptRevise tests the revision-round prompt contents.
func TestBuildPromptRevise(t *testing.T) {
	req := NewRequest("add dark mode",
		WithChecks([]string{"toggles a dark theme"}),
		WithExistingHTML("<html><body>v1</body></html>"),
	)

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "ORIGINAL CODE")
	assert.Contains(t, prompt, "<html><body>v1</body></html>")
	assert.Contains(t, prompt, `"add dark mode"`)
	assert.Contains(t, prompt, "toggles a dark theme")
	assert.Contains(t, prompt, "Do not include a LICENSE block")
}

// TestBuildPromptNoChecks verifies the prompt still renders without checks.
func TestBuildPromptNoChecks(t *testing.T) {
	prompt := BuildPrompt(NewRequest("a clock"))
	assert.Contains(t, prompt, "(none specified)")
}

// TestBuildPromptAttachments tests attachment rendering by kind.
func TestBuildPromptAttachments(t *testing.T) {
	req := NewRequest("a gallery",
		WithAttachments([]domain.Attachment{
			{Name: "logo.png", URL: "data:image/png;base64,aGVsbG8="},
			{Name: "data.csv", URL: "https://example.com/data.csv"},
		}),
	)

	prompt := BuildPrompt(req)

	require.Contains(t, prompt, "ATTACHMENTS:")
	assert.Contains(t, prompt, "logo.png (image/png, content embedded as a data URI)")
	assert.Contains(t, prompt, "data:image/png;base64,aGVsbG8=")
	assert.Contains(t, prompt, "data.csv (hosted file, reference it by URL): https://example.com/data.csv")
}

// TestBuildPromptNoAttachments verifies no attachment section appears
// when none are given.
func TestBuildPromptNoAttachments(t *testing.T) {
	prompt := BuildPrompt(NewRequest("a clock"))
	assert.False(t, strings.Contains(prompt, "ATTACHMENTS:"))
}

// TestRequestOptions tests the functional option constructors.
func TestRequestOptions(t *testing.T) {
	req := NewRequest("brief",
		WithChecks([]string{"c1"}),
		WithModel("openai/gpt-4o"),
		WithTimeout(42),
	)

	assert.Equal(t, "brief", req.Brief)
	assert.Equal(t, []string{"c1"}, req.Checks)
	assert.Equal(t, "openai/gpt-4o", req.Model)
	assert.EqualValues(t, 42, req.Timeout)
	assert.False(t, req.IsRevision())

	req = NewRequest("brief", WithExistingHTML("<html></html>"))
	assert.True(t, req.IsRevision())
}
