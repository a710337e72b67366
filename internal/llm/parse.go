package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// Fenced block patterns matching the format demanded by the prompts.
// (?s) lets . span newlines; the non-greedy body stops at the first
// closing fence.
var (
	htmlBlockRe     = regexp.MustCompile("(?s)```html\n(.*?)\n```")
	markdownBlockRe = regexp.MustCompile("(?s)```markdown\n(.*?)\n```")
	textBlockRe     = regexp.MustCompile("(?s)```text\n(.*?)\n```")
)

// ParseBundle extracts the site bundle from a completion.
// A create-round completion must carry html, markdown, and text (license)
// blocks; a revision completion must carry html and markdown blocks.
// Returns ErrLLMInvalidFormat when a required block is missing.
func ParseBundle(content string, revision bool) (*domain.SiteBundle, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pserrors.ErrLLMEmptyResponse
	}

	htmlMatch := htmlBlockRe.FindStringSubmatch(content)
	readmeMatch := markdownBlockRe.FindStringSubmatch(content)

	if htmlMatch == nil || readmeMatch == nil {
		return nil, fmt.Errorf("missing html or markdown block: %w", pserrors.ErrLLMInvalidFormat)
	}

	bundle := &domain.SiteBundle{
		HTML:   strings.TrimSpace(htmlMatch[1]),
		Readme: strings.TrimSpace(readmeMatch[1]),
	}

	if !revision {
		licenseMatch := textBlockRe.FindStringSubmatch(content)
		if licenseMatch == nil {
			return nil, fmt.Errorf("missing license block: %w", pserrors.ErrLLMInvalidFormat)
		}
		bundle.License = strings.TrimSpace(licenseMatch[1])
	}

	return bundle, nil
}
