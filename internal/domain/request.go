// Package domain provides shared domain types for the pagesmith deploy service.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case to match the evaluation protocol.
package domain

import (
	"fmt"
	"net/url"
	"strings"

	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// Deploy round numbers. Round one creates the repository; round two
// revises the previously published artifact.
const (
	// RoundCreate is the initial generation round.
	RoundCreate = 1

	// RoundRevise is the revision round for an existing repository.
	RoundRevise = 2
)

// DeployRequest is the JSON body accepted by POST /api/deploy.
//
// Example JSON representation:
//
//	{
//	    "email": "student@example.com",
//	    "secret": "...",
//	    "task": "markdown-to-html",
//	    "round": 1,
//	    "nonce": "ab12-cd34",
//	    "brief": "Create a markdown previewer ...",
//	    "checks": ["page contains a textarea", "output updates live"],
//	    "evaluation_url": "https://example.com/notify",
//	    "attachments": [{"name": "sample.md", "url": "data:text/markdown;base64,..."}]
//	}
type DeployRequest struct {
	// Email identifies the requester and is echoed in the completion notice.
	Email string `json:"email"`

	// Secret is the shared secret verified before any processing happens.
	Secret string `json:"secret"`

	// Task is the stable task identifier. It determines the repository
	// name, so both rounds of a task target the same repository.
	Task string `json:"task"`

	// Round is 1 (create) or 2 (revise).
	Round int `json:"round"`

	// Nonce is an opaque value echoed in the completion notice.
	Nonce string `json:"nonce"`

	// Brief is the natural-language application brief.
	Brief string `json:"brief"`

	// Checks are the evaluation requirements the generated page must satisfy.
	Checks []string `json:"checks"`

	// EvaluationURL is where the completion notice is POSTed.
	EvaluationURL string `json:"evaluation_url"`

	// Attachments are optional supporting files for the brief.
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Validate checks the request fields that gate background processing.
// The secret is checked separately by the server so that a mismatch can
// map to 403 rather than 400.
func (r *DeployRequest) Validate() error {
	if strings.TrimSpace(r.Task) == "" {
		return fmt.Errorf("task: %w", pserrors.ErrEmptyValue)
	}
	if strings.TrimSpace(r.Brief) == "" {
		return fmt.Errorf("brief: %w", pserrors.ErrEmptyValue)
	}
	if r.Round != RoundCreate && r.Round != RoundRevise {
		return fmt.Errorf("round %d: %w", r.Round, pserrors.ErrInvalidRound)
	}
	if r.EvaluationURL == "" {
		return fmt.Errorf("evaluation_url: %w", pserrors.ErrEmptyValue)
	}
	if u, err := url.Parse(r.EvaluationURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("evaluation_url %q: %w", r.EvaluationURL, pserrors.ErrInvalidRequest)
	}
	return nil
}

// IsRevision returns true when the request targets an existing repository.
func (r *DeployRequest) IsRevision() bool {
	return r.Round == RoundRevise
}

// AttachmentKind classifies how an attachment's content is delivered.
type AttachmentKind string

// Attachment kinds.
const (
	// AttachmentInline means the attachment content is embedded as a data URI.
	AttachmentInline AttachmentKind = "inline"

	// AttachmentRemote means the attachment is hosted at a fetchable URL.
	AttachmentRemote AttachmentKind = "remote"
)

// Attachment is a supporting file referenced by a deploy brief.
type Attachment struct {
	// Name is the suggested file name for the attachment.
	Name string `json:"name"`

	// URL is either a data URI carrying the content inline or a remote URL.
	URL string `json:"url"`
}

// Kind classifies the attachment by inspecting its URL scheme.
func (a Attachment) Kind() AttachmentKind {
	if strings.HasPrefix(a.URL, "data:") {
		return AttachmentInline
	}
	return AttachmentRemote
}

// MediaType returns the declared media type of an inline attachment,
// or empty string for remote attachments and malformed data URIs.
func (a Attachment) MediaType() string {
	if a.Kind() != AttachmentInline {
		return ""
	}
	rest := strings.TrimPrefix(a.URL, "data:")
	end := strings.IndexAny(rest, ";,")
	if end < 0 {
		return ""
	}
	return rest[:end]
}
