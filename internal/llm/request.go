package llm

import (
	"time"

	"github.com/mrz1836/pagesmith/internal/domain"
)

// Request describes one site synthesis call.
// ExistingHTML distinguishes a revision from an initial generation: when
// set, the prompt embeds the current page and the license block is not
// requested.
type Request struct {
	// Brief is the natural-language application brief.
	Brief string

	// Checks are the evaluation requirements the page must satisfy.
	Checks []string

	// Attachments are supporting files referenced by the brief.
	Attachments []domain.Attachment

	// ExistingHTML is the current index.html content for revision rounds.
	// Empty for the create round.
	ExistingHTML string

	// Model overrides the configured model when non-empty.
	Model string

	// Timeout overrides the configured timeout when positive.
	Timeout time.Duration
}

// RequestOption is a functional option for configuring a Request.
type RequestOption func(*Request)

// NewRequest creates a Request with the given brief and optional configuration.
//
// Example:
//
//	req := NewRequest(brief,
//	    WithChecks(checks),
//	    WithExistingHTML(current),
//	)
func NewRequest(brief string, opts ...RequestOption) *Request {
	req := &Request{Brief: brief}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// WithChecks sets the evaluation checks for the request.
func WithChecks(checks []string) RequestOption {
	return func(req *Request) {
		req.Checks = checks
	}
}

// WithAttachments sets the supporting attachments for the request.
func WithAttachments(attachments []domain.Attachment) RequestOption {
	return func(req *Request) {
		req.Attachments = attachments
	}
}

// WithExistingHTML marks the request as a revision of the given page.
func WithExistingHTML(html string) RequestOption {
	return func(req *Request) {
		req.ExistingHTML = html
	}
}

// WithModel overrides the configured model for this request.
func WithModel(model string) RequestOption {
	return func(req *Request) {
		req.Model = model
	}
}

// WithTimeout overrides the configured timeout for this request.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(req *Request) {
		req.Timeout = timeout
	}
}

// IsRevision returns true when the request revises an existing page.
func (r *Request) IsRevision() bool {
	return r.ExistingHTML != ""
}
