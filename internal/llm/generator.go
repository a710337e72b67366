// Package llm provides site synthesis for pagesmith.
//
// This package defines the Generator interface for producing a site bundle
// from an application brief and provides the Client implementation that
// calls an OpenAI-compatible chat-completions endpoint.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// internal/config, internal/domain, and internal/prompts. It MUST NOT
// import internal/task, internal/server, or internal/cli.
package llm

import (
	"context"

	"github.com/mrz1836/pagesmith/internal/domain"
)

// Generator defines the interface for site synthesis.
// Implementations handle the actual invocation of the LLM provider and
// return the parsed site bundle.
//
// Context should be used to control timeouts and cancellation.
type Generator interface {
	// Generate synthesizes a site bundle for the given request.
	// The context controls timeout and cancellation.
	// Returns an error wrapped with errors.ErrLLMInvocation on provider
	// failure, or errors.ErrLLMInvalidFormat when the completion does
	// not contain the required fenced blocks.
	Generate(ctx context.Context, req *Request) (*domain.SiteBundle, error)
}
