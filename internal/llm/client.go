package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/constants"
	"github.com/mrz1836/pagesmith/internal/ctxutil"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// Doer executes HTTP requests. Used for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBodyBytes bounds how much of a provider error body is read for
// the error message.
const maxErrorBodyBytes = 4 << 10

// Client implements Generator against an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	cfg    *config.LLMConfig
	doer   Doer
	logger zerolog.Logger
	apiKey string
}

// Compile-time interface check.
var _ Generator = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a Client for the given provider configuration.
// The API key is resolved from the configured environment variable once
// at construction.
func NewClient(cfg *config.LLMConfig, opts ...ClientOption) *Client {
	c := &Client{
		cfg:    cfg,
		doer:   &http.Client{},
		logger: zerolog.Nop(),
		apiKey: cfg.APIKey(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger for LLM operations.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDoer sets a custom HTTP doer (for testing).
func WithDoer(doer Doer) ClientOption {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithAPIKey overrides the API key resolved from the environment.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// chatRequest is the request body for the chat-completions endpoint.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in a chat-completions conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// statusError carries a non-success provider HTTP status for retry
// classification.
type statusError struct {
	status int
	body   string
}

// Error implements the error interface.
func (e *statusError) Error() string {
	body := e.body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("provider returned status %d: %s", e.status, body)
}

// retryable reports whether the status indicates a transient condition.
func (e *statusError) retryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// Generate synthesizes a site bundle by calling the provider and parsing
// the completion. Transient provider failures are retried with
// exponential backoff; format errors are terminal.
func (c *Client) Generate(ctx context.Context, req *Request) (*domain.SiteBundle, error) {
	// Check cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if c.apiKey == "" {
		return nil, pserrors.ErrAPIKeyNotConfigured
	}

	timeout := c.resolveTimeout(req)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	content, err := c.completeWithRetry(runCtx, req)
	if err != nil {
		return nil, err
	}

	bundle, err := ParseBundle(content, req.IsRevision())
	if err != nil {
		c.logger.Error().
			Err(err).
			Bool("revision", req.IsRevision()).
			Int("completion_bytes", len(content)).
			Msg("completion did not match required format")
		return nil, err
	}

	c.logger.Info().
		Bool("revision", req.IsRevision()).
		Int("html_bytes", len(bundle.HTML)).
		Int("readme_bytes", len(bundle.Readme)).
		Bool("has_license", bundle.HasLicense()).
		Msg("site bundle generated")

	return bundle, nil
}

// resolveTimeout determines the timeout to use for a request.
// Priority: request timeout > config timeout > default timeout.
func (c *Client) resolveTimeout(req *Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if c.cfg != nil && c.cfg.Timeout > 0 {
		return c.cfg.Timeout
	}
	return constants.DefaultLLMTimeout
}

// resolveModel determines the model to use for a request.
func (c *Client) resolveModel(req *Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.cfg.Model
}

// completeWithRetry executes the completion call with exponential backoff
// retry logic. Only transient errors are retried.
func (c *Client) completeWithRetry(ctx context.Context, req *Request) (string, error) {
	var lastErr error
	backoff := constants.InitialBackoff

	for attempt := 1; attempt <= constants.MaxRetryAttempts; attempt++ {
		if attempt > 1 {
			c.logger.Debug().
				Int("attempt", attempt).
				Int("max_attempts", constants.MaxRetryAttempts).
				Msg("retrying completion request")
		}

		content, err := c.complete(ctx, req)
		if err == nil {
			if attempt > 1 {
				c.logger.Info().
					Int("attempt", attempt).
					Msg("completion succeeded after retry")
			}
			return content, nil
		}

		// Don't retry non-retryable errors
		if !isRetryable(err) {
			c.logger.Debug().
				Err(err).
				Int("attempt", attempt).
				Msg("completion failed with non-retryable error")
			return "", err
		}

		lastErr = err
		if attempt < constants.MaxRetryAttempts {
			c.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", constants.MaxRetryAttempts).
				Dur("backoff", backoff).
				Msg("completion failed, will retry after backoff")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-timeSleep(backoff):
				backoff *= constants.BackoffMultiplier
			}
		}
	}

	c.logger.Error().
		Err(lastErr).
		Int("max_attempts", constants.MaxRetryAttempts).
		Msg("completion failed after max retries")

	return "", fmt.Errorf("%w: max retries exceeded: %w", pserrors.ErrLLMInvocation, lastErr)
}

// complete performs a single chat-completions call.
func (c *Client) complete(ctx context.Context, req *Request) (string, error) {
	body := chatRequest{
		Model: c.resolveModel(req),
		Messages: []chatMessage{
			{Role: "user", Content: BuildPrompt(req)},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %w", pserrors.ErrLLMInvocation, err)
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %w", pserrors.ErrLLMInvocation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", pserrors.ErrLLMInvocation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: authentication rejected (status %d)", pserrors.ErrLLMInvocation, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("%w: %w", pserrors.ErrLLMInvocation,
			&statusError{status: resp.StatusCode, body: string(errBody)})
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to parse json response: %w", pserrors.ErrLLMInvocation, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices in completion", pserrors.ErrLLMEmptyResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}
