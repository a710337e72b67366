// This file implements completion notice delivery to the evaluation server.
package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/clock"
	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// Doer executes HTTP requests. Used for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier delivers completion notices to an evaluation endpoint.
type Notifier interface {
	// Notify POSTs the notice to the endpoint, retrying with exponential
	// backoff until it is accepted or the attempt budget runs out.
	Notify(ctx context.Context, endpoint string, notice *domain.CompletionNotice) error
}

// HTTPNotifier implements Notifier over plain HTTP POST.
// Delivery counts as accepted only on a 200 response; every other status
// is treated as a failed attempt.
type HTTPNotifier struct {
	cfg    *config.NotifyConfig
	doer   Doer
	clock  clock.Clock
	logger zerolog.Logger
}

// Compile-time interface check.
var _ Notifier = (*HTTPNotifier)(nil)

// NotifierOption configures an HTTPNotifier.
type NotifierOption func(*HTTPNotifier)

// NewHTTPNotifier creates a notifier with the given delivery configuration.
func NewHTTPNotifier(cfg *config.NotifyConfig, opts ...NotifierOption) *HTTPNotifier {
	n := &HTTPNotifier{
		cfg:    cfg,
		doer:   &http.Client{},
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WithNotifierDoer sets a custom HTTP doer (for testing).
func WithNotifierDoer(doer Doer) NotifierOption {
	return func(n *HTTPNotifier) {
		n.doer = doer
	}
}

// WithNotifierClock sets the clock used for backoff waits (for testing).
func WithNotifierClock(c clock.Clock) NotifierOption {
	return func(n *HTTPNotifier) {
		n.clock = c
	}
}

// WithNotifierLogger sets the logger for delivery operations.
func WithNotifierLogger(logger zerolog.Logger) NotifierOption {
	return func(n *HTTPNotifier) {
		n.logger = logger
	}
}

// Notify delivers the notice, retrying failed attempts with exponential
// backoff. The backoff doubles after each attempt starting from the
// configured initial delay.
func (n *HTTPNotifier) Notify(ctx context.Context, endpoint string, notice *domain.CompletionNotice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return pserrors.Wrap(err, "failed to encode completion notice")
	}

	backoff := n.cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= n.cfg.MaxAttempts; attempt++ {
		lastErr = n.deliver(ctx, endpoint, payload)
		if lastErr == nil {
			n.logger.Info().
				Str("task", notice.Task).
				Int("round", notice.Round).
				Int("attempt", attempt).
				Str("endpoint", endpoint).
				Msg("completion notice delivered")
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt < n.cfg.MaxAttempts {
			n.logger.Warn().
				Err(lastErr).
				Str("task", notice.Task).
				Int("round", notice.Round).
				Int("attempt", attempt).
				Int("max_attempts", n.cfg.MaxAttempts).
				Dur("backoff", backoff).
				Msg("notice delivery failed, will retry after backoff")

			if err := n.clock.Sleep(ctx, backoff); err != nil {
				return err
			}
			backoff *= 2
		}
	}

	n.logger.Error().
		Err(lastErr).
		Str("task", notice.Task).
		Int("round", notice.Round).
		Int("max_attempts", n.cfg.MaxAttempts).
		Msg("completion notice delivery exhausted retries")

	return fmt.Errorf("%w: %w", pserrors.ErrNotifyFailed, lastErr)
}

// deliver performs one POST attempt with the per-attempt timeout.
func (n *HTTPNotifier) deliver(ctx context.Context, endpoint string, payload []byte) error {
	attemptCtx := ctx
	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return pserrors.Wrap(err, "failed to build notice request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.doer.Do(req)
	if err != nil {
		return pserrors.Wrap(err, "notice request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("evaluation server returned status %d", resp.StatusCode)
	}

	return nil
}
