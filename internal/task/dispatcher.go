// This file implements the bounded background dispatcher for deploy runs.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// defaultRunTimeout bounds a single background deploy run.
const defaultRunTimeout = 15 * time.Minute

// Dispatcher launches deploy runs in the background with a concurrency
// bound. Requests beyond the bound are rejected rather than queued so the
// caller can signal overload immediately.
type Dispatcher struct {
	processor  *Processor
	sem        *semaphore.Weighted
	logger     zerolog.Logger
	runTimeout time.Duration

	wg sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// NewDispatcher creates a dispatcher allowing up to maxConcurrent
// simultaneous deploy runs.
func NewDispatcher(processor *Processor, maxConcurrent int64, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		processor:  processor,
		sem:        semaphore.NewWeighted(maxConcurrent),
		logger:     zerolog.Nop(),
		runTimeout: defaultRunTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithDispatcherLogger sets the logger for dispatch events.
func WithDispatcherLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDispatcherRunTimeout bounds each background run.
func WithDispatcherRunTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.runTimeout = timeout
	}
}

// Dispatch starts a background deploy run for the request.
// Returns ErrDispatcherBusy when the concurrency bound is reached. The
// run detaches from the caller's context so an HTTP response does not
// cancel the pipeline.
func (d *Dispatcher) Dispatch(req *domain.DeployRequest) error {
	if !d.sem.TryAcquire(1) {
		d.logger.Warn().
			Str("task", req.Task).
			Int("round", req.Round).
			Msg("deploy request rejected, dispatcher at capacity")
		return pserrors.ErrDispatcherBusy
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), d.runTimeout)
		defer cancel()

		// Process logs its own outcome; the error is already recorded.
		_ = d.processor.Process(ctx, req)
	}()

	return nil
}

// Wait blocks until all in-flight runs finish. Used during shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
