// Package signal provides graceful shutdown handling for the deploy service.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler manages two-stage shutdown by listening for interrupt signals.
// The first SIGINT or SIGTERM cancels the wrapped context and closes the
// interrupted channel so the service can drain in-flight work. A second
// signal closes the forced channel, telling the service to stop waiting.
type Handler struct {
	ctx         context.Context //nolint:containedctx // intentional: handler manages context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	forced      chan struct{}
	done        chan struct{} // signals listen() to exit cleanly
	firstOnce   sync.Once
	forcedOnce  sync.Once
	stopOnce    sync.Once
	sigChan     chan os.Signal
}

// NewHandler creates a signal handler that listens for SIGINT and SIGTERM.
//
// Usage:
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	ctx = h.Context()
//
//	// ... serve with ctx ...
//
//	<-h.Interrupted()
//	// begin graceful shutdown; abort the drain if h.Forced() closes
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		forced:      make(chan struct{}),
		done:        make(chan struct{}),
		// Buffer of 1 ensures signal.Notify doesn't drop signals if handler is busy.
		// See: https://pkg.go.dev/os/signal#Notify
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the cancellable context.
// Use this context for all operations that should be interruptible.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel that closes when the first interrupt
// signal is received. Use this to trigger graceful shutdown.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Forced returns a channel that closes when a second interrupt signal
// arrives during shutdown. Use this to abandon the graceful drain.
func (h *Handler) Forced() <-chan struct{} {
	return h.forced
}

// Stop cleans up the signal handler and stops listening for signals.
// Always call this when done to prevent resource leaks.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done) // Signal listen() to exit before closing sigChan
		h.cancel()
	})
}

// handleSignal processes a received signal. The first occurrence starts
// graceful shutdown; any later one forces it.
func (h *Handler) handleSignal() {
	started := false
	h.firstOnce.Do(func() {
		h.cancel()
		close(h.interrupted)
		started = true
	})
	if started {
		return
	}
	h.forcedOnce.Do(func() {
		close(h.forced)
	})
}

// listen waits for signals and handles them.
// It loops until Stop() is called so the second signal can still be seen
// after the context is already canceled.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			// Stop() was called - exit cleanly
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
