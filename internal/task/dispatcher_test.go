package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
	"github.com/mrz1836/pagesmith/internal/llm"
)

// blockingGenerator holds each Generate call until released.
type blockingGenerator struct {
	release chan struct{}
	started chan struct{}
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		release: make(chan struct{}),
		started: make(chan struct{}, 8),
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, _ *llm.Request) (*domain.SiteBundle, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &domain.SiteBundle{HTML: "<html></html>", Readme: "#", License: "MIT"}, nil
}

// TestDispatchRunsInBackground verifies Dispatch returns immediately and
// the run completes asynchronously.
func TestDispatchRunsInBackground(t *testing.T) {
	f := newProcessorFixture(t)
	d := NewDispatcher(f.processor, 2)

	require.NoError(t, d.Dispatch(testDeployRequest(1)))
	d.Wait()

	record, err := f.store.Get(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, record.Rounds, 1)
}

// TestDispatchRejectsWhenFull verifies requests beyond the concurrency
// bound get ErrDispatcherBusy.
func TestDispatchRejectsWhenFull(t *testing.T) {
	f := newProcessorFixture(t)

	gen := newBlockingGenerator()
	f.processor.generator = gen
	d := NewDispatcher(f.processor, 1)

	require.NoError(t, d.Dispatch(testDeployRequest(1)))
	<-gen.started

	err := d.Dispatch(testDeployRequest(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrDispatcherBusy)

	close(gen.release)
	d.Wait()
}

// TestDispatchRunTimeout verifies a stuck run is cut off by the run
// timeout rather than leaking forever.
func TestDispatchRunTimeout(t *testing.T) {
	f := newProcessorFixture(t)

	gen := newBlockingGenerator()
	f.processor.generator = gen
	d := NewDispatcher(f.processor, 1, WithDispatcherRunTimeout(50*time.Millisecond))

	require.NoError(t, d.Dispatch(testDeployRequest(1)))
	<-gen.started
	d.Wait()

	// The slot must be free again after the timeout
	require.NoError(t, d.Dispatch(testDeployRequest(1)))
	close(gen.release)
	d.Wait()
}
