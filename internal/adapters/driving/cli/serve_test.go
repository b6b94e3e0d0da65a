package cli

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

type fakeScheduler struct {
	mu        sync.Mutex
	applied   []domain.SchedulerConfig
	started   atomic.Bool
	stopped   atomic.Bool
	appliedCh chan struct{}
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{appliedCh: make(chan struct{}, 1)}
}

func (f *fakeScheduler) Start(ctx context.Context) error {
	f.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeScheduler) Stop() error {
	f.stopped.Store(true)
	return nil
}

func (f *fakeScheduler) ApplyConfig(_ context.Context, config domain.SchedulerConfig) error {
	f.mu.Lock()
	f.applied = append(f.applied, config)
	f.mu.Unlock()
	select {
	case f.appliedCh <- struct{}{}:
	default:
	}
	return nil
}

// oneShotWatcher reports a single change then waits for cancellation.
type oneShotWatcher struct{}

func (oneShotWatcher) Watch(ctx context.Context, onChange func()) error {
	onChange()
	<-ctx.Done()
	return ctx.Err()
}

func TestServeCmd_AppliesConfigChangesUntilCancelled(t *testing.T) {
	setupTestServices(t)
	sched := newFakeScheduler()
	scheduler = sched
	configWatcher = oneShotWatcher{}

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		select {
		case <-sched.appliedCh:
		case <-time.After(5 * time.Second):
		}
		cancel()
	}()

	out, err := runCommandContext(ctx, t, "", "serve")

	require.NoError(t, err)
	assert.Contains(t, out, "Scheduler running")
	assert.True(t, sched.started.Load())
	assert.True(t, sched.stopped.Load())
	sched.mu.Lock()
	defer sched.mu.Unlock()
	require.Len(t, sched.applied, 1)
	assert.True(t, sched.applied[0].Enabled)
}

func TestServeCmd_WithoutWatcher(t *testing.T) {
	setupTestServices(t)
	sched := newFakeScheduler()
	scheduler = sched

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := runCommandContext(ctx, t, "", "serve")

	require.NoError(t, err)
	assert.True(t, sched.stopped.Load())
}

func TestServeCmd_NoScheduler(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler not configured")
}
