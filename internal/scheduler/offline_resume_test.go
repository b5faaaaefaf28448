package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	mu        sync.Mutex
	pending   bool
	running   bool
	delayed   int
	immediate int
	started   chan struct{}
}

func newFakeSyncer(pending bool) *fakeSyncer {
	return &fakeSyncer{pending: pending, started: make(chan struct{}, 4)}
}

func (f *fakeSyncer) Run(ctx context.Context) error {
	f.mu.Lock()
	f.delayed++
	f.mu.Unlock()
	return f.block(ctx)
}

func (f *fakeSyncer) RunImmediately(ctx context.Context) error {
	f.mu.Lock()
	f.immediate++
	f.mu.Unlock()
	return f.block(ctx)
}

func (f *fakeSyncer) block(ctx context.Context) error {
	f.mu.Lock()
	f.running = true
	f.mu.Unlock()
	f.started <- struct{}{}

	<-ctx.Done()

	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
	return ctx.Err()
}

func (f *fakeSyncer) Pending() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, nil
}

func (f *fakeSyncer) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeSyncer) counts() (delayed, immediate int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.delayed, f.immediate
}

func waitStarted(t *testing.T, f *fakeSyncer) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("syncer was not started")
	}
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("*/30 * * * *"))
	assert.NoError(t, ValidateCronSchedule("0 0 * * *"))
	assert.Error(t, ValidateCronSchedule("every half hour"))
	assert.Error(t, ValidateCronSchedule("* * * * * *"))
}

func TestGetCronDescription(t *testing.T) {
	assert.Equal(t, "Every 30 minutes", GetCronDescription("*/30 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", GetCronDescription("5 4 * * *"))
}

func TestOfflineResumeScheduler_StartLaunchesDelayedRun(t *testing.T) {
	syncer := newFakeSyncer(true)
	s := NewOfflineResumeScheduler(syncer, "*/30 * * * *")

	require.NoError(t, s.Start(context.Background()))
	waitStarted(t, syncer)

	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())
	delayed, immediate := syncer.counts()
	assert.Equal(t, 1, delayed)
	assert.Equal(t, 0, immediate)

	assert.False(t, s.RunNow(), "a run is already active")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.False(t, syncer.IsRunning(), "stop cancels the active run")
	assert.Nil(t, s.GetNextRunTime())
}

func TestOfflineResumeScheduler_NothingPending(t *testing.T) {
	syncer := newFakeSyncer(false)
	s := NewOfflineResumeScheduler(syncer, "*/30 * * * *")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.False(t, s.RunNow())
	delayed, immediate := syncer.counts()
	assert.Zero(t, delayed)
	assert.Zero(t, immediate)
}

func TestOfflineResumeScheduler_RunNowAfterStop(t *testing.T) {
	syncer := newFakeSyncer(true)
	s := NewOfflineResumeScheduler(syncer, "*/30 * * * *")

	assert.False(t, s.RunNow(), "not started")

	require.NoError(t, s.Start(context.Background()))
	waitStarted(t, syncer)
	s.Stop()

	assert.False(t, s.RunNow())
}

func TestOfflineResumeScheduler_RunNowResumes(t *testing.T) {
	syncer := newFakeSyncer(true)
	s := NewOfflineResumeScheduler(syncer, "*/30 * * * *")

	require.NoError(t, s.Start(context.Background()))
	waitStarted(t, syncer)

	// Pretend the first run has returned.
	syncer.mu.Lock()
	syncer.running = false
	syncer.mu.Unlock()

	assert.True(t, s.RunNow())
	waitStarted(t, syncer)
	_, immediate := syncer.counts()
	assert.Equal(t, 1, immediate)

	s.Stop()
}

func TestOfflineResumeScheduler_InvalidSchedule(t *testing.T) {
	s := NewOfflineResumeScheduler(newFakeSyncer(true), "not a schedule")
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
