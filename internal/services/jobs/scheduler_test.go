package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeJob struct {
	name     string
	interval time.Duration
	failures int32
	runs     atomic.Int32
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) NextRun(now time.Time) time.Time { return now.Add(j.interval) }

func (j *fakeJob) Run(context.Context) error {
	n := j.runs.Add(1)
	if n <= j.failures {
		return errors.New("boom")
	}
	return nil
}

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *fakeAlerter) SendAlert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, message)
	return nil
}

func (a *fakeAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

func TestExecuteJobWithRetrySucceedsAfterFailures(t *testing.T) {
	s := NewScheduler(testLogger(), nil).WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond})
	job := &fakeJob{name: "flaky", failures: 2}

	attemptErrors, err := s.executeJobWithRetry(context.Background(), job)
	require.NoError(t, err)
	assert.Nil(t, attemptErrors)
	assert.Equal(t, int32(3), job.runs.Load())
}

func TestExecuteJobWithRetryExhausted(t *testing.T) {
	s := NewScheduler(testLogger(), nil).WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond})
	job := &fakeJob{name: "broken", failures: 100}

	attemptErrors, err := s.executeJobWithRetry(context.Background(), job)
	require.Error(t, err)
	assert.Len(t, attemptErrors, 3)
	assert.Equal(t, 3, attemptErrors[2].attempt)
}

func TestSchedulerRunsAndAlerts(t *testing.T) {
	alerter := &fakeAlerter{}
	s := NewScheduler(testLogger(), alerter).WithRetryDelays([]time.Duration{time.Millisecond})
	job := &fakeJob{name: "broken", interval: 5 * time.Millisecond, failures: 2}
	s.Register(job)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return alerter.count() >= 1 && job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerWithoutJobs(t *testing.T) {
	s := NewScheduler(testLogger(), nil)
	assert.NoError(t, s.Start(context.Background()))
}
