package workerpool

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWorkerPool_SubmitRunsTask(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("time.Sleep"))

	pool := New(Config{MaxWorkers: 2, QueueSize: 4}, testLogger())
	require.NoError(t, pool.Start())
	defer pool.Stop()

	var ran int64
	done := make(chan struct{})
	err := pool.Submit(Task{
		ID: "t1",
		Execute: func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			close(done)
			return nil
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run in time")
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestWorkerPool_StatsReflectCompletedTasks(t *testing.T) {
	pool := New(Config{MaxWorkers: 2, QueueSize: 4}, testLogger())
	require.NoError(t, pool.Start())
	defer pool.Stop()

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		err := pool.Submit(Task{
			ID: "t",
			Execute: func(ctx context.Context) error {
				defer wg.Done()
				return nil
			},
		})
		require.NoError(t, err)
	}
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if pool.Stats().CompletedTasks == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int64(3), pool.Stats().CompletedTasks)
}

func TestWorkerPool_SubmitBeforeStartFails(t *testing.T) {
	pool := New(Config{MaxWorkers: 1, QueueSize: 1}, testLogger())
	err := pool.Submit(Task{ID: "t", Execute: func(ctx context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrPoolNotRunning)
}

func TestWorkerPool_SubmitAfterStopFails(t *testing.T) {
	pool := New(Config{MaxWorkers: 1, QueueSize: 1}, testLogger())
	require.NoError(t, pool.Start())
	require.NoError(t, pool.Stop())

	err := pool.Submit(Task{ID: "t", Execute: func(ctx context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrPoolNotRunning)
}

func TestWorkerPool_QueueFullReturnsError(t *testing.T) {
	pool := New(Config{MaxWorkers: 1, QueueSize: 1}, testLogger())
	require.NoError(t, pool.Start())
	defer pool.Stop()

	block := make(chan struct{})
	defer close(block)
	// Occupy the single worker so every later submission has to queue up.
	require.NoError(t, pool.Submit(Task{
		ID: "blocker",
		Execute: func(ctx context.Context) error {
			<-block
			return nil
		},
	}))
	time.Sleep(20 * time.Millisecond)

	var sawQueueFull bool
	for i := 0; i < 20; i++ {
		err := pool.Submit(Task{ID: "filler", Execute: func(ctx context.Context) error { return nil }})
		if err == ErrQueueFull {
			sawQueueFull = true
			break
		}
	}
	assert.True(t, sawQueueFull, "expected at least one submission to observe a full queue while the only worker is blocked")
}

func TestWorkerPool_SubmitWithTimeout_TimesOutWhenFull(t *testing.T) {
	pool := New(Config{MaxWorkers: 1, QueueSize: 1}, testLogger())
	require.NoError(t, pool.Start())
	defer pool.Stop()

	block := make(chan struct{})
	defer close(block)
	require.NoError(t, pool.Submit(Task{
		ID: "blocker",
		Execute: func(ctx context.Context) error {
			<-block
			return nil
		},
	}))
	time.Sleep(20 * time.Millisecond)
	// Saturate the worker's own channel buffer, the dispatcher's pending
	// hand-off and the queue itself, so the queue has nowhere to drain to.
	for i := 0; i < 3; i++ {
		_ = pool.Submit(Task{ID: "filler", Execute: func(ctx context.Context) error { return nil }})
		time.Sleep(20 * time.Millisecond)
	}

	err := pool.SubmitWithTimeout(Task{ID: "overflow", Execute: func(ctx context.Context) error { return nil }}, 100*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWorkerPool_StartIsIdempotent(t *testing.T) {
	pool := New(Config{MaxWorkers: 1, QueueSize: 1}, testLogger())
	require.NoError(t, pool.Start())
	require.NoError(t, pool.Start())
	require.NoError(t, pool.Stop())
}

func TestWorkerPool_StopIsIdempotent(t *testing.T) {
	pool := New(Config{MaxWorkers: 1, QueueSize: 1}, testLogger())
	require.NoError(t, pool.Start())
	require.NoError(t, pool.Stop())
	require.NoError(t, pool.Stop())
}

func TestNew_AppliesDefaultsForZeroFields(t *testing.T) {
	pool := New(Config{}, testLogger())
	assert.Greater(t, pool.config.MaxWorkers, 0)
	assert.Greater(t, pool.config.QueueSize, 0)
	assert.Equal(t, 30*time.Second, pool.config.WorkerTimeout)
	assert.Equal(t, 30*time.Second, pool.config.ShutdownTimeout)
}
