package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(counter *int64) Task {
	return func(ctx context.Context) error {
		atomic.AddInt64(counter, 1)
		return nil
	}
}

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(4)

	var counter int64
	tasks := make([]Task, 50)
	for i := range tasks {
		tasks[i] = counting(&counter)
	}
	require.NoError(t, pool.Run(context.Background(), tasks...))
	assert.Equal(t, int64(50), atomic.LoadInt64(&counter))

	stats := pool.Stats()
	assert.False(t, stats.Running)
	assert.Equal(t, uint64(50), stats.TasksTotal)
	assert.Equal(t, uint64(50), stats.TasksDone)
	assert.Zero(t, stats.TasksFailed)
}

func TestPoolLimitsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var inFlight, peak int64
	task := func(ctx context.Context) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return nil
	}
	require.NoError(t, pool.Run(context.Background(), task, task, task, task, task, task))
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestPoolCountsAcrossBatches(t *testing.T) {
	pool := NewPool(1)
	var counter int64
	require.NoError(t, pool.Run(context.Background(), counting(&counter)))
	require.NoError(t, pool.Run(context.Background(), counting(&counter), counting(&counter)))
	assert.Equal(t, uint64(3), pool.Stats().TasksDone)
}

func TestNewPoolDefaultsWorkers(t *testing.T) {
	assert.Greater(t, NewPool(0).Stats().Workers, 0)
}

func TestPoolReturnsFirstError(t *testing.T) {
	pool := NewPool(1)

	boom := errors.New("boom")
	var ran int64
	err := pool.Run(context.Background(),
		counting(&ran),
		func(ctx context.Context) error { return boom },
		counting(&ran),
	)
	assert.ErrorIs(t, err, boom)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&ran), int64(1))
	assert.GreaterOrEqual(t, pool.Stats().TasksFailed, uint64(1))
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := NewPool(1)

	err := pool.Run(context.Background(), func(ctx context.Context) error { panic("bad trade") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad trade")
	assert.Equal(t, uint64(1), pool.Stats().TasksFailed)
}

func TestPoolHonorsCancellation(t *testing.T) {
	pool := NewPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	err := pool.Run(ctx, counting(&ran))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt64(&ran))
}

func TestPoolRunEmpty(t *testing.T) {
	assert.NoError(t, NewPool(2).Run(context.Background()))
}
