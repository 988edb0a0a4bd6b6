// Package workers runs independent analytics tasks concurrently on a bounded
// number of goroutines.
package workers

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work run by a Pool.
type Task func(ctx context.Context) error

// Pool runs batches of tasks with at most Workers of them in flight and
// keeps counters across batches.
type Pool struct {
	workers     int
	running     atomic.Int64
	tasksTotal  atomic.Uint64
	tasksDone   atomic.Uint64
	tasksFailed atomic.Uint64
}

// NewPool creates a pool with the given number of workers.
// If workers is 0, it defaults to runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Run executes tasks and waits for all of them. The first failure cancels
// the context passed to the remaining tasks and is returned. Tasks that
// start after ctx is done are skipped with ctx.Err(). A panicking task is
// reported as an error.
func (p *Pool) Run(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	p.running.Add(1)
	defer p.running.Add(-1)

	for _, task := range tasks {
		task := task
		p.tasksTotal.Add(1)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("task panicked: %v", r)
				}
				if err != nil {
					p.tasksFailed.Add(1)
				}
				p.tasksDone.Add(1)
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(gctx)
		})
	}
	return g.Wait()
}

// Stats returns pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:     p.workers,
		Running:     p.running.Load() > 0,
		TasksTotal:  p.tasksTotal.Load(),
		TasksDone:   p.tasksDone.Load(),
		TasksFailed: p.tasksFailed.Load(),
	}
}

// PoolStats contains worker pool statistics.
type PoolStats struct {
	Workers     int
	Running     bool
	TasksTotal  uint64
	TasksDone   uint64
	TasksFailed uint64
}
