// Package parallel runs independent placement problems concurrently. Each
// task owns its model, store and constraint; nothing is shared between
// tasks, so a fixed-size pool of goroutines is all the coordination needed.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// WorkerPool manages a fixed set of goroutines fed through a bounded task
// channel. Submit blocks while the channel is full.
type WorkerPool struct {
	maxWorkers int
	taskChan   chan func()
	workerWg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskChan:   make(chan func(), maxWorkers*2),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		if task != nil {
			task()
		}
	}
}

// Submit queues task. It blocks while the queue is full and gives up when
// ctx is done or the pool was shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolShutdown
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, lets the queued ones finish and waits for
// every worker to exit. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskChan)
		wp.mu.Unlock()
		wp.workerWg.Wait()
	})
}

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")

// Run calls fn(ctx, i) for every i in [0, n) on the pool and waits for the
// submitted calls to return. errs[i] holds the result of call i. When ctx is
// cancelled the remaining indexes are not submitted; their errs entry is the
// context error, which is also returned.
func (wp *WorkerPool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) (errs []error, err error) {
	errs = make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		serr := ctx.Err()
		if serr == nil {
			i := i
			wg.Add(1)
			serr = wp.Submit(ctx, func() {
				defer wg.Done()
				errs[i] = fn(ctx, i)
			})
			if serr != nil {
				wg.Done()
			}
		}
		if serr != nil {
			for j := i; j < n; j++ {
				errs[j] = serr
			}
			err = serr
			break
		}
	}
	wg.Wait()
	return errs, err
}
