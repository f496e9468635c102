package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunCollectsPerTaskErrors(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Shutdown()
	assert.Equal(t, 3, pool.Size())

	boom := errors.New("boom")
	var calls atomic.Int32
	errs, err := pool.Run(context.Background(), 10, func(_ context.Context, i int) error {
		calls.Add(1)
		if i%4 == 0 {
			return boom
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, errs, 10)
	assert.Equal(t, int32(10), calls.Load())
	for i, e := range errs {
		if i%4 == 0 {
			assert.ErrorIs(t, e, boom, "task %d", i)
		} else {
			assert.NoError(t, e, "task %d", i)
		}
	}
}

func TestWorkerPool_DefaultSize(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()
	assert.Positive(t, pool.Size())
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(2)
	var done atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { done.Add(1) }))
	}
	pool.Shutdown()
	pool.Shutdown()
	assert.Equal(t, int32(5), done.Load(), "queued tasks finish before Shutdown returns")
	assert.ErrorIs(t, pool.Submit(context.Background(), func() {}), ErrPoolShutdown)

	_, err := pool.Run(context.Background(), 2, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, ErrPoolShutdown)
}

func TestWorkerPool_RunStopsOnCancel(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	// one busy worker plus a queue of two: a later submission waits for cancel
	time.AfterFunc(20*time.Millisecond, cancel)
	errs, err := pool.Run(ctx, 6, func(ctx context.Context, i int) error {
		if i == 0 {
			<-ctx.Done()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, errs[5], context.Canceled)
}
