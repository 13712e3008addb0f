package async

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

// Future is the eventual result of a task started with Async or Go.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the task finishes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout is Await bounded by timeout. On timeout it returns
// ErrTimeout; the task keeps running.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// Done is closed when the task finishes.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the task has finished.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in a new goroutine and returns its Future.
//
// The goroutine gets its own scope cell bound to the execution context that
// is current in ctx, so fn sees the caller's tenant and token while Begin/End
// calls inside fn never affect the caller. A ctx that is already done
// completes the Future with ctx.Err() without calling fn. A panic in fn
// completes the Future with an error wrapping ErrPanic.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}
	taskCtx := execctx.Fork(ctx)

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result, f.err = zero, fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		if err := taskCtx.Err(); err != nil {
			f.err = err
			return
		}
		f.result, f.err = fn(taskCtx, param)
	}()

	return f
}

// Go runs fn in a new goroutine with the same scope handling as Async.
func Go(ctx context.Context, fn func(context.Context) error) *Future[struct{}] {
	return Async(ctx, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

// WaitAll awaits futures in order and returns their results. It stops at the
// first error, returning the results collected so far.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// WaitAny returns the index and result of the first future to finish.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}
	done := make(chan outcome, len(futures))

	for i, future := range futures {
		go func(index int, f *Future[U]) {
			result, err := f.Await()
			done <- outcome{index, result, err}
		}(i, future)
	}

	res := <-done
	return res.index, res.result, res.err
}
