// Package async runs work in background goroutines without losing the
// execution context of the unit of work that started it.
//
// Async and Go start a function in its own goroutine and return a Future.
// The goroutine receives a context whose scope cell is pre-bound to the
// caller's current execution context (see execctx.Fork), so outbound calls
// made from the task carry the caller's tenant, token and request id, and
// scope changes inside the task stay local to it.
//
//	fut := async.Async(ctx, orderID, func(ctx context.Context, id string) (*Order, error) {
//	    ec := execctx.MustCurrent(ctx) // the caller's context
//	    return loadOrder(ctx, ec.TenantID(), id)
//	})
//	order, err := fut.Await()
//
// Group and ForEach fan work out over golang.org/x/sync/errgroup with the
// same propagation per goroutine. WaitAll and WaitAny coordinate several
// futures.
//
// A panic inside a task is recovered and reported as an error wrapping
// ErrPanic.
package async
