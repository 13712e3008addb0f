package execctx

import (
	"context"
	"sync"
)

type scopeKey struct{}

// cell holds the stack of execution contexts bound to one unit of work.
// Every context derived from the unit shares the cell.
type cell struct {
	mu    sync.Mutex
	stack []ExecutionContext
}

func (c *cell) push(ec ExecutionContext) {
	c.mu.Lock()
	c.stack = append(c.stack, ec)
	c.mu.Unlock()
}

func (c *cell) pop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.stack) == 0 {
		return false
	}
	c.stack[len(c.stack)-1] = nil
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

func (c *cell) top() (ExecutionContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.stack) == 0 {
		return nil, false
	}
	ec := c.stack[len(c.stack)-1]
	return ec, ec != nil
}

func cellFrom(ctx context.Context) (*cell, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(scopeKey{}).(*cell)
	return c, ok
}

// Begin binds ec to the unit of work carried by ctx, remembering the
// previously bound context. If ctx has no scope cell yet, one is attached and
// the returned context must be used for End and Current.
// Binding a nil ec hides any outer context until the matching End.
//
// Begin and End mutate the cell shared by every context of the unit, so the
// pair belongs to the goroutine that owns the unit. Goroutines sharing a
// unit's context must use WithScope instead.
func Begin(ctx context.Context, ec ExecutionContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	c, ok := cellFrom(ctx)
	if !ok {
		c = &cell{}
		ctx = context.WithValue(ctx, scopeKey{}, c)
	}
	c.push(ec)
	return ctx
}

// End restores the execution context that was bound before the matching
// Begin, which may be none. It returns ErrScopeNotActive when nothing is bound.
func End(ctx context.Context) error {
	c, ok := cellFrom(ctx)
	if !ok || !c.pop() {
		return ErrScopeNotActive
	}
	return nil
}

// Current returns the execution context bound to the unit of work.
// It reports false when no scope is active.
func Current(ctx context.Context) (ExecutionContext, bool) {
	c, ok := cellFrom(ctx)
	if !ok {
		return nil, false
	}
	return c.top()
}

// MustCurrent is like Current but panics with ErrScopeNotActive.
// Use it only where an earlier middleware guarantees a bound context.
func MustCurrent(ctx context.Context) ExecutionContext {
	ec, ok := Current(ctx)
	if !ok {
		panic(ErrScopeNotActive)
	}
	return ec
}

// WithScope runs fn with ec bound. fn receives a context with its own scope
// frame, so the binding of ctx is never touched and is in effect again once
// fn returns, fails or panics. Errors and panics from fn propagate unchanged.
// Concurrent calls on the same ctx do not observe each other's binding.
func WithScope(ctx context.Context, ec ExecutionContext, fn func(ctx context.Context) error) error {
	return fn(Bind(ctx, ec))
}

// Bind starts a new unit of work on top of ctx with ec as its root binding.
// Cancellation and values of ctx are kept, but scope changes made through the
// returned context never reach the unit ctx belongs to.
func Bind(ctx context.Context, ec ExecutionContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &cell{}
	if ec != nil {
		c.stack = append(c.stack, ec)
	}
	return context.WithValue(ctx, scopeKey{}, c)
}

// Fork starts a new unit of work that inherits the currently bound execution
// context. It is the entry point for work handed to another goroutine.
func Fork(ctx context.Context) context.Context {
	ec, _ := Current(ctx)
	return Bind(ctx, ec)
}
