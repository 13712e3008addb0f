package async

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

// Group fans work out over goroutines that each inherit the caller's
// execution context in a scope cell of their own. The first error cancels
// the group context.
type Group struct {
	eg  *errgroup.Group
	ctx context.Context
}

// NewGroup returns a Group and the context its tasks receive.
func NewGroup(ctx context.Context) (*Group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: gctx}, gctx
}

// SetLimit bounds the number of active goroutines. A negative n removes the limit.
func (g *Group) SetLimit(n int) {
	g.eg.SetLimit(n)
}

// Go starts fn. It blocks while the group is at its limit.
func (g *Group) Go(fn func(ctx context.Context) error) {
	taskCtx := execctx.Fork(g.ctx)
	g.eg.Go(func() error {
		return fn(taskCtx)
	})
}

// Wait blocks until every task returns and yields the first error.
func (g *Group) Wait() error {
	return g.eg.Wait()
}

// ForEach runs fn for every item with at most limit concurrent calls
// (limit <= 0 means unbounded) and returns the first error.
func ForEach[T any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) error) error {
	g, _ := NewGroup(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, item := range items {
		g.Go(func(ctx context.Context) error {
			return fn(ctx, item)
		})
	}
	return g.Wait()
}
