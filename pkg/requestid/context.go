package requestid

import (
	"context"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

type contextKey struct{}

// WithContext stores requestID in ctx.
func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// FromContext returns the request id stored by Middleware, falling back to
// the one of the bound execution context.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(contextKey{}).(string); ok && requestID != "" {
		return requestID
	}
	if h, ok := execctx.OutboundHeaders(ctx); ok {
		return h.Get(okapi.RequestID)
	}
	return ""
}
