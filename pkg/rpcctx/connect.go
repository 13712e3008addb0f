package rpcctx

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

// Interceptor propagates execution contexts over Connect RPCs. On clients it
// copies the okapi headers of the bound context onto the request; on
// handlers it binds the context decoded from the request headers.
type Interceptor struct {
	propagator *execctx.Propagator
}

var _ connect.Interceptor = (*Interceptor)(nil)

// NewInterceptor returns an Interceptor attaching md to decoded contexts.
func NewInterceptor(md execctx.ModuleMetadata) *Interceptor {
	return &Interceptor{propagator: execctx.NewPropagator(md)}
}

func (i *Interceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			if err := i.propagator.Inject(ctx, req.Header()); err != nil {
				return nil, err
			}
			return next(ctx, req)
		}

		scoped, err := i.extract(ctx, req.Header())
		if err != nil {
			return nil, err
		}
		return next(scoped, req)
	}
}

func (i *Interceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		_ = i.propagator.Inject(ctx, conn.RequestHeader())
		return conn
	}
}

func (i *Interceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		scoped, err := i.extract(ctx, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(scoped, conn)
	}
}

func (i *Interceptor) extract(ctx context.Context, headers http.Header) (context.Context, error) {
	scoped, err := i.propagator.Extract(ctx, headers)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return scoped, nil
}
