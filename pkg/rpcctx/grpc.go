package rpcctx

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

// UnaryServerInterceptor binds the execution context decoded from the
// incoming metadata for the duration of each call. Calls with malformed okapi
// metadata fail with codes.InvalidArgument.
func UnaryServerInterceptor(md execctx.ModuleMetadata) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ec, err := fromIncoming(ctx, md)
		if err != nil {
			return nil, err
		}

		var resp any
		err = execctx.WithScope(ctx, ec, func(ctx context.Context) error {
			var herr error
			resp, herr = handler(ctx, req)
			return herr
		})
		return resp, err
	}
}

// StreamServerInterceptor is UnaryServerInterceptor for streaming calls.
func StreamServerInterceptor(md execctx.ModuleMetadata) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ec, err := fromIncoming(ss.Context(), md)
		if err != nil {
			return err
		}

		return execctx.WithScope(ss.Context(), ec, func(ctx context.Context) error {
			return handler(srv, &serverStream{ServerStream: ss, ctx: ctx})
		})
	}
}

// UnaryClientInterceptor adds the okapi headers of the bound execution
// context to the outgoing metadata. Keys already present are kept.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(outgoing(ctx), method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor is UnaryClientInterceptor for streaming calls.
func StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		return streamer(outgoing(ctx), desc, cc, method, opts...)
	}
}

type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *serverStream) Context() context.Context {
	return s.ctx
}

func fromIncoming(ctx context.Context, md execctx.ModuleMetadata) (*execctx.RequestContext, error) {
	in, _ := metadata.FromIncomingContext(ctx)
	ec, err := execctx.FromHeaders(in, md)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return ec, nil
}

// outgoing merges the bound context into the outgoing metadata. gRPC
// metadata keys are lowercase, so headers are decoded before merging.
func outgoing(ctx context.Context) context.Context {
	h, ok := execctx.OutboundHeaders(ctx)
	if !ok {
		return ctx
	}

	out, _ := metadata.FromOutgoingContext(ctx)
	out = out.Copy()
	for k, vs := range okapi.Decode(h) {
		if len(out.Get(k)) > 0 {
			continue
		}
		out.Append(k, vs...)
	}
	return metadata.NewOutgoingContext(ctx, out)
}
