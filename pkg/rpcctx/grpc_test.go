package rpcctx_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/rpcctx"
)

func TestUnaryServerInterceptor(t *testing.T) {
	t.Parallel()

	intercept := rpcctx.UnaryServerInterceptor(testMetadata)
	info := &grpc.UnaryServerInfo{FullMethod: "/orders.v1.OrdersService/Get"}

	t.Run("binds the decoded context", func(t *testing.T) {
		t.Parallel()
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
			"x-okapi-tenant", "acme",
			"x-okapi-token", "tok",
			"x-okapi-user-id", testUserID,
		))

		resp, err := intercept(ctx, "req", info, func(ctx context.Context, req any) (any, error) {
			ec := execctx.MustCurrent(ctx)
			id, ok := ec.UserID()
			require.True(t, ok)
			return req.(string) + ":" + ec.TenantID() + ":" + ec.Token() + ":" + id.String(), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "req:acme:tok:"+testUserID, resp)

		_, ok := execctx.Current(ctx)
		assert.False(t, ok)
	})

	t.Run("no metadata yields an empty context", func(t *testing.T) {
		t.Parallel()
		_, err := intercept(context.Background(), nil, info, func(ctx context.Context, _ any) (any, error) {
			ec, ok := execctx.Current(ctx)
			require.True(t, ok)
			assert.Empty(t, ec.TenantID())
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("handler error is returned unchanged", func(t *testing.T) {
		t.Parallel()
		boom := status.Error(codes.NotFound, "missing")
		_, err := intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
			return nil, boom
		})
		assert.Same(t, boom, err)
	})

	t.Run("malformed user id", func(t *testing.T) {
		t.Parallel()
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-okapi-user-id", "nope"))
		called := false
		_, err := intercept(ctx, nil, info, func(context.Context, any) (any, error) {
			called = true
			return nil, nil
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.False(t, called)
	})
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context { return s.ctx }

func TestStreamServerInterceptor(t *testing.T) {
	t.Parallel()

	intercept := rpcctx.StreamServerInterceptor(testMetadata)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-okapi-tenant", "acme"))

	var tenant string
	err := intercept(nil, &fakeServerStream{ctx: ctx}, &grpc.StreamServerInfo{}, func(_ any, ss grpc.ServerStream) error {
		tenant = execctx.MustCurrent(ss.Context()).TenantID()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant)

	bad := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-okapi-user-id", "nope"))
	err = intercept(nil, &fakeServerStream{ctx: bad}, &grpc.StreamServerInfo{}, func(any, grpc.ServerStream) error {
		return errors.New("must not run")
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUnaryClientInterceptor(t *testing.T) {
	t.Parallel()

	intercept := rpcctx.UnaryClientInterceptor()

	capture := func(out *metadata.MD) grpc.UnaryInvoker {
		return func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
			*out, _ = metadata.FromOutgoingContext(ctx)
			return nil
		}
	}

	t.Run("adds lowercase okapi keys", func(t *testing.T) {
		t.Parallel()
		ctx := boundContext(t, map[string][]string{
			"X-Okapi-Tenant": {"acme"},
			"X-Okapi-Token":  {"tok"},
		})

		var md metadata.MD
		require.NoError(t, intercept(ctx, "/svc/M", nil, nil, nil, capture(&md)))
		assert.Equal(t, []string{"acme"}, md["x-okapi-tenant"])
		assert.Equal(t, []string{"tok"}, md["x-okapi-token"])
		for k := range md {
			assert.Equal(t, strings.ToLower(k), k)
		}
	})

	t.Run("existing metadata wins", func(t *testing.T) {
		t.Parallel()
		ctx := boundContext(t, map[string][]string{"x-okapi-tenant": {"acme"}})
		ctx = metadata.AppendToOutgoingContext(ctx, "x-okapi-tenant", "override", "trace", "1")

		var md metadata.MD
		require.NoError(t, intercept(ctx, "/svc/M", nil, nil, nil, capture(&md)))
		assert.Equal(t, []string{"override"}, md.Get("x-okapi-tenant"))
		assert.Equal(t, []string{"1"}, md.Get("trace"))
	})

	t.Run("unbound context passes through", func(t *testing.T) {
		t.Parallel()
		var md metadata.MD
		require.NoError(t, intercept(context.Background(), "/svc/M", nil, nil, nil, capture(&md)))
		assert.Empty(t, md)
	})
}

func TestStreamClientInterceptor(t *testing.T) {
	t.Parallel()

	ctx := boundContext(t, map[string][]string{"x-okapi-tenant": {"acme"}})

	var md metadata.MD
	_, err := rpcctx.StreamClientInterceptor()(ctx, &grpc.StreamDesc{}, nil, "/svc/S",
		func(ctx context.Context, _ *grpc.StreamDesc, _ *grpc.ClientConn, _ string, _ ...grpc.CallOption) (grpc.ClientStream, error) {
			md, _ = metadata.FromOutgoingContext(ctx)
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, md.Get("x-okapi-tenant"))
}
