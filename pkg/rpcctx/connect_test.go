package rpcctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/rpcctx"
)

const whoAmIProcedure = "/okapikit.test.v1.IdentityService/WhoAmI"

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(whoAmIProcedure, connect.NewUnaryHandler(whoAmIProcedure,
		func(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.StringValue], error) {
			ec, ok := execctx.Current(ctx)
			if !ok {
				return nil, connect.NewError(connect.CodeFailedPrecondition, execctx.ErrScopeNotActive)
			}
			return connect.NewResponse(wrapperspb.String(ec.TenantID() + "|" + ec.Token())), nil
		},
		connect.WithInterceptors(rpcctx.NewInterceptor(testMetadata)),
	))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestInterceptor_Unary(t *testing.T) {
	t.Parallel()

	srv := newIdentityServer(t)
	client := connect.NewClient[emptypb.Empty, wrapperspb.StringValue](
		srv.Client(),
		srv.URL+whoAmIProcedure,
		connect.WithInterceptors(rpcctx.NewInterceptor(testMetadata)),
	)

	t.Run("bound context reaches the handler", func(t *testing.T) {
		t.Parallel()
		ctx := boundContext(t, map[string][]string{
			"x-okapi-tenant": {"acme"},
			"x-okapi-token":  {"tok"},
		})

		resp, err := client.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
		require.NoError(t, err)
		assert.Equal(t, "acme|tok", resp.Msg.GetValue())
	})

	t.Run("explicit header wins", func(t *testing.T) {
		t.Parallel()
		ctx := boundContext(t, map[string][]string{"x-okapi-tenant": {"acme"}})
		req := connect.NewRequest(&emptypb.Empty{})
		req.Header().Set("X-Okapi-Tenant", "globex")

		resp, err := client.CallUnary(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "globex|", resp.Msg.GetValue())
	})

	t.Run("malformed user id is rejected", func(t *testing.T) {
		t.Parallel()
		req := connect.NewRequest(&emptypb.Empty{})
		req.Header().Set("X-Okapi-User-Id", "nope")

		_, err := client.CallUnary(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}
