package systemuser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/systemuser"
)

var testMetadata = execctx.NewModuleMetadata("mod-orders")

func loggedInClient(token string) *MockAuthClient {
	client := new(MockAuthClient)
	client.On("Login", mock.Anything, mock.Anything).Return(&systemuser.LoginResponse{
		AccessToken:           token,
		AccessTokenExpiration: issuedAt.Add(time.Hour).Format(time.RFC3339),
	}, nil)
	client.On("LookupUserID", mock.Anything, mock.Anything).Return(testUserID, nil)
	return client
}

func TestService_Run(t *testing.T) {
	t.Parallel()

	client := loggedInClient("tok")
	svc := systemuser.NewService(testConfig, testMetadata, client, systemuser.WithClock(fixedNow))

	var seen execctx.ExecutionContext
	err := svc.Run(context.Background(), "acme", func(ctx context.Context) error {
		seen = execctx.MustCurrent(ctx)
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, "acme", seen.TenantID())
	assert.Equal(t, "http://gw", seen.OkapiURL())
	assert.Equal(t, "tok", seen.Token())
	id, ok := seen.UserID()
	require.True(t, ok)
	assert.Equal(t, testUserID, id.String())
	assert.Same(t, testMetadata, seen.Metadata())

	// second run reuses the cached credential
	require.NoError(t, svc.Run(context.Background(), "acme", func(context.Context) error { return nil }))
	client.AssertNumberOfCalls(t, "Login", 1)
	client.AssertNumberOfCalls(t, "LookupUserID", 1)
}

func TestService_RunConcurrentlyFromOneRequest(t *testing.T) {
	t.Parallel()

	svc := systemuser.NewService(testConfig, testMetadata, loggedInClient("tok"), systemuser.WithClock(fixedNow))

	caller, err := execctx.FromHeaders(map[string][]string{"x-okapi-tenant": {"caller"}}, testMetadata)
	require.NoError(t, err)
	reqCtx := execctx.Bind(context.Background(), caller)

	eg, egCtx := errgroup.WithContext(reqCtx)
	for i := range 8 {
		tenant := fmt.Sprintf("tenant-%d", i)
		eg.Go(func() error {
			for range 50 {
				err := svc.Run(egCtx, tenant, func(ctx context.Context) error {
					if got := execctx.MustCurrent(ctx).TenantID(); got != tenant {
						return fmt.Errorf("bound tenant %q, want %q", got, tenant)
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	assert.Equal(t, "caller", execctx.MustCurrent(reqCtx).TenantID())
}

func TestService_RunPropagatesErrors(t *testing.T) {
	t.Parallel()

	t.Run("callback error restores the scope", func(t *testing.T) {
		t.Parallel()
		svc := systemuser.NewService(testConfig, testMetadata, loggedInClient("tok"), systemuser.WithClock(fixedNow))
		boom := errors.New("boom")

		ctx := execctx.Bind(context.Background(), nil)
		err := svc.Run(ctx, "acme", func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)

		_, ok := execctx.Current(ctx)
		assert.False(t, ok)
	})

	t.Run("login failure skips the callback", func(t *testing.T) {
		t.Parallel()
		client := new(MockAuthClient)
		client.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
		svc := systemuser.NewService(testConfig, testMetadata, client)

		called := false
		err := svc.Run(context.Background(), "acme", func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, systemuser.ErrAuthorization)
		assert.False(t, called)
	})
}

func TestService_Disabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig
	cfg.Enabled = false
	client := new(MockAuthClient)
	svc := systemuser.NewService(cfg, testMetadata, client)

	_, err := svc.GetValidCredential(context.Background(), "acme")
	assert.ErrorIs(t, err, systemuser.ErrDisabled)

	ec, err := svc.Context(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", ec.TenantID())
	assert.Equal(t, "http://gw", ec.OkapiURL())
	assert.Empty(t, ec.Token())
	assert.False(t, ec.OkapiHeaders().Has("x-okapi-token"))

	client.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestService_RefreshDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig
	cfg.RefreshEnabled = false
	cfg.LookupUserID = false

	now := issuedAt
	client := loggedInClient("tok")
	svc := systemuser.NewService(cfg, testMetadata, client, systemuser.WithClock(func() time.Time { return now }))

	first, err := svc.GetValidCredential(context.Background(), "acme")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	second, err := svc.GetValidCredential(context.Background(), "acme")
	require.NoError(t, err)

	assert.Same(t, first, second)
	client.AssertNumberOfCalls(t, "Login", 1)
}

func TestService_Invalidate(t *testing.T) {
	t.Parallel()

	client := loggedInClient("tok")
	svc := systemuser.NewService(testConfig, testMetadata, client, systemuser.WithClock(fixedNow))

	_, err := svc.GetValidCredential(context.Background(), "acme")
	require.NoError(t, err)
	svc.Invalidate("acme")
	assert.Equal(t, 0, svc.Cache().Len())

	_, err = svc.GetValidCredential(context.Background(), "acme")
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "Login", 2)
}

func TestService_TokenSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := systemuser.NewService(testConfig, testMetadata, loggedInClient("tok"), systemuser.WithClock(fixedNow))
	ts := svc.TokenSource(context.Background(), "acme")

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	resp, err := oauth2.NewClient(context.Background(), ts).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
