package execctx_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

const testUserID = "ad162b38-1291-4437-8948-9d13eeced9f6"

var testMetadata = execctx.NewModuleMetadata("mod-orders")

func TestFromHeaders(t *testing.T) {
	t.Parallel()

	t.Run("full okapi header set", func(t *testing.T) {
		t.Parallel()
		headers := map[string][]string{
			"x-okapi-tenant":  {"acme"},
			"x-okapi-url":     {"http://gw"},
			"x-okapi-token":   {"tok"},
			"x-okapi-user-id": {testUserID},
		}

		ec, err := execctx.FromHeaders(headers, testMetadata)
		require.NoError(t, err)

		assert.Equal(t, "acme", ec.TenantID())
		assert.Equal(t, "http://gw", ec.OkapiURL())
		assert.Equal(t, "tok", ec.Token())
		assert.Equal(t, "", ec.RequestID())

		id, ok := ec.UserID()
		require.True(t, ok)
		assert.Equal(t, uuid.MustParse(testUserID), id)

		assert.Equal(t, okapi.Headers(headers), ec.OkapiHeaders())
		assert.Len(t, ec.OkapiHeaders(), 4)
		assert.Same(t, testMetadata, ec.Metadata())
	})

	t.Run("empty header map", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromHeaders(map[string][]string{}, testMetadata)
		require.NoError(t, err)

		assert.Equal(t, "", ec.TenantID())
		assert.Equal(t, "", ec.OkapiURL())
		assert.Equal(t, "", ec.Token())
		assert.Equal(t, "", ec.RequestID())
		_, ok := ec.UserID()
		assert.False(t, ok)
		assert.Empty(t, ec.OkapiHeaders())
		assert.Empty(t, ec.AllHeaders())
	})

	t.Run("nil header map", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromHeaders(nil, testMetadata)
		require.NoError(t, err)
		assert.Equal(t, "", ec.Token())
		assert.NotNil(t, ec.OkapiHeaders())
	})

	t.Run("filters okapi headers case-insensitively and keeps value lists", func(t *testing.T) {
		t.Parallel()
		headers := map[string][]string{
			"X-Okapi-Tenant":      {"diku"},
			"X-OKAPI-PERMISSIONS": {"a", "b"},
			"Content-Type":        {"application/json"},
			"X-Request-Id":        {"ignored"},
		}

		ec, err := execctx.FromHeaders(headers, testMetadata)
		require.NoError(t, err)

		assert.Equal(t, okapi.Headers{
			"X-Okapi-Tenant":      {"diku"},
			"X-OKAPI-PERMISSIONS": {"a", "b"},
		}, ec.OkapiHeaders())
		assert.Equal(t, okapi.Headers(headers), ec.AllHeaders())
		assert.Equal(t, "diku", ec.TenantID())
	})

	t.Run("first value wins", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromHeaders(map[string][]string{
			"x-okapi-token":      {"first", "second"},
			"x-okapi-request-id": {"r1", "r2"},
		}, testMetadata)
		require.NoError(t, err)
		assert.Equal(t, "first", ec.Token())
		assert.Equal(t, "r1", ec.RequestID())
	})

	t.Run("malformed user id fails", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromHeaders(map[string][]string{
			"x-okapi-tenant":  {"diku"},
			"x-okapi-user-id": {"not-a-uuid"},
		}, testMetadata)
		require.Error(t, err)
		assert.ErrorIs(t, err, execctx.ErrInvalidUserID)
		assert.Nil(t, ec)
	})

	t.Run("non canonical user id spellings fail", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{
			"urn:uuid:" + testUserID,
			"{" + testUserID + "}",
			strings.ReplaceAll(testUserID, "-", ""),
			" " + testUserID + " ",
		} {
			ec, err := execctx.FromHeaders(map[string][]string{
				"x-okapi-tenant":  {"diku"},
				"x-okapi-user-id": {raw},
			}, testMetadata)
			assert.ErrorIs(t, err, execctx.ErrInvalidUserID, raw)
			assert.Nil(t, ec, raw)
		}
	})

	t.Run("user id header without values is absent", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromHeaders(map[string][]string{
			"x-okapi-user-id": {},
		}, testMetadata)
		require.NoError(t, err)
		_, ok := ec.UserID()
		assert.False(t, ok)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		headers := map[string][]string{
			"x-okapi-tenant":  {"diku"},
			"x-okapi-user-id": {testUserID},
			"accept":          {"*/*"},
		}
		a, err := execctx.FromHeaders(headers, testMetadata)
		require.NoError(t, err)
		b, err := execctx.FromHeaders(headers, testMetadata)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("context does not alias input", func(t *testing.T) {
		t.Parallel()
		headers := map[string][]string{"x-okapi-tenant": {"diku"}}
		ec, err := execctx.FromHeaders(headers, testMetadata)
		require.NoError(t, err)

		headers["x-okapi-tenant"][0] = "changed"
		got := ec.OkapiHeaders()
		got["x-okapi-tenant"][0] = "changed-again"

		assert.Equal(t, "diku", ec.TenantID())
		assert.Equal(t, []string{"diku"}, ec.OkapiHeaders()["x-okapi-tenant"])
	})
}

func TestFromMessageHeaders(t *testing.T) {
	t.Parallel()

	ec, err := execctx.FromMessageHeaders([]okapi.MessageHeader{
		{Key: "X-OKAPI-TENANT", Value: []byte("diku")},
		{Key: "x-okapi-token", Value: "tok"},
		{Key: "x-okapi-user-id", Value: []byte(testUserID)},
		{Key: "partition", Value: []byte("3")},
	}, testMetadata)
	require.NoError(t, err)

	assert.Equal(t, "diku", ec.TenantID())
	assert.Equal(t, "tok", ec.Token())
	id, ok := ec.UserID()
	require.True(t, ok)
	assert.Equal(t, testUserID, id.String())
	assert.Len(t, ec.AllHeaders(), 3)
}

func TestFromSystemUser(t *testing.T) {
	t.Parallel()

	t.Run("with token", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromSystemUser(execctx.SystemIdentity{
			TenantID: "diku",
			OkapiURL: "http://gw",
			Token:    "tok",
			UserID:   testUserID,
		}, testMetadata)
		require.NoError(t, err)

		assert.Equal(t, "diku", ec.TenantID())
		assert.Equal(t, "http://gw", ec.OkapiURL())
		assert.Equal(t, "tok", ec.Token())
		id, ok := ec.UserID()
		require.True(t, ok)
		assert.Equal(t, testUserID, id.String())
		assert.ElementsMatch(t,
			[]string{okapi.Tenant, okapi.URL, okapi.Token, okapi.UserID},
			ec.OkapiHeaders().Keys())
	})

	t.Run("without token omits the header", func(t *testing.T) {
		t.Parallel()
		ec, err := execctx.FromSystemUser(execctx.SystemIdentity{
			TenantID: "diku",
			OkapiURL: "http://gw",
		}, testMetadata)
		require.NoError(t, err)

		assert.Equal(t, "", ec.Token())
		assert.False(t, ec.OkapiHeaders().Has(okapi.Token))
		_, ok := ec.UserID()
		assert.False(t, ok)
	})
}
