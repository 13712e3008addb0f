package rpcctx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

const testUserID = "ad162b38-1291-4437-8948-9d13eeced9f6"

var testMetadata = execctx.NewModuleMetadata("mod-orders")

func boundContext(t *testing.T, headers map[string][]string) context.Context {
	t.Helper()
	ec, err := execctx.FromHeaders(headers, testMetadata)
	require.NoError(t, err)
	return execctx.Bind(context.Background(), ec)
}
