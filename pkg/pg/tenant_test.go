package pg_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/pg"
)

var testMetadata = execctx.NewModuleMetadata("mod-orders")

type rawSchemaMetadata struct{ name string }

func (m rawSchemaMetadata) ModuleName() string       { return "raw" }
func (m rawSchemaMetadata) SchemaName(string) string { return m.name }

func TestTenantSchema(t *testing.T) {
	t.Parallel()

	schema, err := pg.TenantSchema(testMetadata, "diku")
	require.NoError(t, err)
	assert.Equal(t, testMetadata.SchemaName("diku"), schema)

	_, err = pg.TenantSchema(testMetadata, " ")
	assert.ErrorIs(t, err, pg.ErrMissingTenant)

	for _, bad := range []string{`x"; DROP TABLE users; --`, "Upper", "1starts_with_digit", ""} {
		_, err = pg.TenantSchema(rawSchemaMetadata{name: bad}, "diku")
		assert.ErrorIs(t, err, pg.ErrInvalidSchemaName, bad)
	}
}

func TestCurrentSchema(t *testing.T) {
	t.Parallel()

	_, err := pg.CurrentSchema(context.Background())
	assert.ErrorIs(t, err, pg.ErrNoExecutionContext)

	ctx := execctx.Bind(context.Background(), execctx.NewBackground("diku", testMetadata))
	schema, err := pg.CurrentSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, testMetadata.SchemaName("diku"), schema)
}

func TestWithTenant_RequiresBoundContext(t *testing.T) {
	t.Parallel()

	called := false
	err := pg.WithTenant(context.Background(), nil, func(context.Context, pgx.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, pg.ErrNoExecutionContext)
	assert.False(t, called)
}

func TestDisableTenant_WithoutPurgeIsNoop(t *testing.T) {
	t.Parallel()

	require.NoError(t, pg.DisableTenant(context.Background(), nil, testMetadata, "diku", false))

	err := pg.DisableTenant(context.Background(), nil, testMetadata, "", true)
	assert.ErrorIs(t, err, pg.ErrMissingTenant)
}
