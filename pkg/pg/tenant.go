package pg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// TxBeginner starts transactions. *pgxpool.Pool and pgx.Tx satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Execer runs statements. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTenant runs fn in a transaction whose search_path is the schema of the
// tenant bound to ctx, followed by public. The setting is transaction-local,
// so the pooled connection is returned clean.
func WithTenant(ctx context.Context, db TxBeginner, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return withTenant(ctx, db, "public", fn)
}

func withTenant(ctx context.Context, db TxBeginner, extra string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	schema, err := CurrentSchema(ctx)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT set_config('search_path', $1, true)", searchPath(schema, extra)); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

// TenantExists reports whether the schema of tenantID exists.
func TenantExists(ctx context.Context, db Execer, md execctx.ModuleMetadata, tenantID string) (bool, error) {
	schema, err := TenantSchema(md, tenantID)
	if err != nil {
		return false, err
	}
	var exists bool
	err = db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)", schema,
	).Scan(&exists)
	return exists, err
}

// EnableTenant creates the schema of tenantID if needed and applies the
// tenant migrations to it. Calling it again upgrades the schema.
func EnableTenant(ctx context.Context, pool *pgxpool.Pool, md execctx.ModuleMetadata, tenantID string, cfg Config, log migrationLogger) error {
	schema, err := TenantSchema(md, tenantID)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return err
	}
	return Migrate(ctx, pool, schema, cfg, log)
}

// DisableTenant drops the schema of tenantID with everything in it when
// purge is set. Without purge the data is kept and nothing happens.
func DisableTenant(ctx context.Context, db Execer, md execctx.ModuleMetadata, tenantID string, purge bool) error {
	schema, err := TenantSchema(md, tenantID)
	if err != nil {
		return err
	}
	if !purge {
		return nil
	}
	_, err = db.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE")
	return err
}

// Tenants bundles the per-tenant schema operations of one module.
type Tenants struct {
	pool     *pgxpool.Pool
	metadata execctx.ModuleMetadata
	cfg      Config
	logger   *slog.Logger
}

// NewTenants returns the schema manager for md on pool.
func NewTenants(pool *pgxpool.Pool, md execctx.ModuleMetadata, cfg Config, logger *slog.Logger) *Tenants {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tenants{pool: pool, metadata: md, cfg: cfg, logger: logger}
}

// Enable creates and migrates the schema of tenantID.
func (t *Tenants) Enable(ctx context.Context, tenantID string) error {
	if err := EnableTenant(ctx, t.pool, t.metadata, tenantID, t.cfg, t.logger); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "tenant schema enabled", logger.TenantID(tenantID))
	return nil
}

// Disable drops the schema of tenantID when purge is set.
func (t *Tenants) Disable(ctx context.Context, tenantID string, purge bool) error {
	if err := DisableTenant(ctx, t.pool, t.metadata, tenantID, purge); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "tenant disabled", logger.TenantID(tenantID), slog.Bool("purge", purge))
	return nil
}

// Exists reports whether the schema of tenantID exists.
func (t *Tenants) Exists(ctx context.Context, tenantID string) (bool, error) {
	return TenantExists(ctx, t.pool, t.metadata, tenantID)
}

// Tx runs fn in a transaction bound to the schema of the tenant in ctx.
func (t *Tenants) Tx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	err := withTenant(ctx, t.pool, t.cfg.ExtraSearchPath, fn)
	if IsUndefinedSchemaError(err) {
		return errors.Join(ErrTenantNotEnabled, err)
	}
	return err
}
