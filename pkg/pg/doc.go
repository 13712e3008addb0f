// Package pg connects to PostgreSQL with pgx/v5 and keeps every tenant in a
// schema of its own.
//
// The schema of a tenant is named by the module metadata
// (execctx.ModuleMetadata.SchemaName), e.g. tenant "diku" of module
// "mod-orders" lives in "diku_mod_orders". EnableTenant creates the schema and
// applies the tenant migrations with goose, keeping a goose version table
// inside the schema. DisableTenant drops it when purge is requested.
//
// Queries select the schema from the execution context bound to the calling
// context:
//
//	err := pg.WithTenant(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
//	    _, err := tx.Exec(ctx, "INSERT INTO orders (id) VALUES ($1)", id)
//	    return err
//	})
//
// WithTenant sets search_path with set_config(..., true), so the setting
// ends with the transaction and pooled connections never leak a tenant.
package pg
