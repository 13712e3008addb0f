package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// goose keeps its dialect, table name and logger in globals.
var gooseMu sync.Mutex

// Migrate applies the tenant migrations to schema. The goose version table
// lives inside schema, so every tenant is versioned independently.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schema string, cfg Config, log migrationLogger) error {
	if cfg.TenantMigrationsPath == "" {
		return errors.Join(ErrFailedToApplyMigrations, ErrMigrationPathNotProvided)
	}
	if _, err := os.Stat(cfg.TenantMigrationsPath); err != nil {
		if os.IsNotExist(err) {
			return errors.Join(ErrMigrationsDirNotFound, err)
		}
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	// goose needs database/sql; a dedicated handle pins search_path on every
	// connection it opens.
	connConfig := pool.Config().ConnConfig.Copy()
	connConfig.RuntimeParams["search_path"] = searchPath(schema, cfg.ExtraSearchPath)
	db := stdlib.OpenDB(*connConfig)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}(db)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(newSlogAdapter(ctx, log, schema))
	goose.SetTableName(cfg.TenantMigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, cfg.TenantMigrationsPath); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// migrateSlogAdapter routes goose output to the application logger.
type migrateSlogAdapter struct {
	ctx    context.Context
	log    migrationLogger
	schema string
}

func newSlogAdapter(ctx context.Context, log migrationLogger, schema string) goose.Logger {
	return &migrateSlogAdapter{ctx: ctx, log: log, schema: schema}
}

func (a *migrateSlogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(a.ctx, fmt.Sprintf(format, v...), logger.Schema(a.schema))
}

func (a *migrateSlogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(a.ctx, fmt.Sprintf(format, v...), logger.Schema(a.schema))
}
