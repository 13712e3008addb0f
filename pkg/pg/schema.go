package pg

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

var schemaNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// TenantSchema returns the schema of tenantID as named by md. The name is
// validated so it can be embedded in DDL.
func TenantSchema(md execctx.ModuleMetadata, tenantID string) (string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return "", ErrMissingTenant
	}
	schema := md.SchemaName(tenantID)
	if !schemaNamePattern.MatchString(schema) {
		return "", errors.Join(ErrInvalidSchemaName, errors.New(schema))
	}
	return schema, nil
}

// CurrentSchema returns the schema of the tenant bound to ctx.
func CurrentSchema(ctx context.Context) (string, error) {
	ec, ok := execctx.Current(ctx)
	if !ok {
		return "", ErrNoExecutionContext
	}
	return TenantSchema(ec.Metadata(), ec.TenantID())
}

// searchPath renders the search_path value for schema followed by extra,
// a comma separated list of further schemas.
func searchPath(schema, extra string) string {
	parts := []string{pgx.Identifier{schema}.Sanitize()}
	for _, s := range strings.Split(extra, ",") {
		if s = strings.TrimSpace(s); s != "" && s != schema {
			parts = append(parts, pgx.Identifier{s}.Sanitize())
		}
	}
	return strings.Join(parts, ", ")
}
