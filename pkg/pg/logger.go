package pg

import "context"

// migrationLogger is the subset of *slog.Logger used for migration output.
type migrationLogger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
