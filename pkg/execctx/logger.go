package execctx

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// LoggerExtractors returns context extractors that add tenant_id, request_id
// and user_id of the bound execution context to every log record.
func LoggerExtractors() []logger.ContextExtractor {
	return []logger.ContextExtractor{
		fieldExtractor(logger.TenantID, func(ec ExecutionContext) string { return fieldsOf(ec).TenantID }),
		fieldExtractor(logger.RequestID, func(ec ExecutionContext) string { return fieldsOf(ec).RequestID }),
		fieldExtractor(func(v string) slog.Attr { return logger.UserID(v) }, func(ec ExecutionContext) string { return fieldsOf(ec).UserID }),
	}
}

func fieldExtractor(attr func(string) slog.Attr, get func(ExecutionContext) string) logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		ec, ok := Current(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		if v := get(ec); v != "" {
			return attr(v), true
		}
		return slog.Attr{}, false
	}
}
