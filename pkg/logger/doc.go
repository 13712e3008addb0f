// Package logger builds *slog.Logger instances for okapi modules.
//
// New takes functional options that pick the output format, level and static
// attributes. ContextExtractor callbacks add attributes taken from the
// context of every *Context logging call, which is how the tenant and
// request of the bound execution context end up on each record:
//
//	log := logger.New(
//		logger.WithConfig(cfg.Log, "mod-orders"),
//		logger.WithContextExtractors(execctx.LoggerExtractors()...),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers such as Error, TenantID and Schema keep key names
// consistent across packages. Error and TenantID return an empty attribute
// for zero values, so callers need no nil checks:
//
//	log.WarnContext(ctx, "refresh failed", logger.TenantID(id), logger.Error(err))
package logger
