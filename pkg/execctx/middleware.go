package execctx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// Middleware builds the execution context from the request headers and binds
// it for the lifetime of the request. Each request is its own unit of work,
// so a binding made on a shared base context never leaks between requests.
func Middleware(md ModuleMetadata, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ec, err := FromRequest(r, md)
			if err != nil {
				cfg.logger.WarnContext(r.Context(), "rejecting request without valid execution context",
					slog.String("path", r.URL.Path),
					logger.Error(err),
				)
				cfg.errorHandler(w, r, err)
				return
			}

			_ = WithScope(r.Context(), ec, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
		})
	}
}

// RequireTenant rejects requests whose bound execution context has no tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ec, ok := Current(r.Context())
			if !ok || strings.TrimSpace(ec.TenantID()) == "" {
				errorHandler(w, r, ErrMissingTenant)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
