package httpserver

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/requestid"
	"github.com/dmitrymomot/okapikit/pkg/tenantapi"
)

const (
	LivenessPath  = "/admin/health"
	ReadinessPath = "/admin/ready"
)

// RouterOptions describes the HTTP interface of a module.
type RouterOptions struct {
	Metadata execctx.ModuleMetadata
	Logger   *slog.Logger

	// Tenant enables the /_/tenant interface when set. Its Metadata and
	// Logger default to the ones above.
	Tenant *tenantapi.Options

	Checks       []Check
	CheckTimeout time.Duration

	// ContextOptions are passed to execctx.Middleware for module routes.
	ContextOptions []execctx.Option
}

// NewRouter returns the module router. Every request gets a request id;
// routes registered by the callback additionally run with the execution
// context of the request bound and require a tenant.
func NewRouter(opts RouterOptions, routes func(r chi.Router)) chi.Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 5 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Get(LivenessPath, LivenessHandler())
	r.Get(ReadinessPath, ReadinessHandler(opts.Logger, opts.CheckTimeout, opts.Checks...))

	if opts.Tenant != nil {
		tenant := *opts.Tenant
		if tenant.Metadata == nil {
			tenant.Metadata = opts.Metadata
		}
		if tenant.Logger == nil {
			tenant.Logger = opts.Logger
		}
		r.Handle(tenantapi.Path, tenantapi.Router(tenant))
	}

	if routes != nil {
		r.Group(func(r chi.Router) {
			ctxOpts := append([]execctx.Option{execctx.WithLogger(opts.Logger)}, opts.ContextOptions...)
			r.Use(execctx.Middleware(opts.Metadata, ctxOpts...))
			r.Use(execctx.RequireTenant(nil))
			routes(r)
		})
	}

	return r
}
