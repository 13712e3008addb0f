// Package execctx carries the per-request execution context of a multi-tenant
// module: tenant id, okapi URL, token, user id, request id and the inbound
// headers, together with the static module metadata.
//
// # Building contexts
//
// A context is built once per unit of work and never mutated:
//
//	md := execctx.NewModuleMetadata("mod-orders")
//	ec, err := execctx.FromHeaders(r.Header, md)        // HTTP request
//	ec, err := execctx.FromMessageHeaders(headers, md)  // message transport
//	ec, err := execctx.FromSystemUser(identity, md)     // background system user
//
// Missing headers are not errors: string fields become "" and UserID reports
// false. A user id header that is not a UUID fails with ErrInvalidUserID.
//
// Background is a reduced variant holding only the tenant and metadata. Its
// other accessors panic with ErrBackgroundContext, since reading request data
// from work that has no request is a programming error.
//
// # Scopes
//
// The unit of work is a context.Context. Begin binds a context to it and End
// restores the previous binding. WithScope binds a context for the duration of
// a function by giving it a derived context with its own scope frame, so the
// caller's binding is in effect again once the function fails or panics:
//
//	err := execctx.WithScope(ctx, ec, func(ctx context.Context) error {
//		cur, _ := execctx.Current(ctx) // cur == ec
//		return doWork(ctx)
//	})
//
// Bindings nest. Contexts derived from one unit share its scope cell, so
// Begin and End belong to the goroutine owning the unit. Bind, Fork and
// WithScope start a new frame, which is how goroutines sharing a request
// context bind their own contexts without observing each other's bindings.
//
// # HTTP
//
// Middleware binds the context for each request, RequireTenant rejects
// requests without a tenant, Transport copies the okapi headers onto outbound
// calls and Propagator implements Inject/Extract over http.Header.
//
// # Logging
//
// LoggerExtractors plug into the logger package so every record written with
// a request context carries tenant_id, request_id and user_id.
package execctx
