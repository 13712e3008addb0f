// Package requestid ensures each inbound request has an x-okapi-request-id.
//
// Install Middleware before execctx.Middleware so the execution context picks
// up the generated id and forwards it on outbound calls:
//
//	r.Use(requestid.Middleware, execctx.Middleware(md))
//
// FromContext returns the id for code that has only a context.
package requestid
