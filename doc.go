// Package okapikit is a toolkit for writing Okapi gateway modules in Go.
//
// A module receives the caller's tenant, token, user and request id as
// x-okapi-* headers and must forward them on every call it makes, whether the
// call is served inside an HTTP request, a message callback or a background
// job. The packages under pkg/ cover that lifecycle:
//
//   - okapi: header names and codecs
//   - execctx: the execution context, its factory and the unit-of-work scope
//   - systemuser: per-tenant system user credentials with refresh ahead of expiry
//   - async, messaging, rpcctx: carry the context across goroutines, NATS and RPC
//   - pg, tenantapi: per-tenant schemas and the /_/tenant interface
//   - httpserver, app: the HTTP host and the bootstrap wiring it all together
//
// Ambient concerns live in logger, config, redis and requestid.
package okapikit
