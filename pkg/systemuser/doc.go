// Package systemuser manages the credentials of the per-tenant system user a
// module uses for work that has no inbound request: scheduled jobs, message
// consumers, tenant initialization.
//
// # Credentials and expiry
//
// A Credential pairs an access token with an expiry computed by
// ComputeExpiry: half of the lifetime the identity service reports. The
// credential counts as about to expire once now reaches that point.
//
//	expiry, err := systemuser.ParseExpiry(issuedAt, "2026-01-01T10:10:00Z")
//	if systemuser.IsAboutToExpire(cred, time.Now()) { ... }
//
// # Token cache
//
// TokenCache keeps one SystemUser per tenant. The first Get for a tenant logs
// in synchronously; later calls return the cached user and refresh it when
// its credential is about to expire. Refreshed users replace the cached one
// atomically. Entries leave the cache only through Invalidate.
//
//	cache := systemuser.NewTokenCache(auth.Authenticate,
//		systemuser.WithRefresher(auth.Refresh),
//	)
//	user, err := cache.Get(ctx, "diku")
//
// # Service
//
// Service wires the configuration, an AuthClient and the cache, and builds
// execution contexts for system calls:
//
//	svc := systemuser.NewHTTPService(cfg, md)
//	err := svc.Run(ctx, "diku", func(ctx context.Context) error {
//		// execctx.Current(ctx) is the system user context of diku
//		return sync(ctx)
//	})
//
// # Errors
//
//   - ErrAuthorization: the identity service rejected the login or was unreachable
//   - ErrInvalidExpiry: the reported expiry could not be parsed
//   - ErrDisabled: credentials requested while the system user is disabled
//
// Failures are never retried inside the package.
package systemuser
