package systemuser

import (
	"log/slog"
	"time"
)

// CacheOption configures a TokenCache.
type CacheOption func(*TokenCache)

// WithRefresher sets the function used to renew credentials that are about
// to expire. Without it, stale credentials are returned with a warning.
func WithRefresher(fn RefreshFunc) CacheOption {
	return func(c *TokenCache) {
		c.refresh = fn
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for refresh warnings.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *TokenCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}
