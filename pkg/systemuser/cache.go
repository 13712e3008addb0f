package systemuser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/dmitrymomot/okapikit/pkg/logger"
)

type (
	// AuthenticateFunc logs the system user of tenantID in.
	AuthenticateFunc func(ctx context.Context, tenantID string) (*SystemUser, error)

	// RefreshFunc renews the credential of user and returns the replacement.
	RefreshFunc func(ctx context.Context, user *SystemUser) (*SystemUser, error)
)

// TokenCache keeps one system user per tenant and refreshes its credential
// when it is about to expire. Entries are only evicted through Invalidate.
//
// Each entry is an atomically swapped pointer, so readers never see a
// partially updated user. Concurrent refreshes of the same tenant are not
// coalesced: every caller that observes an expiring credential refreshes it
// and the last swap wins.
//
// A login that is still in flight when its tenant is invalidated returns its
// user to the caller but does not put the entry back.
type TokenCache struct {
	mu          sync.RWMutex
	entries     map[string]*atomic.Pointer[SystemUser]
	generations map[string]uint64
	epoch       uint64

	authenticate AuthenticateFunc
	refresh      RefreshFunc
	now          func() time.Time
	logger       *slog.Logger
}

// NewTokenCache creates a cache that logs users in with authenticate.
func NewTokenCache(authenticate AuthenticateFunc, opts ...CacheOption) *TokenCache {
	c := &TokenCache{
		entries:      make(map[string]*atomic.Pointer[SystemUser]),
		generations:  make(map[string]uint64),
		authenticate: authenticate,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a system user of tenantID with a valid credential.
// On a miss it logs in synchronously. On a hit whose credential is about to
// expire it calls the refresher and stores the result. Failures are returned
// to the caller without retrying.
func (c *TokenCache) Get(ctx context.Context, tenantID string) (*SystemUser, error) {
	if tenantID == "" {
		return nil, ErrMissingTenant
	}

	entry, ok := c.lookup(tenantID)
	if !ok {
		gen := c.generation(tenantID)
		user, err := c.authenticate(ctx, tenantID)
		if err != nil {
			return nil, authError(err)
		}
		if user == nil || user.Token == nil {
			return nil, errors.Join(ErrAuthorization, ErrNoCredential)
		}
		if !c.store(tenantID, user, gen) {
			c.logger.DebugContext(ctx, "tenant invalidated during login, system user not cached",
				logger.TenantID(tenantID),
			)
		}
		return user, nil
	}

	user := entry.Load()
	if !IsAboutToExpire(user.Token, c.now()) {
		return user, nil
	}

	if c.refresh == nil {
		c.logger.WarnContext(ctx, "system user token is about to expire and no refresher is configured",
			logger.TenantID(tenantID),
			logger.Username(user.Username),
		)
		return user, nil
	}

	refreshed, err := c.refresh(ctx, user)
	if err != nil {
		return nil, authError(err)
	}
	if refreshed == nil || refreshed.Token == nil {
		return nil, errors.Join(ErrAuthorization, ErrNoCredential)
	}
	entry.Store(refreshed)

	c.logger.DebugContext(ctx, "system user token refreshed",
		logger.TenantID(tenantID),
		slog.Time("expiry", refreshed.Token.Expiry),
	)
	return refreshed, nil
}

// Invalidate drops the cached user of tenantID. The next Get logs in again.
func (c *TokenCache) Invalidate(tenantID string) {
	c.mu.Lock()
	delete(c.entries, tenantID)
	c.generations[tenantID]++
	c.mu.Unlock()
}

// InvalidateAll drops every cached user.
func (c *TokenCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*atomic.Pointer[SystemUser])
	c.epoch++
	c.mu.Unlock()
}

// Peek returns the cached user of tenantID without validating or refreshing it.
func (c *TokenCache) Peek(tenantID string) (*SystemUser, bool) {
	entry, ok := c.lookup(tenantID)
	if !ok {
		return nil, false
	}
	return entry.Load(), true
}

// Len returns the number of cached tenants.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TokenCache) lookup(tenantID string) (*atomic.Pointer[SystemUser], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[tenantID]
	return entry, ok
}

// cacheGeneration identifies the invalidation state a login started from.
type cacheGeneration struct {
	epoch  uint64
	tenant uint64
}

func (c *TokenCache) generation(tenantID string) cacheGeneration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cacheGeneration{epoch: c.epoch, tenant: c.generations[tenantID]}
}

// store caches user unless tenantID was invalidated after gen was taken.
func (c *TokenCache) store(tenantID string, user *SystemUser, gen cacheGeneration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != (cacheGeneration{epoch: c.epoch, tenant: c.generations[tenantID]}) {
		return false
	}
	if entry, ok := c.entries[tenantID]; ok {
		entry.Store(user)
		return true
	}
	c.entries[tenantID] = atomic.NewPointer(user)
	return true
}

// authError classifies err as an authorization failure unless it already
// carries a more specific kind.
func authError(err error) error {
	if errors.Is(err, ErrAuthorization) || errors.Is(err, ErrInvalidExpiry) {
		return err
	}
	return errors.Join(ErrAuthorization, err)
}
