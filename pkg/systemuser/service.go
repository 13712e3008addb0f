package systemuser

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// Service is the entry point for system-initiated work: it owns the token
// cache and turns cached users into execution contexts.
type Service struct {
	cfg      Config
	metadata execctx.ModuleMetadata
	cache    *TokenCache
	logger   *slog.Logger
}

// NewService wires cfg, the identity client and a token cache. The cache
// re-logs users in when their credential expires unless cfg.RefreshEnabled is
// false or opts supply another refresher.
func NewService(cfg Config, md execctx.ModuleMetadata, client AuthClient, opts ...CacheOption) *Service {
	cache := NewTokenCache(nil, opts...)
	auth := NewAuthenticator(cfg, client, cache.now)
	cache.authenticate = auth.Authenticate
	if cfg.RefreshEnabled && cache.refresh == nil {
		cache.refresh = auth.Refresh
	}

	return &Service{
		cfg:      cfg,
		metadata: md,
		cache:    cache,
		logger:   cache.logger,
	}
}

// NewHTTPService is NewService with an HTTPAuthClient honouring cfg.HTTPTimeout.
func NewHTTPService(cfg Config, md execctx.ModuleMetadata, opts ...CacheOption) *Service {
	client := NewHTTPAuthClient(&http.Client{Timeout: cfg.HTTPTimeout})
	return NewService(cfg, md, client, opts...)
}

// Cache exposes the underlying token cache.
func (s *Service) Cache() *TokenCache {
	return s.cache
}

// GetValidCredential returns the system user of tenantID with a credential
// that is not about to expire.
func (s *Service) GetValidCredential(ctx context.Context, tenantID string) (*SystemUser, error) {
	if !s.cfg.Enabled {
		return nil, ErrDisabled
	}
	return s.cache.Get(ctx, tenantID)
}

// Invalidate drops the cached user of tenantID, e.g. after the tenant is disabled.
func (s *Service) Invalidate(tenantID string) {
	s.cache.Invalidate(tenantID)
	s.logger.Debug("system user invalidated", logger.TenantID(tenantID))
}

// Context builds the execution context for a call made as the system user of
// tenantID. With the system user disabled the context carries no token.
func (s *Service) Context(ctx context.Context, tenantID string) (*execctx.RequestContext, error) {
	if !s.cfg.Enabled {
		return execctx.FromSystemUser(execctx.SystemIdentity{
			TenantID: tenantID,
			OkapiURL: s.cfg.OkapiURL,
		}, s.metadata)
	}

	user, err := s.cache.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return Context(user, s.metadata)
}

// Run executes fn with the system user context of tenantID bound to ctx.
func (s *Service) Run(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error {
	ec, err := s.Context(ctx, tenantID)
	if err != nil {
		return err
	}
	return execctx.WithScope(ctx, ec, fn)
}

// TokenSource adapts the cache to oauth2 for clients that authenticate with a
// bearer Authorization header. Every Token call goes through the cache, so
// expiring credentials are refreshed transparently.
func (s *Service) TokenSource(ctx context.Context, tenantID string) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, tenantID: tenantID, svc: s}
}

type tokenSource struct {
	ctx      context.Context
	tenantID string
	svc      *Service
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	user, err := ts.svc.GetValidCredential(ts.ctx, ts.tenantID)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: user.Token.AccessToken,
		TokenType:   "Bearer",
		Expiry:      user.Token.Expiry,
	}, nil
}
