package systemuser

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// Invalidator drops cached credentials of a tenant.
type Invalidator interface {
	Invalidate(tenantID string)
}

// InvalidationBus fans tenant invalidations out to every replica through a
// redis pub/sub channel, so disabling a tenant on one instance evicts its
// system user everywhere.
type InvalidationBus struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewInvalidationBus returns a bus publishing on channel.
func NewInvalidationBus(client redis.UniversalClient, channel string, logger *slog.Logger) *InvalidationBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvalidationBus{client: client, channel: channel, logger: logger}
}

// Publish announces that tenantID must be invalidated.
func (b *InvalidationBus) Publish(ctx context.Context, tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrMissingTenant
	}
	return b.client.Publish(ctx, b.channel, tenantID).Err()
}

// Listen subscribes to the channel and invalidates target for every received
// tenant id until ctx is done.
func (b *InvalidationBus) Listen(ctx context.Context, target Invalidator) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() {
		if err := sub.Close(); err != nil {
			b.logger.ErrorContext(ctx, "failed to close invalidation subscription", logger.Error(err))
		}
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handle(ctx, target, msg)
		}
	}
}

func (b *InvalidationBus) handle(ctx context.Context, target Invalidator, msg *redis.Message) {
	tenantID := strings.TrimSpace(msg.Payload)
	if tenantID == "" {
		b.logger.WarnContext(ctx, "ignoring empty invalidation message", logger.Subject(msg.Channel))
		return
	}
	target.Invalidate(tenantID)
	b.logger.DebugContext(ctx, "system user invalidated by peer", logger.TenantID(tenantID))
}
