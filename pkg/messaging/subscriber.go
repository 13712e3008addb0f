package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/logger"
	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

// Handler processes one message. ctx has the execution context decoded from
// the message headers bound for the duration of the call.
type Handler func(ctx context.Context, msg *nats.Msg) error

type subscriberConfig struct {
	baseContext func() context.Context
	logger      *slog.Logger
	queue       string
}

// SubscribeOption configures Subscribe.
type SubscribeOption func(*subscriberConfig)

// WithBaseContext sets the parent context of every message's unit of work.
func WithBaseContext(fn func() context.Context) SubscribeOption {
	return func(c *subscriberConfig) {
		if fn != nil {
			c.baseContext = fn
		}
	}
}

// WithLogger sets the logger used for rejected messages and handler errors.
func WithLogger(logger *slog.Logger) SubscribeOption {
	return func(c *subscriberConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithQueue makes the subscription a member of the named queue group.
func WithQueue(queue string) SubscribeOption {
	return func(c *subscriberConfig) {
		c.queue = queue
	}
}

// Subscribe registers handler on subject. Each message is its own unit of
// work: the execution context is built from the message headers and bound
// with execctx.WithScope around the handler. Messages whose headers cannot
// be decoded are logged and dropped.
func Subscribe(conn *nats.Conn, subject string, md execctx.ModuleMetadata, handler Handler, opts ...SubscribeOption) (*nats.Subscription, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}

	cfg := &subscriberConfig{
		baseContext: context.Background,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cb := func(msg *nats.Msg) {
		base := cfg.baseContext()

		ec, err := execctx.FromMessageHeaders(okapi.MessageHeadersFrom(okapi.Headers(msg.Header)), md)
		if err != nil {
			cfg.logger.WarnContext(base, "dropping message with invalid okapi headers",
				logger.Subject(msg.Subject),
				logger.Error(err),
			)
			return
		}

		err = execctx.WithScope(base, ec, func(ctx context.Context) error {
			return handler(ctx, msg)
		})
		if err != nil {
			cfg.logger.ErrorContext(base, "message handler failed",
				logger.Subject(msg.Subject),
				logger.TenantID(ec.TenantID()),
				logger.Error(err),
			)
		}
	}

	if cfg.queue != "" {
		return conn.QueueSubscribe(subject, cfg.queue, cb)
	}
	return conn.Subscribe(subject, cb)
}
