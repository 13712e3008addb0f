package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect dials the NATS server described by cfg, retrying up to
// cfg.RetryAttempts times with cfg.RetryInterval between attempts.
func Connect(ctx context.Context, cfg Config) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts := nats.GetDefaultOptions()
	opts.Url = cfg.URL
	opts.Name = cfg.Name
	opts.ReconnectWait = cfg.ReconnectWait
	opts.MaxReconnect = cfg.MaxReconnects

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for range attempts {
		conn, err := opts.Connect()
		if err == nil {
			return conn, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrNotReady, lastErr)
}

// Healthcheck returns a probe that reports whether conn is connected and
// can round-trip to the server.
func Healthcheck(conn *nats.Conn) func(context.Context) error {
	return func(ctx context.Context) error {
		if conn == nil || !conn.IsConnected() {
			return errors.Join(ErrHealthcheckFailed, nats.ErrConnectionClosed)
		}
		timeout := 2 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := conn.FlushTimeout(timeout); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
