package messaging

import (
	"context"
	"net/http"

	"github.com/nats-io/nats.go"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

// Publisher sends NATS messages carrying the okapi headers of the execution
// context bound to the calling context.
type Publisher struct {
	conn       *nats.Conn
	propagator *execctx.Propagator
}

// NewPublisher returns a Publisher that writes on conn.
func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn, propagator: execctx.NewPropagator(nil)}
}

// Publish sends data on subject. Without a bound context the message has no
// okapi headers.
func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	msg, err := p.message(ctx, subject, data)
	if err != nil {
		return err
	}
	return p.conn.PublishMsg(msg)
}

// Request sends data on subject and waits for a single reply until ctx is done.
func (p *Publisher) Request(ctx context.Context, subject string, data []byte) (*nats.Msg, error) {
	msg, err := p.message(ctx, subject, data)
	if err != nil {
		return nil, err
	}
	return p.conn.RequestMsgWithContext(ctx, msg)
}

func (p *Publisher) message(ctx context.Context, subject string, data []byte) (*nats.Msg, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	if err := p.propagator.Inject(ctx, http.Header(msg.Header)); err != nil {
		return nil, err
	}
	return msg, nil
}
