package messaging

import "errors"

var (
	ErrEmptyURL          = errors.New("empty nats server URL")
	ErrNotReady          = errors.New("nats did not become ready within the given time period")
	ErrEmptySubject      = errors.New("empty subject")
	ErrHealthcheckFailed = errors.New("nats healthcheck failed")
)
