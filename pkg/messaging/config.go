package messaging

import "time"

// Config describes the NATS connection.
type Config struct {
	URL            string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	Name           string        `env:"NATS_CLIENT_NAME"`
	RetryAttempts  int           `env:"NATS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"NATS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"NATS_CONNECT_TIMEOUT" envDefault:"30s"`
	ReconnectWait  time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"2s"`
	MaxReconnects  int           `env:"NATS_MAX_RECONNECTS" envDefault:"-1"`
}
