package app

import (
	"errors"

	"github.com/dmitrymomot/okapikit/pkg/config"
	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/httpserver"
	"github.com/dmitrymomot/okapikit/pkg/logger"
	"github.com/dmitrymomot/okapikit/pkg/messaging"
	"github.com/dmitrymomot/okapikit/pkg/pg"
	"github.com/dmitrymomot/okapikit/pkg/redis"
	"github.com/dmitrymomot/okapikit/pkg/systemuser"
)

// Config is the complete environment of a module.
type Config struct {
	Module     execctx.MetadataConfig
	Log        logger.Config
	HTTP       httpserver.Config
	SystemUser systemuser.Config
	Postgres   pg.Config
	Redis      redis.Config
	NATS       messaging.Config

	RedisEnabled bool `env:"REDIS_ENABLED" envDefault:"true"`
	NATSEnabled  bool `env:"NATS_ENABLED" envDefault:"false"`
}

// LoadConfig reads Config from the environment and the optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.SystemUser.Validate(); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}
