// Package config loads typed configuration from environment variables.
//
// Structs describe their settings with caarlos0/env tags; optional .env files
// are read with godotenv. Every okapikit package that needs settings exposes
// such a struct (execctx.MetadataConfig, systemuser.Config, pg.Config,
// redis.Config, messaging.Config, logger.Config), so a module composes them:
//
//	type Config struct {
//		Module     execctx.MetadataConfig
//		SystemUser systemuser.Config
//		Postgres   pg.Config
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Load parses each type once and serves copies afterwards. Reload and Reset
// drop cached values, which tests use after changing the environment.
package config
