// Package redis connects okapi module replicas to a shared redis instance.
//
// The connection carries the system user invalidation bus: when a tenant is
// disabled or upgraded on one replica, the others drop their cached system
// user credential.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	bus := systemuser.NewInvalidationBus(client, suCfg.InvalidationChannel, log)
//
// Healthcheck adapts the client to the readiness probe of the HTTP server.
package redis
