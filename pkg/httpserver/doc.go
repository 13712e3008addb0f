// Package httpserver hosts the HTTP interface of an okapi module.
//
// NewRouter assembles the routes every module exposes: liveness on
// /admin/health, readiness on /admin/ready, the /_/tenant interface and the
// module's own routes, which run with the request's execution context bound.
// Server serves the router and shuts it down gracefully.
//
//	router := httpserver.NewRouter(httpserver.RouterOptions{
//		Metadata: md,
//		Logger:   log,
//		Tenant:   &tenantapi.Options{Tenants: tenants, Invalidator: users, Bus: bus},
//		Checks: []httpserver.Check{
//			{Name: "postgres", Probe: pg.Healthcheck(pool)},
//			{Name: "redis", Probe: redis.Healthcheck(client)},
//		},
//	}, func(r chi.Router) {
//		r.Get("/orders", listOrders)
//	})
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
