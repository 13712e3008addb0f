package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/okapikit/pkg/async"
	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/httpserver"
	"github.com/dmitrymomot/okapikit/pkg/logger"
	"github.com/dmitrymomot/okapikit/pkg/messaging"
	"github.com/dmitrymomot/okapikit/pkg/pg"
	"github.com/dmitrymomot/okapikit/pkg/redis"
	"github.com/dmitrymomot/okapikit/pkg/systemuser"
	"github.com/dmitrymomot/okapikit/pkg/tenantapi"
)

// App holds the connections and services of a running module. Redis, Bus,
// NATS and Publisher are nil when the matching backend is disabled.
type App struct {
	Config      Config
	Metadata    execctx.ModuleMetadata
	Logger      *slog.Logger
	DB          *pgxpool.Pool
	Tenants     *pg.Tenants
	SystemUsers *systemuser.Service
	Redis       *goredis.Client
	Bus         *systemuser.InvalidationBus
	NATS        *nats.Conn
	Publisher   *messaging.Publisher
}

// New connects every backend cfg enables. Connections opened before a
// failure are closed again.
func New(ctx context.Context, cfg Config) (_ *App, err error) {
	md := execctx.MetadataFromConfig(cfg.Module)
	log := logger.New(
		logger.WithConfig(cfg.Log, md.ModuleName()),
		logger.WithContextExtractors(execctx.LoggerExtractors()...),
	)

	a := &App{
		Config:   cfg,
		Metadata: md,
		Logger:   log,
		SystemUsers: systemuser.NewHTTPService(cfg.SystemUser, md,
			systemuser.WithLogger(log.With(logger.Component("systemuser")))),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.DB, err = pg.Connect(ctx, cfg.Postgres); err != nil {
		return nil, errors.Join(ErrStartup, err)
	}
	a.Tenants = pg.NewTenants(a.DB, md, cfg.Postgres, log.With(logger.Component("pg")))

	if cfg.RedisEnabled {
		if a.Redis, err = redis.Connect(ctx, cfg.Redis); err != nil {
			return nil, errors.Join(ErrStartup, err)
		}
		a.Bus = systemuser.NewInvalidationBus(a.Redis, cfg.SystemUser.InvalidationChannel,
			log.With(logger.Component("invalidation")))
	}

	if cfg.NATSEnabled {
		if a.NATS, err = messaging.Connect(ctx, cfg.NATS); err != nil {
			return nil, errors.Join(ErrStartup, err)
		}
		a.Publisher = messaging.NewPublisher(a.NATS)
	}

	log.InfoContext(ctx, "module initialized", logger.Module(md.ModuleName()))
	return a, nil
}

// Checks returns the readiness probes of the connected backends.
func (a *App) Checks() []httpserver.Check {
	var checks []httpserver.Check
	if a.DB != nil {
		checks = append(checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(a.DB)})
	}
	if a.Redis != nil {
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(a.Redis)})
	}
	if a.NATS != nil {
		checks = append(checks, httpserver.Check{Name: "nats", Probe: messaging.Healthcheck(a.NATS)})
	}
	return checks
}

// Router builds the module's HTTP interface with routes as module routes.
func (a *App) Router(routes func(r chi.Router)) chi.Router {
	opts := httpserver.RouterOptions{
		Metadata: a.Metadata,
		Logger:   a.Logger,
		Checks:   a.Checks(),
	}
	if a.Tenants != nil {
		tenant := &tenantapi.Options{Tenants: a.Tenants}
		if a.SystemUsers != nil {
			tenant.Invalidator = a.SystemUsers
			if a.Config.SystemUser.Enabled {
				tenant.AfterEnable = a.primeSystemUser
			}
		}
		if a.Bus != nil {
			tenant.Bus = a.Bus
		}
		opts.Tenant = tenant
	}
	return httpserver.NewRouter(opts, routes)
}

// Run serves the router and, with redis enabled, listens for invalidations
// from other replicas until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context, routes func(r chi.Router)) error {
	srv := httpserver.NewFromConfig(a.Config.HTTP, httpserver.WithLogger(a.Logger))
	router := a.Router(routes)

	g, _ := async.NewGroup(ctx)
	g.Go(func(ctx context.Context) error {
		return srv.Run(ctx, router)
	})
	if a.Bus != nil && a.SystemUsers != nil {
		g.Go(func(ctx context.Context) error {
			return a.Bus.Listen(ctx, a.SystemUsers)
		})
	}
	return g.Wait()
}

// Close releases every open connection.
func (a *App) Close() {
	if a.NATS != nil {
		if err := a.NATS.Drain(); err != nil {
			a.Logger.Error("failed to drain nats connection", logger.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", logger.Error(err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func (a *App) primeSystemUser(ctx context.Context, tenantID string) error {
	_, err := a.SystemUsers.GetValidCredential(ctx, tenantID)
	return err
}
