// Package tenantapi serves the tenant interface the gateway calls when a
// module is enabled, upgraded or disabled for a tenant.
//
//	r := chi.NewRouter()
//	r.Mount("/", tenantapi.Router(tenantapi.Options{
//	    Tenants:     pg.NewTenants(pool, md, pgCfg, log),
//	    Metadata:    md,
//	    Invalidator: systemUsers,
//	    Bus:         systemuser.NewInvalidationBus(rdb, suCfg.InvalidationChannel, log),
//	}))
//
// The tenant comes from the x-okapi-tenant header of the call; requests
// without it are rejected with 400.
package tenantapi
