// Package app bootstraps an okapi module from its environment.
//
// LoadConfig reads every setting, New connects postgres, redis and NATS and
// builds the system user service, and Run serves the HTTP interface while
// listening for system user invalidations from other replicas:
//
//	func main() {
//		ctx := context.Background()
//		cfg, err := app.LoadConfig()
//		if err != nil {
//			log.Fatal(err)
//		}
//		a, err := app.New(ctx, cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer a.Close()
//
//		err = a.Run(ctx, func(r chi.Router) {
//			r.Get("/orders", orders.List(a.DB))
//		})
//		if err != nil {
//			a.Logger.Error("module stopped", logger.Error(err))
//		}
//	}
package app
