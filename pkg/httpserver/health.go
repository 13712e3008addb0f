package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/okapikit/pkg/async"
	"github.com/dmitrymomot/okapikit/pkg/logger"
)

// Check is a named readiness probe, typically pg.Healthcheck,
// redis.Healthcheck or messaging.Healthcheck.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler answers 200 OK as long as the process serves requests.
// The gateway polls it on /admin/health.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs every check concurrently, each bounded by timeout,
// and answers 200 when all pass or 503 otherwise. The body lists the outcome
// per check.
func ReadinessHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		results := make([]error, len(checks))
		g, _ := async.NewGroup(r.Context())
		for i, c := range checks {
			g.Go(func(ctx context.Context) error {
				if timeout > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, timeout)
					defer cancel()
				}
				results[i] = c.Probe(ctx)
				return nil
			})
		}
		_ = g.Wait()

		body := readiness{Status: "READY", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for i, c := range checks {
			if err := results[i]; err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Component(c.Name), logger.Error(err))
				body.Checks[c.Name] = err.Error()
				body.Status = "NOT_READY"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[c.Name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
