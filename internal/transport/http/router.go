package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"causeway/pkg/platform/httputil"
	"causeway/pkg/platform/middleware/requestmeta"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether one backing collaborator is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires middleware, operational endpoints, and every module handler
// under /api. Handlers own their routes; the router only mounts them.
func NewRouter(checks map[string]HealthChecker, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(requestmeta.Middleware)

	r.Get("/health", handleHealth(checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		for _, m := range modules {
			m.Register(api)
		}
	})

	return r
}

// handleHealth probes every collaborator in parallel. The endpoint always
// returns 200; a failed probe marks the service degraded rather than down,
// because analysis can still answer WAIT verdicts without collaborators.
func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		type probe struct {
			name string
			err  error
		}
		results := make([]probe, len(checks))

		g, gctx := errgroup.WithContext(ctx)
		i := 0
		for name, check := range checks {
			idx, n, c := i, name, check
			g.Go(func() error {
				results[idx] = probe{name: n, err: c.Health(gctx)}
				return nil
			})
			i++
		}
		_ = g.Wait()

		status := "ok"
		components := make(map[string]string, len(results))
		for _, p := range results {
			if p.err != nil {
				status = "degraded"
				components[p.name] = p.err.Error()
				continue
			}
			components[p.name] = "ok"
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":     status,
			"components": components,
		})
	}
}
