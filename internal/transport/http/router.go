// Package httptransport assembles the public HTTP surface. Domain handlers
// register their own sub-routers; this package only owns the shared plumbing
// endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docvault/internal/transport/http/shared"
)

// RouteRegistrar is implemented by each domain handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker func(r *http.Request) error

// NewRouter mounts every registrar plus health and metrics endpoints.
func NewRouter(checks map[string]HealthChecker, registrars ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	for _, reg := range registrars {
		reg.Register(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(req); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		shared.WriteJSON(w, status, body)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
