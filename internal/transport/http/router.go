// Package httptransport assembles the HTTP surface. It delegates to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	securityhandler "certseal/internal/security/handler"
	"certseal/pkg/platform/httputil"
	"certseal/pkg/platform/middleware/metadata"
	"certseal/pkg/platform/middleware/requestid"
	"certseal/pkg/platform/middleware/requesttime"
)

// HealthCheck probes one dependency; a non-nil error marks it degraded.
type HealthCheck func(ctx context.Context) error

// NewRouter wires the public endpoints plus /healthz and /metrics.
func NewRouter(security *securityhandler.Handler, logger *slog.Logger, checks map[string]HealthCheck) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	security.Register(r)

	r.Get("/healthz", handleHealth(logger, checks))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"dependency", name,
					"error", err,
				)
				deps[name] = "down"
				status = http.StatusServiceUnavailable
			} else {
				deps[name] = "up"
			}
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(deps) > 0 {
			body["dependencies"] = deps
		}
		httputil.WriteJSON(w, status, body)
	}
}
