// Package app assembles the HTTP router from configuration and handlers.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/emarketbank/jimmy-agent/internal/adapter/httpserver"
	"github.com/emarketbank/jimmy-agent/internal/adapter/observability"
	"github.com/emarketbank/jimmy-agent/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input means "*".
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(httpserver.Recoverer())
	r.Use(otelhttp.NewMiddleware("http.server"))
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(30 * time.Second))
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept-Language", "Authorization", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// The chat endpoint is the only unauthenticated mutating route; keep it
	// behind a per-IP limit.
	r.Group(func(cr chi.Router) {
		cr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		cr.Post("/chat", srv.ChatHandler())
	})

	r.Get("/health", srv.HealthHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })

	if cfg.AdminEnabled() {
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(srv.AdminGuard(ParseOrigins(cfg.AdminAllowOrigins)))
			ar.Get("/config", srv.AdminConfigGetHandler())
			ar.Put("/config", srv.AdminConfigPutHandler())
			ar.Post("/config/publish", srv.AdminConfigPublishHandler())
			ar.Post("/config/rollback", srv.AdminConfigRollbackHandler())
			ar.Post("/token/rotate", srv.AdminTokenRotateHandler())
		})
	}

	return httpserver.SecurityHeaders(r)
}
