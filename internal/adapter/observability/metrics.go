package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts requests by route, method and status text.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration observes request latency by route and method.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// ChatRequestsTotal counts chat requests by final intent and outcome.
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	// ProviderAttemptsTotal counts waterfall attempts by provider, model and outcome.
	ProviderAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Total number of provider waterfall attempts",
		},
		[]string{"provider", "model", "outcome"},
	)
	// ProviderAttemptDuration observes provider call latency.
	ProviderAttemptDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_attempt_duration_seconds",
			Help:    "Provider attempt duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"provider", "model"},
	)
)

// InitMetrics registers all Prometheus collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ProviderAttemptsTotal)
	prometheus.MustRegister(ProviderAttemptDuration)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveProviderAttempt records one waterfall attempt.
func ObserveProviderAttempt(provider, model, outcome string, elapsed time.Duration) {
	ProviderAttemptsTotal.WithLabelValues(provider, model, outcome).Inc()
	ProviderAttemptDuration.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

// ObserveChat records the final outcome of a chat request.
func ObserveChat(intent, outcome string) {
	ChatRequestsTotal.WithLabelValues(intent, outcome).Inc()
}
