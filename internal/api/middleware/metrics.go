package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Domain metrics
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diet_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	menusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diet_menus_total",
			Help: "Menu generation requests by outcome",
		},
		[]string{"outcome"},
	)

	measurementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diet_measurements_total",
			Help: "Measurement submissions by outcome",
		},
		[]string{"outcome"},
	)
)

// Metrics returns a middleware that records Prometheus metrics.
func Metrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			path := routePattern(r)
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern keeps label cardinality bounded by using the chi pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return "unmatched"
}

// RecordLogin counts a login by outcome: ok, invalid, blocked, error.
func RecordLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordMenu counts a menu generation by outcome: ok, infeasible, invalid, error.
func RecordMenu(outcome string) {
	menusTotal.WithLabelValues(outcome).Inc()
}

// RecordMeasurement counts a measurement submission by outcome: ok, too_soon, invalid, error.
func RecordMeasurement(outcome string) {
	measurementsTotal.WithLabelValues(outcome).Inc()
}
