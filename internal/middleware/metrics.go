package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/metrics"
)

// MetricsMiddleware wraps HTTP handlers to collect Prometheus metrics
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: m,
	}
}

// Middleware returns the HTTP middleware function
func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		endpoint := routeLabel(r)
		method := r.Method

		m.metrics.IncRequestsInFlight(method, endpoint)
		defer m.metrics.DecRequestsInFlight(method, endpoint)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		m.metrics.RecordHTTPRequest(method, endpoint, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// routeLabel prefers the matched mux template so ids never become labels
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return normalizeEndpoint(r.URL.Path)
}

// normalizeEndpoint normalizes URL paths for consistent metric labels
func normalizeEndpoint(path string) string {
	path = strings.TrimSuffix(path, "/")

	switch path {
	case "/health", "/metrics":
		return path
	}

	// /v1/<collection>[/<id>[/<action>]]
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "v1" {
		return "other"
	}
	switch parts[1] {
	case "campaigns", "customers", "segments":
	default:
		return "other"
	}

	label := "/v1/" + parts[1]
	if len(parts) >= 3 {
		label += "/{id}"
	}
	if len(parts) >= 4 {
		label += "/" + parts[3]
	}
	return label
}
