package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the Prometheus metrics for our service
type Metrics struct {
	// Request counters
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Business logic metrics
	CampaignTransitions  *prometheus.CounterVec
	PurchasesRecorded    prometheus.Counter
	SegmentRecalculation *prometheus.CounterVec
	RepeatBuyers         prometheus.Gauge

	// Storage metrics
	StoreOperations *prometheus.CounterVec
	StoreErrors     *prometheus.CounterVec

	// Health check metrics
	HealthCheckStatus *prometheus.GaugeVec
}

// NewPrometheusMetrics creates all collectors and registers them with reg
func NewPrometheusMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	metrics := &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crm_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "crm_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
			[]string{"method", "endpoint"},
		),

		CampaignTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_campaign_transitions_total",
				Help: "Campaign status transition attempts by outcome",
			},
			[]string{"from", "to", "result"},
		),

		PurchasesRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crm_purchases_recorded_total",
				Help: "Total number of purchase events recorded",
			},
		),

		SegmentRecalculation: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_segment_recalculations_total",
				Help: "Segment recount runs by outcome",
			},
			[]string{"result"},
		),

		RepeatBuyers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "crm_repeat_buyers",
				Help: "Customers with more than one purchase at the last recount",
			},
		),

		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_store_operations_total",
				Help: "Total number of collection reads and writes",
			},
			[]string{"operation", "collection"},
		),

		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_store_errors_total",
				Help: "Total number of failed collection reads and writes",
			},
			[]string{"operation", "error_type"},
		),

		HealthCheckStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "crm_health_check_status",
				Help: "Health check status (1 = healthy, 0 = unhealthy)",
			},
			[]string{"check_type"},
		),
	}

	return metrics
}

// RecordHTTPRequest records an HTTP request with its duration and status
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordCampaignTransition records one transition attempt. result is one of
// applied, rejected, conflict or error.
func (m *Metrics) RecordCampaignTransition(from, to, result string) {
	m.CampaignTransitions.WithLabelValues(from, to, result).Inc()
}

// RecordPurchase records a purchase event
func (m *Metrics) RecordPurchase() {
	m.PurchasesRecorded.Inc()
}

// RecordSegmentRecalculation records a recount and the resulting count
func (m *Metrics) RecordSegmentRecalculation(repeatBuyers int, err error) {
	if err != nil {
		m.SegmentRecalculation.WithLabelValues("error").Inc()
		return
	}
	m.SegmentRecalculation.WithLabelValues("ok").Inc()
	m.RepeatBuyers.Set(float64(repeatBuyers))
}

// RecordStoreOperation records a collection read or write
func (m *Metrics) RecordStoreOperation(operation, collection string) {
	m.StoreOperations.WithLabelValues(operation, collection).Inc()
}

// RecordStoreError records a failed collection read or write
func (m *Metrics) RecordStoreError(operation, errorType string) {
	m.StoreErrors.WithLabelValues(operation, errorType).Inc()
}

// SetHealthCheckStatus sets the health check status
func (m *Metrics) SetHealthCheckStatus(checkType string, healthy bool) {
	status := 0.0
	if healthy {
		status = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(checkType).Set(status)
}

// IncRequestsInFlight increments the in-flight requests counter
func (m *Metrics) IncRequestsInFlight(method, endpoint string) {
	m.HTTPRequestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// DecRequestsInFlight decrements the in-flight requests counter
func (m *Metrics) DecRequestsInFlight(method, endpoint string) {
	m.HTTPRequestsInFlight.WithLabelValues(method, endpoint).Dec()
}
