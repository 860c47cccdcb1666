package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the catalog service.
// Metrics are organized by subsystem: HTTP handling, book lookups, and
// imports. All counters and histograms are registered via promauto for
// automatic registration with the default Prometheus registry.
type Metrics struct {
	// HTTPRequestsTotal counts HTTP requests, labeled by method, route, and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request duration in seconds, labeled by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// LookupRequestsTotal counts book lookup requests to external sources, labeled by source.
	LookupRequestsTotal *prometheus.CounterVec

	// LookupRequestsFailed counts failed lookup requests, labeled by source and error type.
	LookupRequestsFailed *prometheus.CounterVec

	// LookupRetries counts retry attempts against external sources, labeled by source.
	LookupRetries *prometheus.CounterVec

	// LookupDuration observes lookup duration in seconds including retries, labeled by source.
	LookupDuration *prometheus.HistogramVec

	// LookupEmptyResults counts lookups that returned no matching record, labeled by source.
	LookupEmptyResults *prometheus.CounterVec

	// ImportsStarted counts book import requests initiated.
	ImportsStarted prometheus.Counter

	// ImportsCompleted counts book imports that stored or reused an item.
	ImportsCompleted prometheus.Counter

	// ImportsFailed counts book imports that ended in failure.
	ImportsFailed prometheus.Counter

	// ImportsDeduplicated counts imports that matched an existing item by name.
	ImportsDeduplicated prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// HTTP
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		// Lookups
		LookupRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_requests_total",
			Help:      "Total number of book lookup requests by source",
		}, []string{"source"}),
		LookupRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_requests_failed_total",
			Help:      "Total number of failed book lookup requests by source",
		}, []string{"source", "error_type"}),
		LookupRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_retries_total",
			Help:      "Total number of lookup retry attempts by source",
		}, []string{"source"}),
		LookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of book lookups in seconds including retries",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		LookupEmptyResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_empty_results_total",
			Help:      "Total number of lookups that returned no record by source",
		}, []string{"source"}),

		// Imports
		ImportsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_started_total",
			Help:      "Total number of book imports started",
		}),
		ImportsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_completed_total",
			Help:      "Total number of book imports completed successfully",
		}),
		ImportsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_failed_total",
			Help:      "Total number of book imports that failed",
		}),
		ImportsDeduplicated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_deduplicated_total",
			Help:      "Total number of book imports that reused an existing item",
		}),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordLookup records a completed book lookup.
func (m *Metrics) RecordLookup(source string, durationSeconds float64) {
	m.LookupRequestsTotal.WithLabelValues(source).Inc()
	m.LookupDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordLookupFailed records a failed book lookup.
func (m *Metrics) RecordLookupFailed(source, errorType string) {
	m.LookupRequestsFailed.WithLabelValues(source, errorType).Inc()
}

// RecordLookupRetry records a retry attempt against an external source.
func (m *Metrics) RecordLookupRetry(source string) {
	m.LookupRetries.WithLabelValues(source).Inc()
}

// RecordLookupEmpty records a lookup that returned no record.
func (m *Metrics) RecordLookupEmpty(source string) {
	m.LookupEmptyResults.WithLabelValues(source).Inc()
}

// RecordImportStarted records that an import has started.
func (m *Metrics) RecordImportStarted() {
	m.ImportsStarted.Inc()
}

// RecordImportCompleted records that an import has completed.
func (m *Metrics) RecordImportCompleted() {
	m.ImportsCompleted.Inc()
}

// RecordImportFailed records that an import has failed.
func (m *Metrics) RecordImportFailed() {
	m.ImportsFailed.Inc()
}

// RecordImportDeduplicated records an import resolved to an existing item.
func (m *Metrics) RecordImportDeduplicated() {
	m.ImportsDeduplicated.Inc()
}
