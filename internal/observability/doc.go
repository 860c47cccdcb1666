// Package observability provides structured logging, Prometheus metrics,
// and request-scoped context propagation for the catalog service.
//
// Logging is built on zerolog. NewLogger constructs a logger from a
// LoggingConfig, and the With*Context helpers attach common fields
// (request ID, entity IDs, lookup source) so log lines stay correlated
// across the handler, repository, and import layers.
//
// Metrics are registered with the default Prometheus registry via
// promauto. NewMetrics takes a namespace prefix so the service's metrics
// stay distinguishable when scraped alongside other processes.
package observability
