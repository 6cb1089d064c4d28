// Package metrics provides Prometheus metrics for the gridiron drive explorer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Load and query latencies are in milliseconds; queries over the in-memory
// table are sub-millisecond so the buckets start low.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// subsystem groups every collector under <namespace>_explorer_.
const subsystem = "explorer"

// Manager manages all Prometheus metrics for the explorer service.
type Manager struct {
	namespace       string
	enabled         bool
	refreshInterval time.Duration
	registry        prometheus.Registerer

	// Dataset Metrics - what was loaded at startup
	datasetFiles        prometheus.Gauge
	datasetRows         prometheus.Gauge
	datasetRowsRejected *prometheus.GaugeVec
	datasetSeasons      prometheus.Gauge
	datasetGames        prometheus.Gauge
	datasetLoadDuration prometheus.Histogram
	datasetLoadErrors   prometheus.Counter
	datasetFileDuration *prometheus.HistogramVec

	// Query Metrics - filter and aggregate performance
	queryLatency      *prometheus.HistogramVec
	queryEmptyResults *prometheus.CounterVec
	pageRenders       *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "gridiron",
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// A disabled manager still creates its collectors so recorders stay
	// safe to call, but nothing is exposed.
	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   defaultLatencyBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Dataset Metrics
	m.datasetFiles = auto.NewGauge(m.gaugeOpts("dataset_files", "Number of season files loaded at startup"))
	m.datasetRows = auto.NewGauge(m.gaugeOpts("dataset_rows", "Number of play rows held in the in-memory table"))
	m.datasetRowsRejected = auto.NewGaugeVec(
		m.gaugeOpts("dataset_rows_rejected", "Number of play rows excluded at load time by reason"),
		[]string{"reason"},
	)
	m.datasetSeasons = auto.NewGauge(m.gaugeOpts("dataset_seasons", "Number of distinct seasons loaded"))
	m.datasetGames = auto.NewGauge(m.gaugeOpts("dataset_games", "Number of distinct games loaded"))
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts("dataset_load_duration_milliseconds", "Total dataset load time in milliseconds"))
	m.datasetLoadErrors = auto.NewCounter(m.counterOpts("dataset_load_errors_total", "Number of failed dataset loads"))
	m.datasetFileDuration = auto.NewHistogramVec(
		m.histogramOpts("dataset_file_decode_duration_milliseconds", "Per-file decode time in milliseconds by format"),
		[]string{"format"},
	)

	// Query Metrics
	m.queryLatency = auto.NewHistogramVec(
		m.histogramOpts("query_latency_milliseconds", "Filter/aggregate query latency in milliseconds by operation"),
		[]string{"operation"},
	)
	m.queryEmptyResults = auto.NewCounterVec(
		m.counterOpts("query_empty_results_total", "Queries that matched no data, by operation"),
		[]string{"operation"},
	)
	m.pageRenders = auto.NewCounterVec(
		m.counterOpts("page_renders_total", "Rendered HTML pages by page"),
		[]string{"page"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds (user experience)"),
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in an error"),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap memory in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause time in milliseconds"))
}

// Dataset Metrics Functions.

// UpdateDatasetFiles sets the number of loaded season files.
func UpdateDatasetFiles(count int) {
	globalManager.datasetFiles.Set(float64(count))
}

// UpdateDatasetRows sets the number of rows held in the table.
func UpdateDatasetRows(count int) {
	globalManager.datasetRows.Set(float64(count))
}

// UpdateDatasetRowsRejected sets the number of rows excluded for a reason.
func UpdateDatasetRowsRejected(reason string, count int) {
	globalManager.datasetRowsRejected.WithLabelValues(reason).Set(float64(count))
}

// UpdateDatasetShape sets the number of distinct seasons and games.
func UpdateDatasetShape(seasons, games int) {
	globalManager.datasetSeasons.Set(float64(seasons))
	globalManager.datasetGames.Set(float64(games))
}

// RecordDatasetLoadDuration records the total dataset load time.
func RecordDatasetLoadDuration(durationMs float64) {
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// RecordDatasetLoadError increments the failed load counter.
func RecordDatasetLoadError() {
	globalManager.datasetLoadErrors.Inc()
}

// RecordFileDecodeDuration records how long a single file took to decode.
func RecordFileDecodeDuration(format string, durationMs float64) {
	globalManager.datasetFileDuration.WithLabelValues(format).Observe(durationMs)
}

// Query Metrics Functions.

// RecordQueryLatency records the latency of a filter/aggregate operation.
func RecordQueryLatency(operation string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordQueryEmpty increments the empty-result counter for an operation.
func RecordQueryEmpty(operation string) {
	globalManager.queryEmptyResults.WithLabelValues(operation).Inc()
}

// RecordPageRender increments the render counter for an HTML page.
func RecordPageRender(page string) {
	globalManager.pageRenders.WithLabelValues(page).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Configure rebuilds the global manager on a fresh registry. It must run
// before any handler captures GetRegistry and before requests are served.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
	customRegistry = registry
}
