// Package metrics provides Prometheus metrics for the seedline service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh cycle outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeAbandoned  = "abandoned"
)

// Cache read outcomes.
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

// Manager owns every metric of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	fetchBuckets     []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Refresh pipeline
	refreshCycles   *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	lastRefreshUnix prometheus.Gauge

	// Upstream feeds
	upstreamFetches       *prometheus.CounterVec
	upstreamFetchDuration *prometheus.HistogramVec
	fetchWorkersActive    prometheus.Gauge

	// Ranking engine
	teamsIngested    prometheus.Gauge
	duplicatesMerged prometheus.Counter
	bracketsComputed *prometheus.CounterVec
	autoBids         prometheus.Gauge

	// Snapshot cache
	cacheOperations *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Upstream fetches run from tens of milliseconds up to the fetch timeout.
var defaultFetchBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15} //nolint:gochecknoglobals // bucket layout

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "seedline",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		fetchBuckets:     defaultFetchBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.refreshCycles = auto.NewCounterVec(m.counterOpts("refresh_cycles_total",
		"Refresh cycles by outcome (ok, failed, superseded, abandoned)"), []string{"outcome"})
	m.refreshDuration = auto.NewHistogram(m.histogramOpts("refresh_duration_seconds",
		"Wall time of a refresh cycle from fetch to published snapshot"))
	m.lastRefreshUnix = auto.NewGauge(m.gaugeOpts("last_refresh_timestamp_seconds",
		"Unix time of the last published snapshot"))

	m.upstreamFetches = auto.NewCounterVec(m.counterOpts("upstream_fetches_total",
		"Upstream source fetches by source and outcome"), []string{"source", "outcome"})
	fetchOpts := m.histogramOpts("upstream_fetch_duration_seconds", "Latency of a single upstream fetch")
	fetchOpts.Buckets = m.fetchBuckets
	m.upstreamFetchDuration = auto.NewHistogramVec(fetchOpts, []string{"source"})
	m.fetchWorkersActive = auto.NewGauge(m.gaugeOpts("fetch_workers_active",
		"Fetch workers currently running a job"))

	m.teamsIngested = auto.NewGauge(m.gaugeOpts("teams_ingested",
		"Canonical teams produced by the last refresh"))
	m.duplicatesMerged = auto.NewCounter(m.counterOpts("duplicates_merged_total",
		"Duplicate team entries folded by the deduplicator"))
	m.bracketsComputed = auto.NewCounterVec(m.counterOpts("brackets_computed_total",
		"Brackets assembled by mode"), []string{"mode"})
	m.autoBids = auto.NewGauge(m.gaugeOpts("autobids_selected",
		"Conference auto-bids in the last fair bracket"))

	m.cacheOperations = auto.NewCounterVec(m.counterOpts("cache_operations_total",
		"Snapshot cache operations by kind and outcome"), []string{"op", "outcome"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_seconds",
		"HTTP request latency"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total",
		"Errors by component and type"), []string{"component", "error_type"})
}

// RecordRefresh records one finished refresh cycle.
func (m *Manager) RecordRefresh(outcome string, seconds float64) {
	m.refreshCycles.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.refreshDuration.Observe(seconds)
	}
}

// SetLastRefresh stores the unix time of the last published snapshot.
func (m *Manager) SetLastRefresh(unix int64) { m.lastRefreshUnix.Set(float64(unix)) }

// RecordFetch records one upstream fetch.
func (m *Manager) RecordFetch(source, outcome string, seconds float64) {
	m.upstreamFetches.WithLabelValues(source, outcome).Inc()
	m.upstreamFetchDuration.WithLabelValues(source).Observe(seconds)
}

// AddActiveFetchWorkers moves the active fetch worker gauge by delta.
func (m *Manager) AddActiveFetchWorkers(delta int) { m.fetchWorkersActive.Add(float64(delta)) }

// RecordIngest records the size of a prepared team set.
func (m *Manager) RecordIngest(teams, duplicates int) {
	m.teamsIngested.Set(float64(teams))
	if duplicates > 0 {
		m.duplicatesMerged.Add(float64(duplicates))
	}
}

// RecordBracket records one assembled bracket.
func (m *Manager) RecordBracket(mode string, autoBids int) {
	m.bracketsComputed.WithLabelValues(mode).Inc()
	if mode == "fair" {
		m.autoBids.Set(float64(autoBids))
	}
}

// RecordCache records a cache operation such as ("get", "hit").
func (m *Manager) RecordCache(op, outcome string) {
	m.cacheOperations.WithLabelValues(op, outcome).Inc()
}

// RecordHTTPRequest records an HTTP request and its latency.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// RecordError records an error by component and type.
func (m *Manager) RecordError(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Package-level recorders on the global manager.

// RecordRefresh records one finished refresh cycle.
func RecordRefresh(outcome string, seconds float64) { globalManager.RecordRefresh(outcome, seconds) }

// SetLastRefresh stores the unix time of the last published snapshot.
func SetLastRefresh(unix int64) { globalManager.SetLastRefresh(unix) }

// RecordFetch records one upstream fetch.
func RecordFetch(source, outcome string, seconds float64) {
	globalManager.RecordFetch(source, outcome, seconds)
}

// AddActiveFetchWorkers moves the active fetch worker gauge by delta.
func AddActiveFetchWorkers(delta int) { globalManager.AddActiveFetchWorkers(delta) }

// RecordIngest records the size of a prepared team set.
func RecordIngest(teams, duplicates int) { globalManager.RecordIngest(teams, duplicates) }

// RecordBracket records one assembled bracket.
func RecordBracket(mode string, autoBids int) { globalManager.RecordBracket(mode, autoBids) }

// RecordCache records a cache operation.
func RecordCache(op, outcome string) { globalManager.RecordCache(op, outcome) }

// RecordHTTPRequest records an HTTP request and its latency.
func RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, seconds)
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordError(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
