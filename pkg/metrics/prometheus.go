// Package metrics provides Prometheus metrics for the league standings service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sampleInterval is how often the system gauges are sampled.
const sampleInterval = 10 * time.Second

// latencyBuckets are histogram bounds in milliseconds.
var latencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // bucket table

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  prometheus.Registerer

	// Standings
	rankingsComputed    prometheus.Counter
	projectionsComputed prometheus.Counter
	rankingDuration     prometheus.Histogram
	trackedTeams        prometheus.Gauge
	tournamentMatches   prometheus.Gauge
	selectionsApplied   *prometheus.CounterVec

	// Upstream refresh
	fetchTotal      *prometheus.CounterVec
	fetchErrors     *prometheus.CounterVec
	fetchLatency    *prometheus.HistogramVec
	refreshLastUnix prometheus.Gauge
	refreshTriggers *prometheus.CounterVec

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "ebl",
		subsystem: "standings",
		enabled:   true,
		registry:  prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.rankingsComputed = auto.NewCounter(m.counterOpts("rankings_computed_total",
		"Total number of league ranking computations"))
	m.projectionsComputed = auto.NewCounter(m.counterOpts("projections_computed_total",
		"Total number of hypothetical projections"))
	m.rankingDuration = auto.NewHistogram(m.histogramOpts("ranking_duration_milliseconds",
		"Time to build a snapshot and run the ranking and advancement engines", latencyBuckets))
	m.trackedTeams = auto.NewGauge(m.gaugeOpts("tracked_teams",
		"Number of rostered teams"))
	m.tournamentMatches = auto.NewGauge(m.gaugeOpts("tournament_matches",
		"Number of recorded tournament matches"))
	m.selectionsApplied = auto.NewCounterVec(m.counterOpts("selections_applied_total",
		"Advancement selections applied by kind"), []string{"kind"})

	m.fetchTotal = auto.NewCounterVec(m.counterOpts("upstream_fetch_total",
		"Upstream event fetches by meet"), []string{"meet"})
	m.fetchErrors = auto.NewCounterVec(m.counterOpts("upstream_fetch_errors_total",
		"Failed upstream event fetches by meet"), []string{"meet"})
	m.fetchLatency = auto.NewHistogramVec(m.histogramOpts("upstream_fetch_latency_milliseconds",
		"Upstream event fetch latency in milliseconds", latencyBuckets), []string{"meet"})
	m.refreshLastUnix = auto.NewGauge(m.gaugeOpts("refresh_last_success_unix",
		"Unix timestamp of the last successful league refresh"))
	m.refreshTriggers = auto.NewCounterVec(m.counterOpts("refresh_triggers_total",
		"Refresh triggers by outcome (queued or coalesced)"), []string{"outcome"})

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_operation_latency_milliseconds",
		"Store operation latency in milliseconds", latencyBuckets), []string{"operation"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total",
		"Store operation errors"), []string{"operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", latencyBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

func on() bool { return globalManager.enabled }

// RecordRankingComputed counts a ranking computation and its duration.
func RecordRankingComputed(durationMs float64) {
	if !on() {
		return
	}
	globalManager.rankingsComputed.Inc()
	globalManager.rankingDuration.Observe(durationMs)
}

// RecordProjectionComputed counts a hypothetical projection.
func RecordProjectionComputed(durationMs float64) {
	if !on() {
		return
	}
	globalManager.projectionsComputed.Inc()
	globalManager.rankingDuration.Observe(durationMs)
}

// UpdateTrackedTeams sets the roster size.
func UpdateTrackedTeams(count int) {
	if !on() {
		return
	}
	globalManager.trackedTeams.Set(float64(count))
}

// UpdateTournamentMatches sets the number of recorded tournament matches.
func UpdateTournamentMatches(count int) {
	if !on() {
		return
	}
	globalManager.tournamentMatches.Set(float64(count))
}

// RecordSelectionApplied counts an applied advancement selection.
func RecordSelectionApplied(kind string) {
	if !on() {
		return
	}
	globalManager.selectionsApplied.WithLabelValues(kind).Inc()
}

// RecordFetch records one upstream fetch for a meet.
func RecordFetch(meet string, latencyMs float64, err error) {
	if !on() {
		return
	}
	globalManager.fetchTotal.WithLabelValues(meet).Inc()
	globalManager.fetchLatency.WithLabelValues(meet).Observe(latencyMs)
	if err != nil {
		globalManager.fetchErrors.WithLabelValues(meet).Inc()
	}
}

// RecordRefreshSuccess stamps the time of the last successful refresh.
func RecordRefreshSuccess(at time.Time) {
	if !on() {
		return
	}
	globalManager.refreshLastUnix.Set(float64(at.Unix()))
}

// RecordRefreshTrigger counts an on-demand refresh request.
func RecordRefreshTrigger(coalesced bool) {
	if !on() {
		return
	}
	outcome := "queued"
	if coalesced {
		outcome = "coalesced"
	}
	globalManager.refreshTriggers.WithLabelValues(outcome).Inc()
}

// RecordStoreOperation records store latency and failures.
func RecordStoreOperation(operation string, latencyMs float64, err error) {
	if !on() {
		return
	}
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
	if err != nil {
		globalManager.storeErrors.WithLabelValues(operation).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !on() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !on() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !on() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !on() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !on() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !on() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !on() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns the system gauge sampling interval.
func RefreshInterval() time.Duration {
	return sampleInterval
}
