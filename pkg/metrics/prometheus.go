// Package metrics provides Prometheus metrics for the neonstrike bowling service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throw outcome label values.
const (
	OutcomeStrike = "strike"
	OutcomeSpare  = "spare"
	OutcomeOpen   = "open"
)

var (
	defaultLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50, 100, 250}
	defaultScoreBuckets   = []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300}
)

// Manager manages all Prometheus metrics for the bowling service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	scoreBuckets   []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Game metrics
	throws          *prometheus.CounterVec
	pinsKnocked     prometheus.Counter
	framesCompleted prometheus.Counter
	matchesStarted  *prometheus.CounterVec
	matchesFinished *prometheus.CounterVec
	activeMatches   prometheus.Gauge
	finalScore      prometheus.Histogram
	ignoredInputs   *prometheus.CounterVec
	duplicateInputs prometheus.Counter

	// Simulation metrics
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram

	// Power-up metrics
	powerUpsActivated *prometheus.CounterVec
	powerUpsExpired   *prometheus.CounterVec
	powerUpsRejected  prometheus.Counter

	// Cue pipeline metrics
	cueQueueCapacity  prometheus.Gauge
	cueQueueSize      prometheus.Gauge
	cueEnqueued       *prometheus.CounterVec
	cueDropped        *prometheus.CounterVec
	cueDequeued       prometheus.Counter
	cueDispatchTime   prometheus.Histogram
	cueDispatchErrors prometheus.Counter
	dispatchersActive prometheus.Gauge

	// High score metrics
	highScoreEntries   prometheus.Gauge
	highScoreUpdates   prometheus.Counter
	highScoreQueryTime prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "neonstrike",
		subsystem:      "bowling",
		latencyBuckets: defaultLatencyBuckets,
		scoreBuckets:   defaultScoreBuckets,
		registry:       prometheus.DefaultRegisterer,
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

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.throws = auto.NewCounterVec(m.counterOpts("throws_total", "Throws recorded by outcome"), []string{"outcome"})
	m.pinsKnocked = auto.NewCounter(m.counterOpts("pins_knocked_total", "Pins knocked down across all throws"))
	m.framesCompleted = auto.NewCounter(m.counterOpts("frames_completed_total", "Frames completed by any player"))
	m.matchesStarted = auto.NewCounterVec(m.counterOpts("matches_started_total", "Matches started by game mode"), []string{"mode"})
	m.matchesFinished = auto.NewCounterVec(m.counterOpts("matches_finished_total", "Matches that reached game over by game mode"), []string{"mode"})
	m.activeMatches = auto.NewGauge(m.gaugeOpts("active_matches", "Matches currently hosted"))
	m.finalScore = auto.NewHistogram(m.histogramOpts("final_score", "Final score per player at game over", m.scoreBuckets))
	m.ignoredInputs = auto.NewCounterVec(m.counterOpts("ignored_inputs_total", "Inputs ignored by the match driver"), []string{"input", "reason"})
	m.duplicateInputs = auto.NewCounter(m.counterOpts("duplicate_commands_total", "Commands skipped because their id was already applied"))

	m.ticks = auto.NewCounter(m.counterOpts("ticks_total", "Simulation ticks advanced"))
	m.tickDuration = auto.NewHistogram(m.histogramOpts("tick_duration_milliseconds", "Wall time spent in one simulation tick", m.latencyBuckets))

	m.powerUpsActivated = auto.NewCounterVec(m.counterOpts("powerups_activated_total", "Power-ups activated by kind"), []string{"kind"})
	m.powerUpsExpired = auto.NewCounterVec(m.counterOpts("powerups_expired_total", "Power-ups expired by kind"), []string{"kind"})
	m.powerUpsRejected = auto.NewCounter(m.counterOpts("powerups_rejected_total", "Power-up activations rejected for insufficient charge"))

	m.cueQueueCapacity = auto.NewGauge(m.gaugeOpts("cue_queue_capacity", "Capacity of the cue queue"))
	m.cueQueueSize = auto.NewGauge(m.gaugeOpts("cue_queue_size", "Cues waiting for dispatch"))
	m.cueEnqueued = auto.NewCounterVec(m.counterOpts("cues_enqueued_total", "Cues accepted by the queue by kind"), []string{"kind"})
	m.cueDropped = auto.NewCounterVec(m.counterOpts("cues_dropped_total", "Cues dropped by reason"), []string{"reason"})
	m.cueDequeued = auto.NewCounter(m.counterOpts("cues_dequeued_total", "Cues handed to dispatchers"))
	m.cueDispatchTime = auto.NewHistogram(m.histogramOpts("cue_dispatch_milliseconds", "Time spent delivering one cue to the sink", m.latencyBuckets))
	m.cueDispatchErrors = auto.NewCounter(m.counterOpts("cue_dispatch_errors_total", "Cue deliveries that failed"))
	m.dispatchersActive = auto.NewGauge(m.gaugeOpts("cue_dispatchers_active", "Running cue dispatcher goroutines"))

	m.highScoreEntries = auto.NewGauge(m.gaugeOpts("high_score_entries", "Entries held by the high score board"))
	m.highScoreUpdates = auto.NewCounter(m.counterOpts("high_score_updates_total", "Submissions that improved a high score entry"))
	m.highScoreQueryTime = auto.NewHistogram(m.histogramOpts("high_score_query_milliseconds", "Time spent answering a high score query", m.latencyBuckets))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordThrow counts one throw with its outcome label and knocked pins.
func RecordThrow(outcome string, pins int) error {
	switch outcome {
	case OutcomeStrike, OutcomeSpare, OutcomeOpen:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	if pins < 0 || pins > 10 {
		return fmt.Errorf("%w: %d", ErrPinCount, pins)
	}
	globalManager.throws.WithLabelValues(outcome).Inc()
	globalManager.pinsKnocked.Add(float64(pins))
	return nil
}

// RecordFrameCompleted increments the completed frames counter.
func RecordFrameCompleted() {
	globalManager.framesCompleted.Inc()
}

// RecordMatchStarted counts a new (or reset) match for mode.
func RecordMatchStarted(mode string) {
	globalManager.matchesStarted.WithLabelValues(mode).Inc()
}

// RecordMatchFinished counts a match reaching game over.
func RecordMatchFinished(mode string) {
	globalManager.matchesFinished.WithLabelValues(mode).Inc()
}

// RecordFinalScore observes one player's final score.
func RecordFinalScore(score int) {
	globalManager.finalScore.Observe(float64(score))
}

// UpdateActiveMatches sets the number of hosted matches.
func UpdateActiveMatches(count int) {
	globalManager.activeMatches.Set(float64(count))
}

// RecordIgnoredInput counts an input dropped by the match driver.
func RecordIgnoredInput(input, reason string) {
	globalManager.ignoredInputs.WithLabelValues(input, reason).Inc()
}

// RecordDuplicateCommand counts a command skipped by id deduplication.
func RecordDuplicateCommand() {
	globalManager.duplicateInputs.Inc()
}

// RecordTick counts one simulation tick and its wall time.
func RecordTick(durationMs float64) {
	globalManager.ticks.Inc()
	globalManager.tickDuration.Observe(durationMs)
}

// RecordPowerUpActivated counts an activation of kind.
func RecordPowerUpActivated(kind string) {
	globalManager.powerUpsActivated.WithLabelValues(kind).Inc()
}

// RecordPowerUpExpired counts an expiry of kind.
func RecordPowerUpExpired(kind string) {
	globalManager.powerUpsExpired.WithLabelValues(kind).Inc()
}

// RecordPowerUpRejected counts an activation refused for lack of charge.
func RecordPowerUpRejected() {
	globalManager.powerUpsRejected.Inc()
}

// UpdateCueQueueCapacity sets the cue queue capacity.
func UpdateCueQueueCapacity(capacity int) {
	globalManager.cueQueueCapacity.Set(float64(capacity))
}

// UpdateCueQueueSize sets the number of queued cues.
func UpdateCueQueueSize(size int) {
	globalManager.cueQueueSize.Set(float64(size))
}

// RecordCueEnqueued counts a cue accepted by the queue.
func RecordCueEnqueued(kind string) {
	globalManager.cueEnqueued.WithLabelValues(kind).Inc()
}

// RecordCueDropped counts a cue the queue refused.
func RecordCueDropped(reason string) {
	globalManager.cueDropped.WithLabelValues(reason).Inc()
}

// UpdateHighScoreEntries sets the number of high score entries.
func UpdateHighScoreEntries(count int) {
	globalManager.highScoreEntries.Set(float64(count))
}

// RecordHighScoreUpdate counts an improved high score entry.
func RecordHighScoreUpdate() {
	globalManager.highScoreUpdates.Inc()
}

// RecordHighScoreQuery observes the latency of a high score read.
func RecordHighScoreQuery(latencyMs float64) {
	globalManager.highScoreQueryTime.Observe(latencyMs)
}

// RecordCueDequeued counts a cue handed to a dispatcher.
func RecordCueDequeued() {
	globalManager.cueDequeued.Inc()
}

// RecordCueDispatch observes the delivery time of one cue.
func RecordCueDispatch(latencyMs float64) {
	globalManager.cueDispatchTime.Observe(latencyMs)
}

// RecordCueDispatchError counts a failed delivery.
func RecordCueDispatchError() {
	globalManager.cueDispatchErrors.Inc()
}

// UpdateDispatchersActive sets the number of running dispatchers.
func UpdateDispatchersActive(count int) {
	globalManager.dispatchersActive.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
