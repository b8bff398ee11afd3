package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	enabled        atomic.Bool
	registry       prometheus.Registerer

	// Matching
	matchesComputed prometheus.Counter
	matchErrors     prometheus.Counter
	matchScore      prometheus.Histogram
	matchLatency    prometheus.Histogram
	locationTiers   *prometheus.CounterVec
	scheduleStatus  *prometheus.CounterVec
	dealbreakers    *prometheus.CounterVec

	// Recompute pipeline
	recomputeSubmitted *prometheus.CounterVec
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueRejected      prometheus.Counter
	workerCount        prometheus.Gauge
	workerActive       prometheus.Gauge
	workerLatency      prometheus.Histogram
	workerErrors       prometheus.Counter

	// Storage
	storeRecords prometheus.Gauge
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Job sources
	sourceJobs   *prometheus.CounterVec
	sourceErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager atomic.Pointer[Manager] //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps the default Go collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager.Store(NewManager(WithPrometheusRegistry(customRegistry)))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "unihustle",
		subsystem:      "matching",
		latencyBuckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		registry:       prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.latencyBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.matchesComputed = m.counter("matches_computed_total", "Student-job pairs scored")
	m.matchErrors = m.counter("match_errors_total", "Pairs that could not be scored")
	m.matchScore = m.histogram("match_score", "Distribution of total match scores",
		prometheus.LinearBuckets(10, 10, 10))
	m.matchLatency = m.histogram("match_latency_milliseconds", "Time to score one pair", m.latencyBuckets)
	m.locationTiers = m.counterVec("location_tier_total", "Matches by location badge", "badge")
	m.scheduleStatus = m.counterVec("schedule_status_total", "Matches by schedule status", "status")
	m.dealbreakers = m.counterVec("dealbreakers_total", "Totals collapsed by a zero hard-filter score", "kind")

	m.recomputeSubmitted = m.counterVec("recompute_submitted_total", "Recompute tasks by submission outcome", "outcome")
	m.queueSize = m.gauge("queue_size", "Tasks waiting in the recompute queue")
	m.queueCapacity = m.gauge("queue_capacity", "Recompute queue capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Tasks accepted by the queue")
	m.queueDequeued = m.counter("queue_dequeued_total", "Tasks handed to workers")
	m.queueRejected = m.counter("queue_rejected_total", "Tasks rejected because the queue was full or closed")
	m.workerCount = m.gauge("worker_count", "Configured recompute workers")
	m.workerActive = m.gauge("worker_active", "Workers currently processing a task")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Time to score and store one task", m.latencyBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Tasks that failed to score or store")

	m.storeRecords = m.gauge("store_records", "Match records held by the store")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Store operation latency", "backend", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Store operation failures", "backend", "op")

	m.sourceJobs = m.counterVec("source_jobs_total", "Jobs fetched from external sources", "source")
	m.sourceErrors = m.counterVec("source_errors_total", "Job source failures", "source")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration",
		"endpoint", "method", "status_code")
}

func active() (*Manager, bool) {
	m := globalManager.Load()
	return m, m != nil && m.enabled.Load()
}

// RecordMatch records one scored pair.
func RecordMatch(score, latencyMs float64, badge, scheduleStatus string, dealbreakers []string) {
	m, ok := active()
	if !ok {
		return
	}
	m.matchesComputed.Inc()
	m.matchScore.Observe(score)
	m.matchLatency.Observe(latencyMs)
	if badge == "" {
		badge = "distance"
	}
	m.locationTiers.WithLabelValues(badge).Inc()
	m.scheduleStatus.WithLabelValues(scheduleStatus).Inc()
	for _, d := range dealbreakers {
		m.dealbreakers.WithLabelValues(d).Inc()
	}
}

// RecordMatchError increments the match error counter.
func RecordMatchError() {
	if m, ok := active(); ok {
		m.matchErrors.Inc()
	}
}

// RecordRecomputeSubmitted counts recompute submissions by outcome.
func RecordRecomputeSubmitted(outcome string, n int) {
	if m, ok := active(); ok && n > 0 {
		m.recomputeSubmitted.WithLabelValues(outcome).Add(float64(n))
	}
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	if m, ok := active(); ok {
		m.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	if m, ok := active(); ok {
		m.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if m, ok := active(); ok {
		m.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if m, ok := active(); ok {
		m.queueDequeued.Inc()
	}
}

// RecordQueueRejected increments the rejected counter.
func RecordQueueRejected() {
	if m, ok := active(); ok {
		m.queueRejected.Inc()
	}
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	if m, ok := active(); ok {
		m.workerCount.Set(float64(count))
	}
}

// AddWorkerActive adjusts the number of busy workers.
func AddWorkerActive(delta int) {
	if m, ok := active(); ok {
		m.workerActive.Add(float64(delta))
	}
}

// RecordWorkerProcessingLatency records how long a task took.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if m, ok := active(); ok {
		m.workerLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if m, ok := active(); ok {
		m.workerErrors.Inc()
	}
}

// UpdateStoreRecords sets the number of stored match records.
func UpdateStoreRecords(count int) {
	if m, ok := active(); ok {
		m.storeRecords.Set(float64(count))
	}
}

// RecordStoreOperation records the latency of a store call and counts failures.
func RecordStoreOperation(backend, op string, latencyMs float64, err error) {
	m, ok := active()
	if !ok {
		return
	}
	m.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
	if err != nil {
		m.storeErrors.WithLabelValues(backend, op).Inc()
	}
}

// RecordSourceJobs counts jobs fetched from a source.
func RecordSourceJobs(source string, n int) {
	if m, ok := active(); ok && n > 0 {
		m.sourceJobs.WithLabelValues(source).Add(float64(n))
	}
}

// RecordSourceError counts a failed source fetch or normalization.
func RecordSourceError(source string) {
	if m, ok := active(); ok {
		m.sourceErrors.WithLabelValues(source).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if m, ok := active(); ok {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m, ok := active(); ok {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// SetEnabled turns recording on or off process-wide.
func SetEnabled(enabled bool) {
	if m := globalManager.Load(); m != nil {
		m.enabled.Store(enabled)
	}
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
