// Package metrics provides Prometheus metrics for the skillfolio engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Sessions
	sessionsActive  prometheus.Gauge
	sessionsStarted prometheus.Counter
	sessionsEnded   prometheus.Counter

	// Skill pools
	skillsCreated  *prometheus.CounterVec
	skillsDeleted  *prometheus.CounterVec
	skillMoves     *prometheus.CounterVec
	selectedSkills *prometheus.GaugeVec

	// Evaluation matrix
	evaluatorGenerations *prometheus.CounterVec
	aiRegenerations      *prometheus.CounterVec
	studentRejected      prometheus.Counter

	// Evidence
	evidenceSubmitted  *prometheus.CounterVec
	evidenceDuplicates prometheus.Counter
	evidenceCleared    *prometheus.CounterVec

	// Edit sessions
	editSessions *prometheus.CounterVec

	// Domain errors
	domainErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Evidence queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Evidence workers
	workerCount             prometheus.Gauge
	workerProcessed         prometheus.Counter
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillfolio",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, Buckets: buckets, ConstLabels: m.customLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.sessionsActive = m.gauge("sessions_active", "Number of live dashboard sessions")
	m.sessionsStarted = m.counter("sessions_started_total", "Total number of sessions started")
	m.sessionsEnded = m.counter("sessions_ended_total", "Total number of sessions ended")

	m.skillsCreated = m.counterVec("skills_created_total", "Skills created by users", "category")
	m.skillsDeleted = m.counterVec("skills_deleted_total", "Skills permanently deleted", "category", "pool")
	m.skillMoves = m.counterVec("skill_moves_total", "Skills moved between the available and selected pools", "category", "direction")
	m.selectedSkills = m.gaugeVec("selected_skills", "Selected skills in the most recently mutated session", "category")

	m.evaluatorGenerations = m.counterVec("evaluator_generations_total", "Evaluator scores generated", "evaluator")
	m.aiRegenerations = m.counterVec("ai_regenerations_total", "AI rows regenerated after evidence", "category")
	m.studentRejected = m.counter("student_inputs_rejected_total", "Student score inputs ignored as malformed")

	m.evidenceSubmitted = m.counterVec("evidence_submitted_total", "Evidence items applied to a session", "category")
	m.evidenceDuplicates = m.counter("evidence_duplicates_total", "Evidence submissions dropped as duplicates")
	m.evidenceCleared = m.counterVec("evidence_cleared_total", "Evidence gates cleared", "category")

	m.editSessions = m.counterVec("edit_sessions_total", "Edit sessions by outcome", "outcome")

	m.domainErrors = m.counterVec("domain_errors_total", "Domain errors by kind", "kind")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "HTTP errors by type", "error_type", "severity")

	m.queueSize = m.gauge("evidence_queue_size", "Evidence events waiting to be applied")
	m.queueCapacity = m.gauge("evidence_queue_capacity", "Maximum evidence queue capacity")
	m.queueEnqueued = m.counter("evidence_queue_enqueue_total", "Evidence events enqueued")
	m.queueDequeued = m.counter("evidence_queue_dequeue_total", "Evidence events dequeued")
	m.queueEnqueueErrors = m.counterVec("evidence_queue_enqueue_errors_total", "Evidence enqueue failures", "reason")

	m.workerCount = m.gauge("evidence_worker_count", "Evidence workers running")
	m.workerProcessed = m.counter("evidence_worker_processed_total", "Evidence events applied by workers")
	m.workerErrors = m.counter("evidence_worker_errors_total", "Evidence events that failed to apply")
	m.workerProcessingLatency = m.histogram("evidence_worker_latency_milliseconds", "Evidence apply latency in milliseconds", m.histogramBuckets)

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Session metrics.

// RecordSessionStarted counts a new session and bumps the active gauge.
func RecordSessionStarted() {
	globalManager.sessionsStarted.Inc()
	globalManager.sessionsActive.Inc()
}

// RecordSessionEnded counts an ended session and lowers the active gauge.
func RecordSessionEnded() {
	globalManager.sessionsEnded.Inc()
	globalManager.sessionsActive.Dec()
}

// Skill pool metrics.

// RecordSkillCreated counts a user-created skill.
func RecordSkillCreated(category string) {
	globalManager.skillsCreated.WithLabelValues(category).Inc()
}

// RecordSkillDeleted counts a permanent delete from the given pool.
func RecordSkillDeleted(category, pool string) {
	globalManager.skillsDeleted.WithLabelValues(category, pool).Inc()
}

// RecordSkillMove counts a select or deselect.
func RecordSkillMove(category, direction string) {
	globalManager.skillMoves.WithLabelValues(category, direction).Inc()
}

// UpdateSelectedSkills sets the selected-pool size for a category.
func UpdateSelectedSkills(category string, n int) {
	globalManager.selectedSkills.WithLabelValues(category).Set(float64(n))
}

// Evaluation metrics.

// RecordEvaluatorGeneration counts generated scores for an evaluator row.
func RecordEvaluatorGeneration(evaluator string, n int) {
	if n <= 0 {
		return
	}
	globalManager.evaluatorGenerations.WithLabelValues(evaluator).Add(float64(n))
}

// RecordAIRegeneration counts an AI row regeneration.
func RecordAIRegeneration(category string) {
	globalManager.aiRegenerations.WithLabelValues(category).Inc()
}

// RecordStudentInputRejected counts an ignored student input.
func RecordStudentInputRejected() {
	globalManager.studentRejected.Inc()
}

// Evidence metrics.

// RecordEvidenceSubmitted counts evidence applied to a category.
func RecordEvidenceSubmitted(category string) {
	globalManager.evidenceSubmitted.WithLabelValues(category).Inc()
}

// RecordEvidenceDuplicate counts a dropped duplicate submission.
func RecordEvidenceDuplicate() {
	globalManager.evidenceDuplicates.Inc()
}

// RecordEvidenceCleared counts a cleared gate.
func RecordEvidenceCleared(category string) {
	globalManager.evidenceCleared.WithLabelValues(category).Inc()
}

// RecordEditSession counts an edit session outcome: opened, committed, discarded, deleted.
func RecordEditSession(outcome string) {
	globalManager.editSessions.WithLabelValues(outcome).Inc()
}

// RecordDomainError counts a domain error by kind.
func RecordDomainError(kind string) {
	globalManager.domainErrors.WithLabelValues(kind).Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts an enqueue failure by reason.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// Worker metrics.

// UpdateWorkerCount sets the number of running evidence workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessed counts an applied evidence event.
func RecordWorkerProcessed() {
	globalManager.workerProcessed.Inc()
}

// RecordWorkerError counts an evidence event that failed to apply.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
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

// GetRegistry returns the registry every collector is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
