package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	evalDurationBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}
	bodySizeBuckets     = []float64{100, 1024, 10240, 102400, 1048576}
)

// Metrics holds all Prometheus metric instruments for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSizeBytes  *prometheus.HistogramVec
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Form editing metrics
	FormSavesTotal     *prometheus.CounterVec
	FormDeletesTotal   prometheus.Counter
	QuestionOpsTotal   *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Response collection metrics
	ResponseSubmissionsTotal *prometheus.CounterVec
	ResponseDeletesTotal     prometheus.Counter
	ExportsTotal             *prometheus.CounterVec

	// Engine and storage metrics
	VisibilityEvalDuration   prometheus.Histogram
	StorageCorruptionsTotal  *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forms_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPRequestSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forms_http_request_size_bytes",
			Help:    "HTTP request body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPResponseSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forms_http_response_size_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),

		// Form editing
		FormSavesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_form_saves_total",
			Help: "Total number of form create and update operations.",
		}, []string{"operation"}),
		FormDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forms_form_deletes_total",
			Help: "Total number of form deletions.",
		}),
		QuestionOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_question_operations_total",
			Help: "Total number of question add, update, delete, and move operations.",
		}, []string{"operation"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_validation_failures_total",
			Help: "Total number of rejected question edits and response submissions.",
		}, []string{"kind"}),

		// Response collection
		ResponseSubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_response_submissions_total",
			Help: "Total number of response submissions.",
		}, []string{"status"}),
		ResponseDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forms_response_deletes_total",
			Help: "Total number of response deletions.",
		}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_exports_total",
			Help: "Total number of CSV exports.",
		}, []string{"status"}),

		// Engine and storage
		VisibilityEvalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forms_visibility_eval_duration_seconds",
			Help:    "Visibility evaluation duration in seconds.",
			Buckets: evalDurationBuckets,
		}),
		StorageCorruptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forms_storage_corruptions_total",
			Help: "Total number of unreadable persistence collections encountered.",
		}, []string{"collection"}),
		StorageOperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forms_storage_operation_duration_seconds",
			Help:    "Store operation duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		// HTTP
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSizeBytes,
		m.HTTPResponseSizeBytes,
		// Form editing
		m.FormSavesTotal,
		m.FormDeletesTotal,
		m.QuestionOpsTotal,
		m.ValidationFailures,
		// Response collection
		m.ResponseSubmissionsTotal,
		m.ResponseDeletesTotal,
		m.ExportsTotal,
		// Engine and storage
		m.VisibilityEvalDuration,
		m.StorageCorruptionsTotal,
		m.StorageOperationDuration,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration, reqSize, respSize int) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
	m.HTTPRequestSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(reqSize))
	m.HTTPResponseSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(respSize))
}

// RecordFormSave records a form create or update.
func (m *Metrics) RecordFormSave(operation string) {
	m.FormSavesTotal.WithLabelValues(operation).Inc()
}

// RecordFormDelete records a form deletion.
func (m *Metrics) RecordFormDelete() {
	m.FormDeletesTotal.Inc()
}

// RecordQuestionOp records a question edit operation.
func (m *Metrics) RecordQuestionOp(operation string) {
	m.QuestionOpsTotal.WithLabelValues(operation).Inc()
}

// RecordValidationFailure records a rejected edit or submission.
func (m *Metrics) RecordValidationFailure(kind string) {
	m.ValidationFailures.WithLabelValues(kind).Inc()
}

// RecordResponseSubmission records a response submission attempt.
func (m *Metrics) RecordResponseSubmission(status string) {
	m.ResponseSubmissionsTotal.WithLabelValues(status).Inc()
}

// RecordResponseDelete records a response deletion.
func (m *Metrics) RecordResponseDelete() {
	m.ResponseDeletesTotal.Inc()
}

// RecordExport records a CSV export attempt.
func (m *Metrics) RecordExport(status string) {
	m.ExportsTotal.WithLabelValues(status).Inc()
}

// RecordVisibilityEval records a visibility evaluation.
func (m *Metrics) RecordVisibilityEval(duration time.Duration) {
	m.VisibilityEvalDuration.Observe(duration.Seconds())
}

// RecordStorageCorruption records an unreadable persistence collection.
func (m *Metrics) RecordStorageCorruption(collection string) {
	m.StorageCorruptionsTotal.WithLabelValues(collection).Inc()
}

// RecordStorageOperation records the duration of a store operation.
func (m *Metrics) RecordStorageOperation(operation string, duration time.Duration) {
	m.StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		pathPattern := routePattern(r)
		reqSize := 0
		if r.ContentLength > 0 {
			reqSize = int(r.ContentLength)
		}

		m.RecordHTTPRequest(r.Method, pathPattern, sw.status, duration, reqSize, sw.bytes)
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
