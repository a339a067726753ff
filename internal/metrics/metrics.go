package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "route"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gameplay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "route"},
	)

	// SessionsStarted counts sessions started per template variant
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_sessions_started_total",
			Help: "Total number of game sessions started",
		},
		[]string{"variant"},
	)

	// SessionsFinished counts sessions reaching a terminal status
	SessionsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_sessions_finished_total",
			Help: "Total number of game sessions completed or abandoned",
		},
		[]string{"variant", "status"},
	)

	// AttemptLimitRejections counts starts refused by the attempt ceiling
	AttemptLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gameplay_attempt_limit_rejections_total",
			Help: "Total number of session starts rejected by the attempt limit",
		},
	)

	// AnswersGraded counts graded answers by variant and outcome
	AnswersGraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameplay_answers_graded_total",
			Help: "Total number of graded answers",
		},
		[]string{"variant", "correct"},
	)

	// HintsRevealed counts hint reveals
	HintsRevealed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gameplay_hints_revealed_total",
			Help: "Total number of hints revealed",
		},
	)

	// SessionPercentage observes final percentages of completed sessions
	SessionPercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gameplay_session_percentage",
			Help:    "Final percentage score of completed sessions",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// StoreOperationDuration measures store command duration
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gameplay_store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CacheHits counts game definition cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gameplay_game_cache_hits_total",
			Help: "Total number of game definition cache hits",
		},
	)

	// CacheMisses counts game definition cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gameplay_game_cache_misses_total",
			Help: "Total number of game definition cache misses",
		},
	)
)

// RecordStoreOperation records the duration of a store command.
func RecordStoreOperation(operation string, startTime time.Time) {
	StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
}

// Middleware collects HTTP request metrics. Routes are labelled by their
// ServeMux pattern so path ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(rec.status)
		RequestCounter.WithLabelValues(status, r.Method, route).Inc()
		RequestDuration.WithLabelValues(status, r.Method, route).Observe(time.Since(startTime).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the hijacker for WebSocket upgrades.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
