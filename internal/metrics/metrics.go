package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	inventorySourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_source_failures_total",
			Help: "Inventory source fetches that failed during reconciliation.",
		},
		[]string{"source"},
	)

	inventoryReconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_reconciliations_total",
			Help: "Inventory reconciliations by role and outcome.",
		},
		[]string{"role", "outcome"},
	)

	inventoryIntegrityWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_integrity_warnings_total",
			Help: "Client uploaded products found without a client inventory record.",
		},
	)

	requestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_request_transitions_total",
			Help: "Purchase request status changes by target status and outcome.",
		},
		[]string{"to", "outcome"},
	)

	inventoryEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_events_total",
			Help: "Inventory updated events by delivery channel.",
		},
		[]string{"channel", "outcome"},
	)

	webhookCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_webhook_circuit_state",
			Help: "Webhook circuit breaker state (0=closed, 1=open, 2=half-open).",
		},
		[]string{"target"},
	)

	streamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_stream_subscribers",
			Help: "Open inventory event streams.",
		},
	)
)

func RecordSourceFailure(source string) {
	inventorySourceFailures.WithLabelValues(source).Inc()
}

func RecordReconciliation(role, outcome string) {
	inventoryReconciliations.WithLabelValues(role, outcome).Inc()
}

func RecordIntegrityWarning() {
	inventoryIntegrityWarnings.Inc()
}

func RecordTransition(to, outcome string) {
	requestTransitions.WithLabelValues(to, outcome).Inc()
}

func RecordEvent(channel, outcome string) {
	inventoryEvents.WithLabelValues(channel, outcome).Inc()
}

func SetCircuitState(target string, state float64) {
	webhookCircuitState.WithLabelValues(target).Set(state)
}

func StreamOpened() { streamSubscribers.Inc() }

func StreamClosed() { streamSubscribers.Dec() }

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush lets event streams work through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = "unmatched"
			}

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
