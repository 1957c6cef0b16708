package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Intent classification outcomes: data_query, general_chat or degraded
	IntentClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "intent_classifications_total",
			Help:      "Total intent classifications by outcome",
		},
		[]string{"outcome"},
	)

	// Pipelines whose tenant filter had to be rewritten structurally
	TenantScopeRewritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "tenant_scope_rewrites_total",
			Help:      "Generated pipelines missing the tenant filter that were rewritten",
		},
	)

	// Aggregation calls by status
	PipelineExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "pipeline_executions_total",
			Help:      "Total aggregation pipeline executions",
		},
		[]string{"status"},
	)

	// Generation provider failures by operation
	GenerationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "generation_errors_total",
			Help:      "Total language generation call failures",
		},
		[]string{"operation"},
	)

	// Interactions persisted to history
	InteractionsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salespilot",
			Subsystem: "chat_api",
			Name:      "interactions_saved_total",
			Help:      "Total chat interactions appended to history",
		},
	)
)

// RecordRequest records metrics for one completed HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
