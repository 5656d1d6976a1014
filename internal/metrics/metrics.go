package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	PropertyLookups   *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	DealScores        prometheus.Histogram
	DealOutcomes      *prometheus.CounterVec
	LLMDuration       *prometheus.HistogramVec
	ConfidenceScores  prometheus.Histogram
	HistoryOperations *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proppulse_http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"method", "path", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proppulse_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "path"},
		),

		PropertyLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proppulse_property_lookups_total",
				Help: "Property data lookups by metric source (attom or fallback)",
			},
			[]string{"source"},
		),

		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proppulse_upstream_errors_total",
				Help: "Failed upstream property-data calls by endpoint",
			},
			[]string{"endpoint"},
		),

		DealScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proppulse_deal_score",
				Help:    "Weighted deal evaluation scores",
				Buckets: []float64{0, 20, 40, 60, 70, 80, 90, 100},
			},
		),

		DealOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proppulse_deal_outcomes_total",
				Help: "Deal verdicts by scorer",
			},
			[]string{"scorer", "outcome"},
		),

		LLMDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proppulse_llm_duration_seconds",
				Help:    "Generative model call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
			},
			[]string{"provider", "status"},
		),

		ConfidenceScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proppulse_confidence_score",
				Help:    "Model confidence scores after enforcement",
				Buckets: []float64{0, 20, 40, 60, 70, 80, 90, 100},
			},
		),

		HistoryOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proppulse_history_operations_total",
				Help: "History store operations by store, operation and status",
			},
			[]string{"store", "operation", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.PropertyLookups,
		m.UpstreamErrors,
		m.DealScores,
		m.DealOutcomes,
		m.LLMDuration,
		m.ConfidenceScores,
		m.HistoryOperations,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, statusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordLookup(source string) {
	if m == nil {
		return
	}
	m.PropertyLookups.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordUpstreamError(endpoint string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordDeal(score float64, passes bool) {
	if m == nil {
		return
	}
	m.DealScores.Observe(score)
	m.DealOutcomes.WithLabelValues("criteria", outcome(passes)).Inc()
}

func (m *Metrics) RecordConfidence(score float64, passes bool) {
	if m == nil {
		return
	}
	m.ConfidenceScores.Observe(score)
	m.DealOutcomes.WithLabelValues("confidence", outcome(passes)).Inc()
}

func (m *Metrics) ObserveLLM(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMDuration.WithLabelValues(provider, status).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordHistory(store, operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.HistoryOperations.WithLabelValues(store, operation, status).Inc()
}

func outcome(passes bool) string {
	if passes {
		return "pass"
	}
	return "fail"
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
