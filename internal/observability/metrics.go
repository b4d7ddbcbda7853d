package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the HTTP surface, LLM calls and
// the scenario pipeline. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	extractionFailures  *prometheus.CounterVec
	consistencyWarnings *prometheus.CounterVec
	realtimeFetches     *prometheus.CounterVec
	cacheLookups        *prometheus.CounterVec
}

// NewMetrics registers collectors against reg, defaulting to the global
// registry when nil. Registering twice returns the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	m := &Metrics{gatherer: gatherer}

	var err error
	if m.apiRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightsim_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"}), "flightsim_http_requests_total"); err != nil {
		return nil, err
	}
	if m.apiLatency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flightsim_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "route"}), "flightsim_http_request_duration_seconds"); err != nil {
		return nil, err
	}
	if m.apiInflight, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flightsim_http_inflight_requests",
		Help: "HTTP requests currently being served.",
	}), "flightsim_http_inflight_requests"); err != nil {
		return nil, err
	}
	if m.llmRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightsim_llm_requests_total",
		Help: "LLM generation calls by provider, task and outcome.",
	}, []string{"provider", "task", "status"}), "flightsim_llm_requests_total"); err != nil {
		return nil, err
	}
	if m.llmLatency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flightsim_llm_request_duration_seconds",
		Help:    "LLM generation latency in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 90, 120},
	}, []string{"provider", "task"}), "flightsim_llm_request_duration_seconds"); err != nil {
		return nil, err
	}
	if m.extractionFailures, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightsim_extraction_failures_total",
		Help: "Model outputs that could not be turned into a structured payload, by error code.",
	}, []string{"code"}), "flightsim_extraction_failures_total"); err != nil {
		return nil, err
	}
	if m.consistencyWarnings, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightsim_consistency_warnings_total",
		Help: "Scenario consistency warnings by code.",
	}, []string{"code"}), "flightsim_consistency_warnings_total"); err != nil {
		return nil, err
	}
	if m.realtimeFetches, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightsim_realtime_fetches_total",
		Help: "Real-time fact fetches by source and outcome.",
	}, []string{"source", "status"}), "flightsim_realtime_fetches_total"); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightsim_cache_lookups_total",
		Help: "Real-time fact cache lookups by result.",
	}, []string{"result"}), "flightsim_cache_lookups_total"); err != nil {
		return nil, err
	}
	return m, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = orUnknown(strings.ToUpper(method))
	route = orUnknown(route)
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(provider, task, status string, dur time.Duration) {
	if m == nil {
		return
	}
	provider, task, status = orUnknown(provider), orUnknown(task), orUnknown(status)
	m.llmRequests.WithLabelValues(provider, task, status).Inc()
	m.llmLatency.WithLabelValues(provider, task).Observe(dur.Seconds())
}

func (m *Metrics) IncExtractionFailure(code string) {
	if m == nil {
		return
	}
	m.extractionFailures.WithLabelValues(orUnknown(code)).Inc()
}

func (m *Metrics) IncConsistencyWarning(code string) {
	if m == nil {
		return
	}
	m.consistencyWarnings.WithLabelValues(orUnknown(code)).Inc()
}

func (m *Metrics) ObserveRealtimeFetch(source string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.realtimeFetches.WithLabelValues(orUnknown(source), status).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
