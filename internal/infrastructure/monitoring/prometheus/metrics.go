// Package prometheus holds the service's metric set. Everything registers
// against an injected Registerer so tests can use isolated registries.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpDurationBuckets      = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	sparqlDurationBuckets    = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	inferenceDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300}
)

// Metrics is the full metric set.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SPARQLQueriesTotal  *prometheus.CounterVec
	SPARQLQueryDuration *prometheus.HistogramVec

	InferenceRunsTotal   *prometheus.CounterVec
	InferenceRunDuration prometheus.Histogram

	BindSkippedRowsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the metric set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smartcompare_http_requests_total",
			Help: "Total HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartcompare_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "route"}),

		SPARQLQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smartcompare_sparql_queries_total",
			Help: "SPARQL SELECT executions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		SPARQLQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartcompare_sparql_query_duration_seconds",
			Help:    "SPARQL SELECT latency by operation.",
			Buckets: sparqlDurationBuckets,
		}, []string{"operation"}),

		InferenceRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smartcompare_inference_runs_total",
			Help: "Reasoner runs by outcome.",
		}, []string{"outcome"}),
		InferenceRunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartcompare_inference_run_duration_seconds",
			Help:    "Reasoner run latency.",
			Buckets: inferenceDurationBuckets,
		}),

		BindSkippedRowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smartcompare_bind_skipped_rows_total",
			Help: "Query result rows dropped by the binder, by operation.",
		}, []string{"operation"}),

		registry: reg,
	}
}

// Handler returns the exposition endpoint handler for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveSPARQLQuery records one SELECT execution.
func (m *Metrics) ObserveSPARQLQuery(operation string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SPARQLQueriesTotal.WithLabelValues(operation, outcome).Inc()
	m.SPARQLQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveInferenceRun records one reasoner run.
func (m *Metrics) ObserveInferenceRun(elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.InferenceRunsTotal.WithLabelValues(outcome).Inc()
	m.InferenceRunDuration.Observe(elapsed.Seconds())
}

// AddSkippedRows records rows the binder dropped for an operation.
func (m *Metrics) AddSkippedRows(operation string, n int) {
	if n > 0 {
		m.BindSkippedRowsTotal.WithLabelValues(operation).Add(float64(n))
	}
}
