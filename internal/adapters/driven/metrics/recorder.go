// Package metrics provides a Prometheus MetricsRecorder for the copilot client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "copilot"

// Recorder exposes client-side counters on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	ingestTotal    *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
	ingestChunks   prometheus.Histogram
	queryTotal     *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	queryCitations prometheus.Histogram
	staleQueries   prometheus.Counter
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	ingestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "requests_total",
			Help:      "Total ingestion calls by outcome.",
		},
		[]string{"outcome"},
	)
	ingestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Ingestion call duration in seconds by outcome.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)
	ingestChunks := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "chunks",
			Help:      "Chunks produced per successful ingestion.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
		},
	)
	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Total query calls by outcome.",
		},
		[]string{"outcome"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query call duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	queryCitations := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "citations",
			Help:      "Citations returned per answered query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
	staleQueries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "stale_responses_total",
			Help:      "Query responses discarded because a newer query superseded them.",
		},
	)

	registry.MustRegister(
		ingestTotal, ingestDuration, ingestChunks,
		queryTotal, queryDuration, queryCitations,
		staleQueries,
	)

	return &Recorder{
		registry:       registry,
		ingestTotal:    ingestTotal,
		ingestDuration: ingestDuration,
		ingestChunks:   ingestChunks,
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		queryCitations: queryCitations,
		staleQueries:   staleQueries,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveIngest records one finished ingestion call.
func (r *Recorder) ObserveIngest(outcome string, chunks int, duration time.Duration) {
	r.ingestTotal.WithLabelValues(outcome).Inc()
	r.ingestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome != driven.OutcomeFailure {
		r.ingestChunks.Observe(float64(chunks))
	}
}

// ObserveQuery records one finished query call.
func (r *Recorder) ObserveQuery(outcome string, citations int, duration time.Duration) {
	r.queryTotal.WithLabelValues(outcome).Inc()
	r.queryDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome != driven.OutcomeFailure {
		r.queryCitations.Observe(float64(citations))
	}
}

// ObserveStaleQuery records a discarded query response.
func (r *Recorder) ObserveStaleQuery() {
	r.staleQueries.Inc()
}
