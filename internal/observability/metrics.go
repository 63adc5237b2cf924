package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "covid_bot"

// Metrics holds the Prometheus counters, histograms, and gauges for the bot.
type Metrics struct {
	CommandsConsumed prometheus.Counter
	RepliesProduced  prometheus.Counter
	CommandErrors    prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Report metrics.
	Reports      *prometheus.CounterVec // labels: kind, outcome={ok,unavailable,error}
	RowsExcluded *prometheus.CounterVec // labels: provider, reason={malformed,not_found,duplicate,skipped}

	// Provider fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: provider, outcome={success,error}
	FetchCache    *prometheus.CounterVec   // labels: provider, result={hit,miss}
	FetchDuration *prometheus.HistogramVec // labels: provider
}

// NewMetrics creates and registers all bot metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CommandsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_consumed_total",
			Help:      "Total chat commands read from the command topic.",
		}),
		RepliesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_produced_total",
			Help:      "Total replies written to the reply topic.",
		}),
		CommandErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_errors_total",
			Help:      "Total commands that could not be decoded or answered.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the command pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of commands per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch read-answer-write cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports generated by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RowsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_excluded_total",
			Help:      "Provider rows left out of reports by provider and reason.",
		}, []string{"provider", "reason"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Provider fetches by provider and outcome.",
		}, []string{"provider", "outcome"}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_cache_total",
			Help:      "Provider response cache lookups by provider and result.",
		}, []string{"provider", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}

	prometheus.MustRegister(
		m.CommandsConsumed,
		m.RepliesProduced,
		m.CommandErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Reports,
		m.RowsExcluded,
		m.FetchRequests,
		m.FetchCache,
		m.FetchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CommandsConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "commands_consumed_total"}),
		RepliesProduced:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "replies_produced_total"}),
		CommandErrors:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "command_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_processing_duration_seconds"}),
		Reports:                 prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "reports_total"}, []string{"kind", "outcome"}),
		RowsExcluded:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "rows_excluded_total"}, []string{"provider", "reason"}),
		FetchRequests:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_requests_total"}, []string{"provider", "outcome"}),
		FetchCache:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_cache_total"}, []string{"provider", "result"}),
		FetchDuration:           prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_duration_seconds"}, []string{"provider"}),
	}
}
