package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casetimeline_aggregations_total",
		Help: "Total number of timeline aggregations, labelled by outcome.",
	}, []string{"status"})

	RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casetimeline_records_rejected_total",
		Help: "Raw records skipped during normalization, labelled by source kind.",
	}, []string{"kind"})

	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casetimeline_source_failures_total",
		Help: "Source fetches that yielded no data, labelled by kind and reason.",
	}, []string{"kind", "reason"})

	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casetimeline_fetch_attempts_total",
		Help: "Individual fetch attempts, including retries, labelled by kind.",
	}, []string{"kind"})

	EventsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "casetimeline_events_returned",
		Help:    "Number of events in each rendered timeline.",
		Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "casetimeline_aggregation_duration_ms",
		Help:    "End-to-end aggregation latency in milliseconds, fetches included.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	CaseFileReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casetimeline_casefile_reloads_total",
		Help: "Successful case file reloads (startup, watcher or API).",
	})

	CasesLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "casetimeline_cases_loaded",
		Help: "Number of cases in the currently loaded case file.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "casetimeline_fetch_queue_utilization_ratio",
		Help: "Current fetch queue utilization (0–1).",
	})
)
