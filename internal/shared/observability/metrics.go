package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "standalone_parsing_seconds",
		Help:    "Time spent parsing a source unit.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "standalone_extraction_seconds",
		Help:    "Time spent computing one dependency closure.",
		Buckets: prometheus.DefBuckets,
	})

	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "standalone_extractions_total",
		Help: "Total number of extraction requests by outcome.",
	}, []string{"status"})

	SnippetLines = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "standalone_snippet_lines",
		Help:    "Number of lines in an emitted snippet.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	MissingDependenciesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "standalone_missing_dependencies_total",
		Help: "Total number of import dependencies that resolved to no unit.",
	})

	CorpusUnits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "standalone_corpus_units",
		Help: "Current number of source units held in the corpus.",
	})

	CorpusReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "standalone_corpus_reloads_total",
		Help: "Total number of corpus reloads triggered by file changes.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "standalone_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HistoryWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "standalone_history_writes_total",
		Help: "Total number of extraction runs recorded to history.",
	})
)
