package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importgraph_files_scanned_total",
		Help: "Source files read and handed to an extractor.",
	}, []string{"language"})

	ParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importgraph_parse_failures_total",
		Help: "Source files whose text did not parse; recorded with no imports.",
	}, []string{"language"})

	FilesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importgraph_files_skipped_total",
		Help: "Walk entries skipped because they could not be read.",
	})

	ImportsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importgraph_imports_upserted_total",
		Help: "IMPORTS edge merges issued to the graph store.",
	})

	WriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importgraph_write_failures_total",
		Help: "Graph store writes that were rejected.",
	})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "importgraph_scan_seconds",
		Help:    "Wall time of a complete scan.",
		Buckets: prometheus.DefBuckets,
	})

	GraphFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "importgraph_graph_files",
		Help: "File nodes in the graph after the last scan.",
	})

	GraphModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "importgraph_graph_modules",
		Help: "Module nodes in the graph after the last scan.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "importgraph_graph_edges",
		Help: "IMPORTS edges in the graph after the last scan.",
	})
)
