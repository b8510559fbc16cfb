package sparqlstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oldman",
		Subsystem: "sparql",
		Name:      "queries_total",
		Help:      "Number of successful SPARQL SELECT queries.",
	})
	queryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oldman",
		Subsystem: "sparql",
		Name:      "query_errors_total",
		Help:      "Number of failed SPARQL SELECT queries.",
	})
	updates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oldman",
		Subsystem: "sparql",
		Name:      "updates_total",
		Help:      "Number of successful SPARQL updates.",
	})
	updateErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oldman",
		Subsystem: "sparql",
		Name:      "update_errors_total",
		Help:      "Number of failed SPARQL updates.",
	})
	queryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oldman",
		Subsystem: "sparql",
		Name:      "query_seconds",
		Help:      "SPARQL SELECT latency.",
	})
	updateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oldman",
		Subsystem: "sparql",
		Name:      "update_seconds",
		Help:      "SPARQL update latency.",
	})
)
