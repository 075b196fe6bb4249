package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digger",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "digger",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digger",
			Subsystem: "pipeline",
			Name:      "searches_total",
			Help:      "Total search provider calls",
		},
		[]string{"status"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digger",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Total source content extractions",
		},
		[]string{"status"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "digger",
			Subsystem: "pipeline",
			Name:      "extraction_duration_seconds",
			Help:      "Source extraction duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	AnswerStreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digger",
			Subsystem: "pipeline",
			Name:      "answer_streams_total",
			Help:      "Total answer streams by terminal status",
		},
		[]string{"status"},
	)

	StreamTokensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "digger",
			Subsystem: "pipeline",
			Name:      "stream_tokens_total",
			Help:      "Total answer tokens forwarded to clients",
		},
	)
)
