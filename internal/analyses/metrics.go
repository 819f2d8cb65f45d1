package analyses

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis outcomes recorded by documentsAnalyzed.
const (
	outcomeAnalyzed = "analyzed"
	outcomeFailed   = "failed"
)

var (
	clausesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "covenant",
		Name:      "clauses_classified_total",
		Help:      "Clauses classified, by label.",
	}, []string{"label"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "covenant",
		Name:      "analysis_duration_seconds",
		Help:      "Time spent extracting, segmenting, and classifying a document.",
		Buckets:   prometheus.DefBuckets,
	})

	documentsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "covenant",
		Name:      "documents_analyzed_total",
		Help:      "Document analyses attempted, by outcome.",
	}, []string{"outcome"})
)
