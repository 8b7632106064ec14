// Package metrics defines the Prometheus collectors exported by resumatch.
//
// Collectors are registered with the default registry on package
// initialization and served by the HTTP adapter on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "resumatch"

// Ingestion outcomes.
const (
	OutcomeAdded            = "added"
	OutcomeSkippedExisting  = "skipped_existing"
	OutcomeSkippedDuplicate = "skipped_duplicate"
	OutcomeUnsupported      = "unsupported"
	OutcomeFailed           = "failed"
)

// Request statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_documents_total",
			Help:      "Documents seen by ingestion, by outcome",
		},
		[]string{"outcome"},
	)

	IngestBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_batch_duration_seconds",
			Help:      "Ingestion batch duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Documents currently held by the vector index",
		},
	)

	RankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_requests_total",
			Help:      "Total number of ranking requests",
		},
		[]string{"status"},
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_duration_seconds",
			Help:      "Ranking request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	EmbeddingTextsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_texts_total",
			Help:      "Total number of texts sent for embedding",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(
		IngestDocumentsTotal,
		IngestBatchDuration,
		IndexDocuments,
		RankRequestsTotal,
		RankDuration,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTextsTotal,
	)
}

// Status maps an error to a request status label.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
