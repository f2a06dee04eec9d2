package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retrievalPhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "retrieval_phase_duration_seconds",
		Help:    "Latency of one retrieval phase (lexical, embedding, vector, fuse).",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	retrievalResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retrieval_fused_results",
		Help:    "Number of fused spans returned per retrieval call.",
		Buckets: []float64{0, 1, 2, 4, 8, 12, 16, 24, 32},
	})

	retrievalErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrieval_errors_total",
		Help: "Retrieval failures by phase.",
	}, []string{"phase"})
)

func ObservePhase(phase string, start time.Time) {
	retrievalPhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

func ObserveFusedResults(n int) {
	retrievalResults.Observe(float64(n))
}

func IncError(phase string) {
	retrievalErrors.WithLabelValues(phase).Inc()
}
