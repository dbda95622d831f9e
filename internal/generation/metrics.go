package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	questionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "generation_questions_total",
		Help: "Questions generated across all requests.",
	})

	questionsDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "generation_questions_degraded_total",
		Help: "Questions produced with fewer detractors than requested.",
	})

	poolSizes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "generation_pool_size",
		Help:    "Candidate pool size after dedup, exclusion and fallback.",
		Buckets: prometheus.ExponentialBuckets(5, 2, 8),
	})
)

func observePoolSize(n int) {
	poolSizes.Observe(float64(n))
}
