package codec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	narrowedValues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "halfprec_narrowed_values_total",
		Help: "Total number of values narrowed to binary16, by outcome",
	}, []string{"outcome"})

	narrowBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "halfprec_narrow_batch_size",
		Help:    "Number of values per narrowed batch",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)

func observe(r Report) {
	narrowBatchSize.Observe(float64(r.Count))
	for outcome, n := range r.Outcomes {
		narrowedValues.WithLabelValues(outcome).Add(float64(n))
	}
}
