package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline metrics.
var (
	SearchDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prefiks",
			Name:      "search_degraded_total",
			Help:      "Searches that fell back to text-only ranking",
		},
	)

	SearchResultsCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "prefiks",
			Name:      "search_results_count",
			Help:      "Number of results returned per search after filtering",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called
// once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchResultsCount)
	searchMetricsRegistered = true
}
