package metrics

import "github.com/prometheus/client_golang/prometheus"

// Quota Prometheus metrics.
var (
	SwipesRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mealmate",
			Name:      "swipes_remaining",
			Help:      "Swipes left in the current week",
		},
	)

	WeekResetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmate",
			Name:      "week_resets_total",
			Help:      "Quota resets by trigger",
		},
		[]string{"trigger"}, // "first_run" / "rollover" / "resume"
	)

	QuotaMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmate",
			Name:      "quota_mutations_total",
			Help:      "Quota mutations by operation",
		},
		[]string{"op"}, // "increment" / "decrement" / "set"
	)

	StorageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealmate",
			Name:      "storage_failures_total",
			Help:      "Failed storage reads and writes",
		},
		[]string{"op"}, // "get" / "set"
	)
)

var quotaMetricsRegistered bool

// RegisterQuotaMetrics registers quota metrics. Must be called once from main.
func RegisterQuotaMetrics() {
	if quotaMetricsRegistered {
		return
	}
	prometheus.MustRegister(SwipesRemaining)
	prometheus.MustRegister(WeekResetsTotal)
	prometheus.MustRegister(QuotaMutationsTotal)
	prometheus.MustRegister(StorageFailuresTotal)
	quotaMetricsRegistered = true
}
