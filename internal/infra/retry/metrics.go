package retry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// attemptsRetried counts retry attempts (not first attempts).
	attemptsRetried = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caddie_retry_attempts_total",
			Help: "Total number of retry attempts per operation",
		},
		[]string{"operation"},
	)

	// exhausted counts operations that failed after all retries.
	exhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caddie_retry_exhausted_total",
			Help: "Total number of operations that exhausted all retries",
		},
		[]string{"operation"},
	)
)
