package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal tracks mutation outcomes per operation.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caddie_mutations_total",
			Help: "Total number of response mutations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	// RosterSize tracks the confirmed roster size per session.
	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "caddie_roster_size",
			Help: "Number of confirmed responses in the session roster",
		},
		[]string{"session"},
	)
)
