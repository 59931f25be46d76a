package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LegsExecutedTotal tracks settled legs by action and terminal status.
	LegsExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexduels_legs_executed_total",
			Help: "Total number of legs driven to a terminal status",
		},
		[]string{"action", "status"},
	)

	// HedgesRecoveredTotal tracks hedges replayed at startup.
	HedgesRecoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexduels_hedges_recovered_total",
			Help: "Total number of pending hedges resolved by startup recovery",
		},
		[]string{"status"},
	)

	// ExecutionDurationSeconds tracks end-to-end execution latency.
	ExecutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dexduels_execution_duration_seconds",
		Help:    "Duration of executing one opportunity to a terminal state",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})
)
