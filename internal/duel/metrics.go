package duel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks opportunities exceeding the trigger.
	OpportunitiesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dexduels_opportunities_detected_total",
		Help: "Total number of arbitrage opportunities detected",
	})

	// OpportunityProfitUSD tracks estimated profits in numeraire units.
	OpportunityProfitUSD = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dexduels_opportunity_profit_usd",
		Help:    "Estimated opportunity profit in numeraire units",
		Buckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	// QuoteFailuresTotal tracks skipped probes by venue.
	QuoteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexduels_quote_failures_total",
			Help: "Total number of probes skipped because a venue could not quote",
		},
		[]string{"venue"},
	)

	// ScanDurationSeconds tracks full scan cycle latency.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dexduels_scan_duration_seconds",
		Help:    "Duration of one full opportunity scan",
		Buckets: prometheus.DefBuckets,
	})
)
