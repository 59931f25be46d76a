package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CyclesTotal tracks completed scan cycles.
var CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dexduels_scan_cycles_total",
	Help: "Total number of scan cycles started",
})
