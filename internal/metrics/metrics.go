package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan counters, labelled by action (scan_in/scan_out) and outcome
// (applied/rejected). Undos are counted separately since on the wire they
// are ordinary scans distinguished only by their reason.
var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockscan_scans_total",
		Help: "Scan mutations processed, by action and outcome.",
	}, []string{"action", "outcome"})

	UndosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockscan_undos_total",
		Help: "Scan mutations that were undo inversions.",
	})
)
