package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DispatchTotal counts dispatched requests by Alpha Vantage function
	// and outcome (success, soft_block, transport_error, format_error,
	// rotation_error, exhausted, budget_exceeded).
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "av_dispatch_total",
			Help: "Total dispatched requests by function and outcome.",
		},
		[]string{"function", "outcome"},
	)

	// DispatchDuration tracks request round-trip latency in seconds.
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "av_dispatch_duration_seconds",
			Help:    "Request round-trip latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"function"},
	)

	// SoftBlocksTotal counts provider soft-block responses.
	SoftBlocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "av_soft_blocks_total",
			Help: "Total provider soft-block responses.",
		},
	)

	// RotationsTotal counts identity rotations triggered by soft blocks.
	RotationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "av_identity_rotations_total",
			Help: "Total VPN identity rotations.",
		},
	)

	// ActiveKeys is the number of keys currently in the active set.
	ActiveKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "av_keypool_active_keys",
			Help: "Keys currently in the active set.",
		},
	)

	// ExpiredKeys is the number of keys currently in the expired set.
	ExpiredKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "av_keypool_expired_keys",
			Help: "Keys currently in the expired set.",
		},
	)

	// InFlight is the number of reservations awaiting commit.
	InFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "av_keypool_in_flight",
			Help: "Key reservations awaiting commit.",
		},
	)

	// RowsIngested counts rows written per destination table.
	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "av_rows_ingested_total",
			Help: "Rows written per destination table.",
		},
		[]string{"table"},
	)

	// IngestConflicts counts rows skipped on primary-key conflict.
	IngestConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "av_ingest_conflicts_total",
			Help: "Rows skipped on primary-key conflict per table.",
		},
		[]string{"table"},
	)
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
