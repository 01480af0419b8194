package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelayRequestsTotal counts relay submissions by path and outcome
	RelayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acc_relay_requests_total",
			Help: "Total number of relay submissions",
		},
		[]string{"path", "status"},
	)

	// RelayRequestDuration tracks relay round-trip time by path
	RelayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "acc_relay_request_duration_seconds",
			Help:    "Relay request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// RelayProbesTotal counts liveness probes by result
	RelayProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acc_relay_probes_total",
			Help: "Total number of relay liveness probes",
		},
		[]string{"result"},
	)

	// TransactionsSubmitted counts direct on-chain transactions by operation
	TransactionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acc_transactions_submitted_total",
			Help: "Total number of on-chain transactions submitted",
		},
		[]string{"operation"},
	)

	// GasUsed tracks gas used for on-chain transactions
	GasUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "acc_gas_used",
			Help:    "Gas used for on-chain transactions",
			Buckets: []float64{21000, 50000, 100000, 200000, 300000, 500000},
		},
		[]string{"operation"},
	)
)
