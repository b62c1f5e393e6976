package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	broadcastDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_deliveries_total",
			Help: "Per-recipient delivery attempts by result (sent/failed).",
		},
		[]string{"result"},
	)

	broadcastRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_runs_total",
			Help: "Broadcast runs by payload kind.",
		},
		[]string{"kind"},
	)

	broadcastRunSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_run_seconds",
			Help:    "Wall-clock duration of one broadcast run.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)
)

func init() {
	register(broadcastDeliveriesTotal, broadcastRunsTotal, broadcastRunSeconds)
}

func IncDelivery(result string) {
	broadcastDeliveriesTotal.WithLabelValues(norm(result)).Inc()
}

func ObserveRun(kind string, seconds float64) {
	broadcastRunsTotal.WithLabelValues(norm(kind)).Inc()
	broadcastRunSeconds.Observe(seconds)
}
