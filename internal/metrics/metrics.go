package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectedClients tracks currently open WebSocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stream_connected_clients",
		Help: "Number of currently connected WebSocket clients.",
	})

	// FetchesTotal counts upstream fetch attempts.
	FetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_fetches_total",
		Help: "Total upstream snapshot fetch attempts.",
	})

	// FetchErrorsTotal counts failed upstream fetches.
	FetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_fetch_errors_total",
		Help: "Total upstream snapshot fetches that failed.",
	})

	// PushesTotal counts snapshots queued to subscriber connections.
	PushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_pushes_total",
		Help: "Total snapshot pushes queued to subscribers.",
	})

	// PushDropsTotal counts pushes dropped because a client's outbound
	// queue was full or the connection was already closed.
	PushDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_push_drops_total",
		Help: "Total pushes dropped to slow or closed clients.",
	})

	// CycleDuration observes broadcast cycle wall time.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stream_cycle_duration_seconds",
		Help:    "Duration of broadcast fetch-and-push cycles.",
		Buckets: prometheus.DefBuckets,
	})
)
