package server

import (
	"github.com/MeKo-Tech/tempo/internal/probe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tempo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Probe metrics
	probeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempo_probe_runs_total",
			Help: "Total number of probe runs",
		},
		[]string{"probe", "status"}, // status: ok, error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tempo_probe_duration_seconds",
			Help:    "Probe run duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"probe"},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tempo_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempo_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)

// ObserveMeasurement records probe metrics for one measurement. It is
// registered as a runner observer by the serve command.
func ObserveMeasurement(m probe.Measurement) {
	status := "ok"
	if m.Error != "" {
		status = "error"
	}
	probeRunsTotal.WithLabelValues(m.Probe, status).Inc()
	probeDuration.WithLabelValues(m.Probe).Observe(m.Duration.Seconds())
}
