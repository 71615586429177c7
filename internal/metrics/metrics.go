// Package metrics defines Prometheus metrics for the canvas server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algocanvas_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algocanvas_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algocanvas_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "algocanvas_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "algocanvas_sessions_active",
			Help: "Canvas sessions currently open",
		},
	)

	CanvasActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algocanvas_canvas_actions_total",
			Help: "Canvas interaction outcomes by action kind",
		},
		[]string{"action"},
	)

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algocanvas_runs_total",
			Help: "Algorithm runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "algocanvas_run_duration_seconds",
			Help:    "Algorithm run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CommandsExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "algocanvas_commands_extracted",
			Help:    "Commands extracted per successful run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	PlaybackSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algocanvas_playback_steps_total",
			Help: "Playback command applications by kind and result",
		},
		[]string{"kind", "applied"},
	)

	LibraryOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algocanvas_library_operations_total",
			Help: "Saved-graph library operations by operation and backend",
		},
		[]string{"op", "backend"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		WSConnections, ActiveSessions, CanvasActions,
		RunsTotal, RunDuration, CommandsExtracted,
		PlaybackSteps, LibraryOps,
	)
}
