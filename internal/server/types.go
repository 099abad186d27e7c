// Package server exposes probe measurements over HTTP: current
// results, Prometheus metrics, and a live WebSocket feed.
package server

import (
	"net/http"

	"github.com/MeKo-Tech/tempo/internal/config"
	"github.com/MeKo-Tech/tempo/internal/probe"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// measurementSource defines what the server needs from a probe runner.
type measurementSource interface {
	Probes() []config.ProbeConfig
	History() map[string][]probe.Measurement
	Subscribe() (<-chan probe.Measurement, func())
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	runner     measurementSource
	corsOrigin string
}

// Config holds server configuration.
type Config struct {
	CORSOrigin string
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type ProbeInfo struct {
	Name            string  `json:"name"`
	Command         string  `json:"command"`
	IntervalSeconds float64 `json:"interval_seconds"`
}

type ProbesResponse struct {
	Probes []ProbeInfo `json:"probes"`
	Count  int         `json:"count"`
}

type ResultsResponse struct {
	Results map[string][]probe.Measurement `json:"results"`
}

// NewServer creates a new measurement server backed by the runner.
func NewServer(cfg Config, runner measurementSource) *Server {
	return &Server{
		runner:     runner,
		corsOrigin: cfg.CORSOrigin,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/probes", s.corsMiddleware(s.probesHandler))
	mux.HandleFunc("/results", s.corsMiddleware(s.resultsHandler))
	mux.HandleFunc("/ws", s.measurementsWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
