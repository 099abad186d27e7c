package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/MeKo-Tech/tempo/internal/probe"
	"github.com/MeKo-Tech/tempo/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// probesHandler returns the configured probes.
func (s *Server) probesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	probes := s.runner.Probes()
	infos := make([]ProbeInfo, len(probes))
	for i, p := range probes {
		infos[i] = ProbeInfo{
			Name:            p.Name,
			Command:         p.Command,
			IntervalSeconds: p.IntervalSeconds,
		}
	}

	response := ProbesResponse{
		Probes: infos,
		Count:  len(infos),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding probes response: %v\n", err)
	}
}

// resultsHandler returns the retained measurements per probe.
func (s *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := ResultsResponse{Results: s.runner.History()}

	// Allow filtering by probe name
	if name := r.URL.Query().Get("probe"); name != "" {
		if h, ok := response.Results[name]; ok {
			response.Results = map[string][]probe.Measurement{name: h}
		} else {
			http.Error(w, fmt.Sprintf("unknown probe: %s", name), http.StatusNotFound)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding results response: %v\n", err)
	}
}
