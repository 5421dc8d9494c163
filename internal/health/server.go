// Package health exposes the watch-mode health and metrics endpoints.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report is the watch-mode health snapshot.
type Report struct {
	SessionID   string    `json:"session_id"`
	RosterSize  int       `json:"roster_size"`
	LastFetchAt time.Time `json:"last_fetch_at"`
	LastError   string    `json:"last_error,omitempty"`
}

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	snapshot func() Report
	server   *http.Server
}

// NewServer creates a health server. snapshot is called per request.
func NewServer(port int, snapshot func() Report) *Server {
	mux := http.NewServeMux()
	s := &Server{
		snapshot: snapshot,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.snapshot()

	status := http.StatusOK
	if report.LastError != "" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
