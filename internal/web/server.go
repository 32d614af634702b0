// Package web provides the HTTP status server for the OLED daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/VictoriaMetrics/metrics"

	"github.com/hindley/argon-addons/internal/status"
)

// Server serves the status page, JSON status and Prometheus metrics.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	auth       *BasicAuth
}

// New creates a Server that reads state from the given tracker. A nil
// auth leaves the endpoints open.
func New(addr string, tracker *status.Tracker, auth *BasicAuth) *Server {
	s := &Server{tracker: tracker, auth: auth}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.protect(s.handleIndex))
	mux.HandleFunc("/index.html", s.protect(s.handleIndex))
	mux.HandleFunc("/index.json", s.protect(s.handleJSON))
	mux.HandleFunc("/metrics", s.protect(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	metrics.WritePrometheus(w, true)
}
