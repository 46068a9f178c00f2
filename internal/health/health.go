// Package health provides the HTTP liveness and readiness endpoints.
//
// /healthz answers once the daemon has started its transports. /readyz
// additionally requires at least one speech backend able to speak, and
// reports each backend so a supervisor can see which voice is missing.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nadzzz/talkboard/internal/tts"
)

// Backends reports which speech backends can currently speak.
type Backends interface {
	BackendsReady() map[tts.Kind]bool
}

// Report is the body of both endpoints.
type Report struct {
	Status   string             `json:"status"`
	Backends map[tts.Kind]bool `json:"backends,omitempty"`
}

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port     int
	backends Backends
	ready    atomic.Bool
	server   *http.Server
}

// New creates a health server. backends may be nil, in which case
// readiness only follows SetReady.
func New(port int, backends Backends) *Server {
	return &Server{port: port, backends: backends}
}

// SetReady marks the daemon as started.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			write(w, http.StatusServiceUnavailable, Report{Status: "not_ready"})
			return
		}
		write(w, http.StatusOK, Report{Status: "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		rep := Report{Status: "ok"}
		speakable := true
		if s.backends != nil {
			rep.Backends = s.backends.BackendsReady()
			speakable = false
			for _, ok := range rep.Backends {
				speakable = speakable || ok
			}
		}
		if !s.ready.Load() || !speakable {
			rep.Status = "not_ready"
			write(w, http.StatusServiceUnavailable, rep)
			return
		}
		write(w, http.StatusOK, rep)
	})

	return mux
}

func write(w http.ResponseWriter, status int, rep Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rep)
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
