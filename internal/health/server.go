// Package health serves liveness, readiness and Prometheus metrics for the
// long-running value-lines process.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
)

const (
	statusOK       = "ok"
	statusNotReady = "not_ready"
	pingTimeout    = 3 * time.Second
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// CircuitReporter reports whether the upstream stats provider is being shed
type CircuitReporter interface {
	IsOpen() bool
}

// HealthResponse is the body of /health and /live
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse is the body of /ready
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Provider    CircuitReporter
	// MetricsPath mounts the Prometheus handler; empty disables it
	MetricsPath string
}

// Server exposes health endpoints on its own port
type Server struct {
	cfg    Config
	log    *logrus.Entry
	ready  atomic.Bool
	server *http.Server
}

// NewServer creates a health server. The port falls back to
// VALUE_LINES_HEALTH_PORT, then 8080.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = os.Getenv("VALUE_LINES_HEALTH_PORT")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Server{
		cfg: cfg,
		log: cfg.Logger.WithFields(logrus.Fields{"component": "health", "service": cfg.ServiceName}),
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	return mux
}

// Start listens in the background until ctx is cancelled or Shutdown is called
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.log.WithFields(logrus.Fields{
			"port":         s.cfg.Port,
			"metrics_path": s.cfg.MetricsPath,
		}).Info("Health server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.log.WithError(err).Warn("Health server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the health server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.log.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    statusOK,
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK, Service: s.cfg.ServiceName})
}

// handleReady fails while the server is marked not ready or the database
// is unreachable. An open provider circuit is reported but tolerated.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"service": statusOK}
	healthy := true

	if !s.IsReady() {
		checks["service"] = statusNotReady
		healthy = false
	}

	if s.cfg.Provider != nil {
		checks["provider"] = statusOK
		if s.cfg.Provider.IsOpen() {
			checks["provider"] = "circuit_open"
		}
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		checks["database"] = statusOK
		if err := s.cfg.DB.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			healthy = false
		}
	}

	resp := ReadyResponse{
		Status:   statusOK,
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = statusNotReady
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
