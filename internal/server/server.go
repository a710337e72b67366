// Package server exposes the HTTP deploy endpoint and health probes.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// Dispatcher launches a background deploy run for an accepted request.
type Dispatcher interface {
	Dispatch(req *domain.DeployRequest) error
}

// Server wraps the HTTP listener around the deploy handler.
type Server struct {
	cfg    *config.ServerConfig
	httpd  *http.Server
	logger zerolog.Logger
}

// New creates a Server routing the deploy endpoint and health probes.
func New(cfg *config.ServerConfig, handler *DeployHandler, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/deploy", handler.HandleDeploy)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /", handleRoot)

	return &Server{
		cfg: cfg,
		httpd: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      requestLogging(logger)(mux),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// ListenAndServe starts serving until the listener fails or Shutdown is
// called. A closed-server error is not reported as a failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("http server listening")

	if err := s.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pserrors.Wrap(err, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests within the configured grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx := ctx
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	s.logger.Info().Msg("http server shutting down")
	return s.httpd.Shutdown(shutdownCtx)
}

// handleHealth reports liveness for probes.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRoot gives humans hitting the base URL a pointer to the API.
func handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service":  "pagesmith",
		"endpoint": "POST /api/deploy",
	})
}
