// This file implements the deploy endpoint handler.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mrz1836/pagesmith/internal/config"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// maxRequestBodyBytes bounds the deploy request body. Briefs and inline
// attachments can be sizable, so the cap is generous.
const maxRequestBodyBytes = 10 << 20

// DeployHandler validates deploy requests and hands accepted ones to the
// background dispatcher.
type DeployHandler struct {
	secret     string
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// NewDeployHandler creates the handler. The shared secret is resolved
// from the configured environment variable once at construction.
func NewDeployHandler(cfg *config.ServerConfig, dispatcher Dispatcher, logger zerolog.Logger) *DeployHandler {
	return &DeployHandler{
		secret:     cfg.Secret(),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleDeploy accepts a deploy request for background processing.
// The response is returned before any synthesis or publishing happens;
// completion is signaled through the evaluation callback.
func (h *DeployHandler) HandleDeploy(w http.ResponseWriter, r *http.Request) {
	var req domain.DeployRequest

	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("rejecting malformed deploy request")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.secretMatches(req.Secret) {
		h.logger.Warn().Str("task", req.Task).Msg("rejecting deploy request with bad secret")
		writeError(w, http.StatusForbidden, "invalid secret")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Debug().Err(err).Str("task", req.Task).Msg("rejecting invalid deploy request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dispatcher.Dispatch(&req); err != nil {
		if errors.Is(err, pserrors.ErrDispatcherBusy) {
			writeError(w, http.StatusServiceUnavailable, "service at capacity, retry later")
			return
		}
		h.logger.Error().Err(err).Str("task", req.Task).Msg("failed to dispatch deploy request")
		writeError(w, http.StatusInternalServerError, "failed to start deploy")
		return
	}

	h.logger.Info().
		Str("task", req.Task).
		Int("round", req.Round).
		Msg("deploy request accepted")

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "accepted",
		"task":   req.Task,
		"round":  req.Round,
	})
}

// secretMatches compares secrets in constant time.
// An unconfigured secret rejects everything rather than accepting
// everything.
func (h *DeployHandler) secretMatches(candidate string) bool {
	if h.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.secret), []byte(candidate)) == 1
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
