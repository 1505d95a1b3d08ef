// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/clubmate/lora-training/internal/codec"
)

// maxStateBody bounds PUT /state bodies. State documents are small; this
// only guards against runaway uploads.
const maxStateBody = 64 << 20

// StateDependencies defines the interface for state import/export.
type StateDependencies interface {
	ExportState(ctx context.Context) ([]byte, error)
	ImportState(ctx context.Context, data []byte) error
}

// StateHandler handles state export and import.
type StateHandler struct {
	deps StateDependencies
}

// NewStateHandler creates a new state handler.
func NewStateHandler(deps StateDependencies) *StateHandler {
	return &StateHandler{deps: deps}
}

// HandleState handles GET /state (export) and PUT /state (import).
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleExport(w, r)
	case http.MethodPut:
		h.handleImport(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *StateHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.deps.ExportState(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *StateHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxStateBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.ImportState(r.Context(), data); err != nil {
		if errors.Is(err, codec.ErrMalformedState) {
			writeError(w, http.StatusBadRequest, "malformed_state", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "imported"})
}
