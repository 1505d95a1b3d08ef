// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/clubmate/lora-training/internal/app"
)

// PairDependencies defines the interface for pair selection.
type PairDependencies interface {
	NextPair(ctx context.Context) (Pair, error)
}

// PairHandler handles next-pair requests.
type PairHandler struct {
	deps PairDependencies
}

// NewPairHandler creates a new pair handler.
func NewPairHandler(deps PairDependencies) *PairHandler {
	return &PairHandler{deps: deps}
}

// HandleGetPair handles GET /pair requests.
func (h *PairHandler) HandleGetPair(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pair, err := h.deps.NextPair(r.Context())
	if err != nil {
		if app.IsNoPair(err) {
			writeError(w, http.StatusNotFound, "no_pair_available", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
