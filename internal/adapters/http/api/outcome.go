// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clubmate/lora-training/internal/adapters/repository"
	"github.com/clubmate/lora-training/internal/domain/model"
)

// OutcomeDependencies defines the interface for outcome recording.
type OutcomeDependencies interface {
	ReportOutcome(ctx context.Context, first, second string, outcome Outcome) error
}

// OutcomeHandler handles outcome submissions.
type OutcomeHandler struct {
	deps OutcomeDependencies
}

// NewOutcomeHandler creates a new outcome handler.
func NewOutcomeHandler(deps OutcomeDependencies) *OutcomeHandler {
	return &OutcomeHandler{deps: deps}
}

// outcomeRequest mirrors the request body for POST /outcome. The outcome is
// relative to the pair as presented: first_wins, second_wins, or skip.
type outcomeRequest struct {
	First   string `json:"first"`
	Second  string `json:"second"`
	Outcome string `json:"outcome"`
}

func (o outcomeRequest) validate() error {
	switch {
	case strings.TrimSpace(o.First) == "":
		return errors.New("missing first")
	case strings.TrimSpace(o.Second) == "":
		return errors.New("missing second")
	case strings.TrimSpace(o.Outcome) == "":
		return errors.New("missing outcome")
	}
	return nil
}

// parseOutcome maps the wire outcome onto the model's.
func parseOutcome(s string) (model.Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first_wins", "first":
		return model.AWins, nil
	case "second_wins", "second":
		return model.BWins, nil
	case "skip", "skipped":
		return model.Skipped, nil
	default:
		return 0, errors.New("outcome must be first_wins, second_wins, or skip")
	}
}

// HandlePostOutcome handles POST /outcome requests.
func (h *OutcomeHandler) HandlePostOutcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	outcome, err := parseOutcome(req.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.deps.ReportOutcome(r.Context(), req.First, req.Second, outcome); err != nil {
		if errors.Is(err, repository.ErrUnknownImage) {
			writeError(w, http.StatusNotFound, "unknown_image", err)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "recorded"})
}
