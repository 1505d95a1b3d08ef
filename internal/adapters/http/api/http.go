// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clubmate/lora-training/internal/app"
	"github.com/clubmate/lora-training/internal/domain/model"
	"github.com/clubmate/lora-training/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	// NextPair returns the next pair of images to present.
	NextPair(ctx context.Context) (Pair, error)

	// ReportOutcome records a judged or skipped comparison.
	ReportOutcome(ctx context.Context, first, second string, outcome Outcome) error

	// Read operations expose ranking data.
	Rankings(ctx context.Context) []Entry
	RankOf(ctx context.Context, id string) (Entry, error)

	// State import/export round-trips the whole session.
	ExportState(ctx context.Context) ([]byte, error)
	ImportState(ctx context.Context, data []byte) error
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Pair mirrors the engine's selected pair.
type Pair = app.Pair

// Outcome mirrors the engine's comparison outcome.
type Outcome = model.Outcome

// Server wires HTTP routes for the ranking API.
type Server struct {
	pairHandler     *PairHandler
	outcomeHandler  *OutcomeHandler
	rankingsHandler *RankingsHandler
	rankHandler     *RankHandler
	stateHandler    *StateHandler
	statsHandler    *StatsHandler
	healthHandler   *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingsLimit int) *Server {
	return &Server{
		pairHandler:     NewPairHandler(deps),
		outcomeHandler:  NewOutcomeHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxRankingsLimit),
		rankHandler:     NewRankHandler(deps),
		stateHandler:    NewStateHandler(deps),
		statsHandler:    NewStatsHandler(statsProvider),
		healthHandler:   NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/pair", MetricsMiddleware(s.pairHandler.HandleGetPair, "pair"))
	mux.HandleFunc("/outcome", MetricsMiddleware(s.outcomeHandler.HandlePostOutcome, "outcome"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/rank", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/state", MetricsMiddleware(s.stateHandler.HandleState, "state"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
