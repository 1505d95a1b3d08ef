// Package app provides the rating engine behind the comparison presenter:
// pair selection, outcome recording, rankings, and state import/export.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clubmate/lora-training/internal/adapters/repository"
	"github.com/clubmate/lora-training/internal/codec"
	"github.com/clubmate/lora-training/internal/domain/model"
	"github.com/clubmate/lora-training/internal/domain/rating"
	"github.com/clubmate/lora-training/internal/domain/selection"
	"github.com/clubmate/lora-training/internal/domain/types"
	"github.com/clubmate/lora-training/pkg/logger"
	"github.com/clubmate/lora-training/pkg/metrics"
)

// Pair is the next comparison to present.
type Pair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Engine owns one ranking session: the rating store, the history ledger,
// the update algorithm, and the selection policy. It has no global state;
// construct one per session and thread it into the presenter.
//
// Every mutating operation applies the rating update and the history
// record as one unit under the engine mutex, so a concurrent presenter
// (e.g. the HTTP adapter) can never observe a half-applied comparison.
type Engine struct {
	mu     sync.Mutex
	store  repository.Store
	ledger *repository.Ledger

	updater *rating.Updater
	policy  *selection.Policy

	seq    uint64
	judged uint64
	skips  uint64

	sessionID string
	log       logger.Logger

	// Construction knobs retained so options can be applied before the
	// sub-components exist.
	kFactor        float64
	sampleSize     int
	weightExponent float64
	selectionSeed  int64
	seedSet        bool
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// New constructs an Engine for a fresh session.
func New(ctx context.Context, opts ...Option) *Engine {
	e := &Engine{
		sessionID:      uuid.New().String(),
		log:            logger.Nop(),
		kFactor:        rating.DefaultKFactor,
		sampleSize:     selection.DefaultSampleSize,
		weightExponent: selection.DefaultWeightExponent,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.store = repository.NewTreapStore(ctx)
	e.ledger = repository.NewLedger()
	e.updater = rating.New(rating.WithKFactor(e.kFactor))

	selOpts := []selection.Option{
		selection.WithSampleSize(e.sampleSize),
		selection.WithWeightExponent(e.weightExponent),
	}
	if e.seedSet {
		selOpts = append(selOpts, selection.WithSeed(e.selectionSeed))
	}
	e.policy = selection.New(selOpts...)

	e.log.Info(ctx, "engine created",
		logger.String("sessionID", e.sessionID),
		logger.Float64("kFactor", e.kFactor),
		logger.Int("sampleSize", e.sampleSize),
	)

	return e
}

// SessionID returns the identifier assigned to this session.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// AddImages registers identifiers with the rating store, creating records
// with the default rating for ones never seen. Returns how many were new.
func (e *Engine) AddImages(ctx context.Context, ids ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.store.Count(ctx)
	for _, id := range ids {
		if _, err := e.store.GetOrCreate(ctx, id); err != nil {
			return 0, fmt.Errorf("add image %q: %w", id, err)
		}
	}
	added := e.store.Count(ctx) - before

	metrics.UpdateTotalImages(e.store.Count(ctx))
	e.log.Debug(ctx, "images added",
		logger.Int("new", added),
		logger.Int("total", e.store.Count(ctx)),
	)
	return added, nil
}

// NextPair asks the selection policy for the next pair to present.
// Returns selection.ErrNoPairAvailable when fewer than two images exist.
func (e *Engine) NextPair(ctx context.Context) (Pair, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	pair, err := e.policy.NextPair(ctx, e.store.ListAll(ctx), e.ledger)
	metrics.RecordSelectionLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return Pair{}, err
	}

	if pair.Fallback {
		metrics.RecordSelectionFallback()
	}
	return Pair{First: pair.First, Second: pair.Second}, nil
}

// ReportOutcome records the presenter's judgment of a pair. The outcome is
// relative to argument order: model.AWins means first won. Skips leave
// ratings and counts untouched but still consume a sequence number and
// land in the history, deprioritizing the pair.
func (e *Engine) ReportOutcome(ctx context.Context, first, second string, outcome model.Outcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	comparison := model.Comparison{A: first, B: second, Outcome: outcome, Seq: e.seq + 1}
	if err := comparison.Validate(); err != nil {
		return err
	}

	a, err := e.store.Get(ctx, first)
	if err != nil {
		metrics.RecordErrorByComponent("engine", "unknown_image")
		return fmt.Errorf("report outcome for %q: %w", first, err)
	}
	b, err := e.store.Get(ctx, second)
	if err != nil {
		metrics.RecordErrorByComponent("engine", "unknown_image")
		return fmt.Errorf("report outcome for %q: %w", second, err)
	}

	if outcome == model.Skipped {
		e.seq++
		if err := e.ledger.Record(ctx, comparison); err != nil {
			return err
		}
		e.skips++
		metrics.RecordSkip()
		metrics.UpdateTotalComparisons(e.ledger.Len(ctx))
		e.log.Debug(ctx, "pair skipped",
			logger.String("first", first),
			logger.String("second", second),
			logger.Uint64("seq", comparison.Seq),
		)
		return nil
	}

	// Both new ratings derive from the pre-update pair, so the order the
	// participants were passed in cannot bias the result.
	newA, newB := e.updater.Apply(a.Rating, b.Rating, outcome)

	e.seq++
	if err := e.store.Update(ctx, first, newA); err != nil {
		return err
	}
	if err := e.store.Update(ctx, second, newB); err != nil {
		return err
	}
	if err := e.store.IncrementCount(ctx, first); err != nil {
		return err
	}
	if err := e.store.IncrementCount(ctx, second); err != nil {
		return err
	}
	if err := e.ledger.Record(ctx, comparison); err != nil {
		return err
	}
	e.judged++

	metrics.RecordComparison()
	metrics.RecordRatingUpdate()
	metrics.RecordRatingUpdate()
	metrics.UpdateTotalComparisons(e.ledger.Len(ctx))

	e.log.Debug(ctx, "outcome recorded",
		logger.String("first", first),
		logger.String("second", second),
		logger.String("winner", outcome.String()),
		logger.Float64("firstRating", newA),
		logger.Float64("secondRating", newB),
		logger.Uint64("seq", comparison.Seq),
	)
	return nil
}

// Rankings returns every image ordered by rating descending, ties broken
// by identifier ascending.
func (e *Engine) Rankings(ctx context.Context) []types.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.store.Rankings(ctx)
	out := make([]types.Entry, len(entries))
	for i, entry := range entries {
		out[i] = types.Entry{
			Rank:        entry.Rank,
			ID:          entry.ID,
			Rating:      entry.Rating,
			Comparisons: entry.Comparisons,
		}
	}
	return out
}

// RankOf returns the ranked row for one image.
func (e *Engine) RankOf(ctx context.Context, id string) (types.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.store.Rank(ctx, id)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		Rank:        entry.Rank,
		ID:          entry.ID,
		Rating:      entry.Rating,
		Comparisons: entry.Comparisons,
	}, nil
}

// History returns a copy of the session's comparison log.
func (e *Engine) History(ctx context.Context) []model.Comparison {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.History(ctx)
}

// Count returns the number of images in the rating store.
func (e *Engine) Count(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Count(ctx)
}

// ExportState serializes the full session state. The image list is sorted
// by identifier so equivalent states export byte-identically.
func (e *Engine) ExportState(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	images := e.store.ListAll(ctx)
	sort.Slice(images, func(i, j int) bool { return images[i].ID < images[j].ID })

	data, err := codec.Encode(images, e.ledger.History(ctx))
	if err != nil {
		return nil, err
	}
	metrics.RecordStateExport()
	e.log.Info(ctx, "state exported",
		logger.Int("images", len(images)),
		logger.Int("comparisons", e.ledger.Len(ctx)),
	)
	return data, nil
}

// ImportState replaces the whole session state with the document's. It is
// all-or-nothing: the replacement is fully built and validated before the
// swap, so a malformed document leaves the current state untouched.
func (e *Engine) ImportState(ctx context.Context, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	images, history, err := codec.Decode(data)
	if err != nil {
		metrics.RecordStateImportError()
		metrics.RecordErrorByComponent("engine", "malformed_state")
		return err
	}

	store := repository.NewTreapStore(ctx)
	ledger := repository.NewLedger()

	for _, img := range images {
		if err := store.Restore(ctx, img); err != nil {
			metrics.RecordStateImportError()
			return fmt.Errorf("%w: %w", codec.ErrMalformedState, err)
		}
	}

	var maxSeq, judged, skips uint64
	for _, c := range history {
		if err := ledger.Record(ctx, c); err != nil {
			metrics.RecordStateImportError()
			return fmt.Errorf("%w: %w", codec.ErrMalformedState, err)
		}
		if c.Seq > maxSeq {
			maxSeq = c.Seq
		}
		if c.Outcome == model.Skipped {
			skips++
		} else {
			judged++
		}
	}

	e.store = store
	e.ledger = ledger
	e.seq = maxSeq
	e.judged = judged
	e.skips = skips

	metrics.RecordStateImport()
	metrics.UpdateTotalImages(store.Count(ctx))
	metrics.UpdateTotalComparisons(ledger.Len(ctx))
	e.log.Info(ctx, "state imported",
		logger.Int("images", store.Count(ctx)),
		logger.Int("comparisons", ledger.Len(ctx)),
		logger.Uint64("lastSeq", maxSeq),
	)
	return nil
}

// GetStats returns session statistics for monitoring.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"session_id":  e.sessionID,
		"images":      e.store.Count(ctx),
		"comparisons": e.judged,
		"skips":       e.skips,
		"last_seq":    e.seq,
	}

	metrics.UpdateTotalImages(e.store.Count(ctx))
	metrics.UpdateTotalComparisons(e.ledger.Len(ctx))

	return stats
}

// IsNoPair reports whether err is the expected empty-collection signal.
func IsNoPair(err error) bool {
	return errors.Is(err, selection.ErrNoPairAvailable)
}
