// Package repository holds the engine's ground-truth state: the rating
// store and the history ledger.
package repository

import (
	"context"

	"github.com/clubmate/lora-training/internal/domain/model"
)

// Entry represents a ranked row.
type Entry struct {
	Rank        int
	ID          string
	Rating      float64
	Comparisons int
}

// Store provides read/write access to per-image rating state.
type Store interface {
	// GetOrCreate returns the existing record for id, creating one with the
	// default rating and a zero comparison count if absent.
	GetOrCreate(ctx context.Context, id string) (model.Image, error)

	// Get returns the record for id.
	// Returns ErrUnknownImage if the identifier was never created.
	Get(ctx context.Context, id string) (model.Image, error)

	// Update sets a new rating for id.
	// Returns ErrUnknownImage if the identifier was never created.
	Update(ctx context.Context, id string, rating float64) error

	// IncrementCount increments the comparison count for id by one.
	// Returns ErrUnknownImage if the identifier was never created.
	IncrementCount(ctx context.Context, id string) error

	// Restore inserts a fully-populated record, used when rebuilding a
	// store from an imported state document. Fails on duplicates.
	Restore(ctx context.Context, img model.Image) error

	// ListAll returns every record in unspecified order.
	ListAll(ctx context.Context) []model.Image

	// Rankings returns all records ordered by rating desc, ties broken by
	// identifier asc, with ranks assigned 1..n.
	Rankings(ctx context.Context) []Entry

	// Rank returns the ranked row for a single image.
	// Returns ErrUnknownImage if the identifier was never created.
	Rank(ctx context.Context, id string) (Entry, error)

	// Count returns the number of images tracked.
	Count(ctx context.Context) int
}
