// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
)

// InitialRating is assigned to every image the first time its identifier
// is seen by the engine.
const InitialRating = 1500.0

// Image is the rating state for a single image. The identifier is opaque to
// the engine; the presenter typically uses a file path.
type Image struct {
	ID          string  // unique identifier
	Rating      float64 // current rating, InitialRating on first appearance
	Comparisons int     // times this image was part of a non-skipped comparison
}

// NewImage creates an image record with the default rating.
func NewImage(id string) Image {
	return Image{ID: id, Rating: InitialRating}
}

// Validate rejects records that could not have been produced by the engine.
func (i Image) Validate() error {
	if i.ID == "" {
		return errors.New("image id must not be empty")
	}
	if i.Comparisons < 0 {
		return fmt.Errorf("image %q has negative comparison count %d", i.ID, i.Comparisons)
	}
	return nil
}
