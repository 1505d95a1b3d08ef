// Package codec serializes the full engine state to and from the JSON
// exchange document. The document is the session's save file: every image's
// identifier, rating, and comparison count, plus the full comparison log.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/clubmate/lora-training/internal/domain/model"
)

// imageState mirrors one entry of the document's "images" array. Rating and
// comparison count are pointers so a missing field is distinguishable from
// a zero value.
type imageState struct {
	ID          string   `json:"id"`
	Rating      *float64 `json:"rating"`
	Comparisons *int     `json:"comparisons"`
}

// historyEntry mirrors one entry of the document's "history" array.
type historyEntry struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Winner *string `json:"winner"`
	Seq    *uint64 `json:"seq"`
}

// document is the persisted state shape. Unknown extra fields in incoming
// documents are ignored for forward compatibility.
type document struct {
	Images  []imageState   `json:"images"`
	History []historyEntry `json:"history"`
}

// Encode serializes engine state into the exchange document.
func Encode(images []model.Image, history []model.Comparison) ([]byte, error) {
	doc := document{
		Images:  make([]imageState, len(images)),
		History: make([]historyEntry, len(history)),
	}

	for i := range images {
		img := images[i]
		rating := img.Rating
		comparisons := img.Comparisons
		doc.Images[i] = imageState{ID: img.ID, Rating: &rating, Comparisons: &comparisons}
	}
	for i := range history {
		c := history[i]
		winner := c.Outcome.String()
		seq := c.Seq
		doc.History[i] = historyEntry{A: c.A, B: c.B, Winner: &winner, Seq: &seq}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses and validates an exchange document, returning the image
// records and comparison log it holds. Any structural problem - bad JSON,
// missing required fields, duplicate identifiers, history referencing an
// unknown image - yields ErrMalformedState.
func Decode(data []byte) ([]model.Image, []model.Comparison, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	images := make([]model.Image, 0, len(doc.Images))
	known := make(map[string]struct{}, len(doc.Images))
	for i, st := range doc.Images {
		if st.Rating == nil || st.Comparisons == nil {
			return nil, nil, fmt.Errorf("%w: image %d is missing required fields", ErrMalformedState, i)
		}
		img := model.Image{ID: st.ID, Rating: *st.Rating, Comparisons: *st.Comparisons}
		if err := img.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
		}
		if _, dup := known[img.ID]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate image id %q", ErrMalformedState, img.ID)
		}
		known[img.ID] = struct{}{}
		images = append(images, img)
	}

	history := make([]model.Comparison, 0, len(doc.History))
	for i, entry := range doc.History {
		if entry.Winner == nil || entry.Seq == nil {
			return nil, nil, fmt.Errorf("%w: history entry %d is missing required fields", ErrMalformedState, i)
		}
		outcome, err := model.ParseOutcome(*entry.Winner)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
		}
		c := model.Comparison{A: entry.A, B: entry.B, Outcome: outcome, Seq: *entry.Seq}
		if err := c.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
		}
		for _, id := range []string{c.A, c.B} {
			if _, ok := known[id]; !ok {
				return nil, nil, fmt.Errorf("%w: history references unknown image %q", ErrMalformedState, id)
			}
		}
		history = append(history, c)
	}

	return images, history, nil
}
