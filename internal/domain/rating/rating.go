// Package rating implements the Elo update applied after each comparison.
package rating

import (
	"math"

	"github.com/clubmate/lora-training/internal/domain/model"
)

// Default update configuration constants.
const (
	// DefaultKFactor is the maximum rating swing per comparison.
	DefaultKFactor = 32.0

	// ratingScale is the rating difference at which the expected score
	// reaches 10:1 odds.
	ratingScale = 400.0
)

// Updater computes new ratings for both participants of a comparison.
// Both sides are derived from the pre-update ratings, so the result does
// not depend on which participant is passed first.
type Updater struct {
	k float64
}

// New creates an Updater with configuration options.
func New(opts ...Option) *Updater {
	u := &Updater{k: DefaultKFactor}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// KFactor returns the configured K-factor.
func (u *Updater) KFactor() float64 {
	return u.k
}

// Expected returns the expected score of the first participant against the
// second: 1 / (1 + 10^((rb-ra)/400)). Expected(ra, rb) + Expected(rb, ra)
// always sums to 1.
func (u *Updater) Expected(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/ratingScale))
}

// Apply returns the post-comparison ratings for a pair (A, B) that had
// ratings ra and rb. A Skipped outcome returns both ratings unchanged.
//
// The update is zero-sum: A's delta is the exact negation of B's. Ratings
// carry no floor; a long losing streak can push one below zero and that is
// accepted behavior.
func (u *Updater) Apply(ra, rb float64, outcome model.Outcome) (newA, newB float64) {
	if outcome == model.Skipped {
		return ra, rb
	}

	scoreA := 0.0
	if outcome == model.AWins {
		scoreA = 1.0
	}

	delta := u.k * (scoreA - u.Expected(ra, rb))
	return ra + delta, rb - delta
}
