// Package selection picks the next pair of images to present, trading off
// coverage (images with few comparisons first) against novelty (avoid pairs
// seen recently or often).
package selection

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/clubmate/lora-training/internal/domain/model"
)

// Default selection configuration constants.
const (
	// DefaultSampleSize bounds the candidate pool examined per selection so
	// cost stays flat on large collections.
	DefaultSampleSize = 64

	// DefaultWeightExponent shapes the inverse-comparison-count weighting.
	DefaultWeightExponent = 1.0

	// sampleAttemptFactor bounds the random draws used to fill the sample.
	sampleAttemptFactor = 16
)

// History exposes the pair-frequency queries the policy needs. The unordered
// pair (a, b) and (b, a) must answer identically.
type History interface {
	// TimesCompared returns how often the pair has been shown, 0 if never.
	TimesCompared(ctx context.Context, a, b string) int
	// LastSeen returns the sequence number of the pair's most recent
	// showing, false if the pair was never shown.
	LastSeen(ctx context.Context, a, b string) (uint64, bool)
}

// Pair is a selected unordered pair of distinct image identifiers.
type Pair struct {
	First  string
	Second string
	// Fallback reports that every candidate had already met First and the
	// least-recently-seen pair was chosen instead of a fresh one.
	Fallback bool
}

// Policy selects pairs. It keeps no state beyond its random source; the
// same seed against the same store and history yields the same pairs.
type Policy struct {
	sampleSize int
	weightExp  float64
	rng        *rand.Rand
}

// New creates a Policy with configuration options.
func New(opts ...Option) *Policy {
	p := &Policy{
		sampleSize: DefaultSampleSize,
		weightExp:  DefaultWeightExponent,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection fairness, not cryptography
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NextPair picks the next pair to present from pool. It returns
// ErrNoPairAvailable only when pool holds fewer than two images; otherwise
// it always produces a pair.
func (p *Policy) NextPair(ctx context.Context, pool []model.Image, hist History) (Pair, error) {
	if len(pool) < 2 {
		return Pair{}, ErrNoPairAvailable
	}

	cands := p.sample(pool)

	firstIdx := p.weightedPick(cands, -1)
	first := cands[firstIdx]

	// Prefer the candidate that has met first the fewest times.
	minTimes := math.MaxInt
	fresh := make([]int, 0, len(cands))
	for i := range cands {
		if i == firstIdx {
			continue
		}
		times := hist.TimesCompared(ctx, first.ID, cands[i].ID)
		switch {
		case times < minTimes:
			minTimes = times
			fresh = fresh[:0]
			fresh = append(fresh, i)
		case times == minTimes:
			fresh = append(fresh, i)
		}
	}

	if minTimes == 0 {
		subset := make([]model.Image, len(fresh))
		for i, idx := range fresh {
			subset[i] = cands[idx]
		}
		second := subset[p.weightedPick(subset, -1)]
		return Pair{First: first.ID, Second: second.ID}, nil
	}

	// Every candidate has met first already; revisit the stalest pair
	// rather than refusing to produce one.
	second := cands[p.leastRecentlySeen(ctx, first.ID, firstIdx, cands, hist)]
	return Pair{First: first.ID, Second: second.ID, Fallback: true}, nil
}

// sample returns the candidate pool: the whole collection when small, or a
// bounded random subsample of distinct images when large.
func (p *Policy) sample(pool []model.Image) []model.Image {
	if len(pool) <= p.sampleSize {
		return pool
	}

	picked := make([]model.Image, 0, p.sampleSize)
	seen := make(map[int]struct{}, p.sampleSize)
	for attempts := 0; len(picked) < p.sampleSize && attempts < p.sampleSize*sampleAttemptFactor; attempts++ {
		idx := p.rng.Intn(len(pool))
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		picked = append(picked, pool[idx])
	}

	// The attempt bound only matters when sampleSize approaches the pool
	// size; top up sequentially so at least two candidates always exist.
	for idx := 0; len(picked) < 2 && idx < len(pool); idx++ {
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		picked = append(picked, pool[idx])
	}

	return picked
}

// weightedPick draws an index from cands with probability proportional to
// 1/(1+comparisons)^exp, skipping the excluded index.
func (p *Policy) weightedPick(cands []model.Image, exclude int) int {
	total := 0.0
	weights := make([]float64, len(cands))
	for i := range cands {
		if i == exclude {
			continue
		}
		w := 1.0 / math.Pow(1.0+float64(cands[i].Comparisons), p.weightExp)
		weights[i] = w
		total += w
	}

	r := p.rng.Float64() * total
	for i := range cands {
		if i == exclude {
			continue
		}
		r -= weights[i]
		if r <= 0 {
			return i
		}
	}

	// Float round-off: land on the last eligible candidate.
	for i := len(cands) - 1; i >= 0; i-- {
		if i != exclude {
			return i
		}
	}
	return 0
}

// leastRecentlySeen returns the index of the candidate whose pair with
// first has the smallest last-seen sequence number.
func (p *Policy) leastRecentlySeen(ctx context.Context, firstID string, firstIdx int, cands []model.Image, hist History) int {
	best := -1
	var bestSeq uint64
	for i := range cands {
		if i == firstIdx {
			continue
		}
		seq, ok := hist.LastSeen(ctx, firstID, cands[i].ID)
		if !ok {
			// Unreached on the fallback path, but never shown beats any
			// sequence number.
			return i
		}
		if best == -1 || seq < bestSeq {
			best = i
			bestSeq = seq
		}
	}
	return best
}
