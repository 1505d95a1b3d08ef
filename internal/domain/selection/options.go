package selection

import "math/rand"

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithSampleSize bounds the candidate pool examined per selection.
func WithSampleSize(size int) Option {
	return func(p *Policy) {
		if size >= 2 {
			p.sampleSize = size
		}
	}
}

// WithWeightExponent sets the exponent applied to the inverse comparison
// count when weighting candidates.
func WithWeightExponent(exp float64) Option {
	return func(p *Policy) {
		if exp >= 0 {
			p.weightExp = exp
		}
	}
}

// WithSeed makes the policy deterministic for a given engine state.
func WithSeed(seed int64) Option {
	return func(p *Policy) {
		p.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible selection
	}
}
