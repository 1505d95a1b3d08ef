package app

import "github.com/clubmate/lora-training/pkg/logger"

// WithLogger sets the engine logger. The default discards all output.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithKFactor sets the maximum rating swing per comparison.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.kFactor = k
		}
	}
}

// WithSampleSize bounds the candidate pool examined per selection.
func WithSampleSize(size int) Option {
	return func(e *Engine) {
		if size >= 2 {
			e.sampleSize = size
		}
	}
}

// WithWeightExponent shapes the coverage weighting used by selection.
func WithWeightExponent(exp float64) Option {
	return func(e *Engine) {
		if exp >= 0 {
			e.weightExponent = exp
		}
	}
}

// WithSelectionSeed makes pair selection deterministic, mainly for tests
// and reproducible sessions.
func WithSelectionSeed(seed int64) Option {
	return func(e *Engine) {
		e.selectionSeed = seed
		e.seedSet = true
	}
}
