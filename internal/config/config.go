// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ImagesDir is scanned for image files at startup. Empty means the
	// session starts without images (they arrive via state import).
	ImagesDir string `koanf:"images_dir"`

	// StatePath is where engine state is loaded from at startup (if the
	// file exists) and saved to on shutdown. Empty disables persistence.
	StatePath string `koanf:"state_path"`

	// SampleSize bounds the candidate pool for pair selection on large
	// collections.
	SampleSize int `koanf:"sample_size"`

	// WeightExponent shapes the inverse-comparison-count weighting used by
	// the pair selector.
	WeightExponent float64 `koanf:"weight_exponent"`

	// KFactor is the maximum rating swing per comparison.
	KFactor float64 `koanf:"k_factor"`

	// SelectionSeed seeds the pair selector; 0 means a time-based seed.
	SelectionSeed int64 `koanf:"selection_seed"`

	// MaxRankingsLimit caps GET /rankings?limit.
	MaxRankingsLimit int `koanf:"max_rankings_limit"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		ImagesDir:        "",
		StatePath:        "",
		SampleSize:       64,
		WeightExponent:   1.0,
		KFactor:          32,
		SelectionSeed:    0,
		MaxRankingsLimit: 1000,
	}
	return c
}
