package repository

import "math/rand"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithPrioritySeed seeds the treap priority source, making the tree shape
// reproducible in tests.
func WithPrioritySeed(seed int64) Option {
	return func(s *TreapStore) {
		s.prng = rand.New(rand.NewSource(seed)) //nolint:gosec // treap balance, not cryptography
	}
}
