package rating

// Option applies a configuration option to the Updater.
type Option func(*Updater)

// WithKFactor sets the maximum rating swing per comparison.
func WithKFactor(k float64) Option {
	return func(u *Updater) {
		if k > 0 {
			u.k = k
		}
	}
}
