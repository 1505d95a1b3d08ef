package selection

import "errors"

// Sentinel kinds for selection errors.
var (
	// ErrNoPairAvailable means fewer than two images exist. Expected and
	// user-visible, not a crash.
	ErrNoPairAvailable = errors.New("no pair available")
)
