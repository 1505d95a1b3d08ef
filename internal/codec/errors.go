package codec

import "errors"

// Sentinel kinds for codec errors.
var (
	// ErrMalformedState marks a corrupt or incompatible import document.
	// Callers leave engine state untouched when they see it.
	ErrMalformedState = errors.New("malformed state document")
)
