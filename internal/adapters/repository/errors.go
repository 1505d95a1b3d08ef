package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnknownImage = errors.New("unknown image")
)
