// Package types contains common types used across the application
package types

// Entry represents a ranked image as exposed to presenters.
type Entry struct {
	Rank        int     `json:"rank"`
	ID          string  `json:"id"`
	Rating      float64 `json:"rating"`
	Comparisons int     `json:"comparisons"`
}
