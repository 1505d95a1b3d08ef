package model

import (
	"errors"
	"fmt"
)

// Outcome is the result of presenting a pair (A, B).
type Outcome int

const (
	// AWins means the first image of the pair won.
	AWins Outcome = iota
	// BWins means the second image of the pair won.
	BWins
	// Skipped means the pair was shown but not judged. Ratings and counts
	// stay untouched; the history still records the showing.
	Skipped
)

// String returns the wire form used by the persistence document.
func (o Outcome) String() string {
	switch o {
	case AWins:
		return "a"
	case BWins:
		return "b"
	case Skipped:
		return "skip"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ParseOutcome converts the wire form back into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "a":
		return AWins, nil
	case "b":
		return BWins, nil
	case "skip":
		return Skipped, nil
	default:
		return 0, fmt.Errorf("unknown outcome %q", s)
	}
}

// Comparison is one judged (or skipped) presentation of an unordered pair.
// A and B keep the order the pair was presented in; pair identity for
// history lookups is order-independent.
type Comparison struct {
	A       string  // first presented image id
	B       string  // second presented image id
	Outcome Outcome // a wins, b wins, or skip
	Seq     uint64  // monotonically increasing per session
}

// Validate rejects malformed comparison records.
func (c Comparison) Validate() error {
	if c.A == "" || c.B == "" {
		return errors.New("comparison ids must not be empty")
	}
	if c.A == c.B {
		return fmt.Errorf("comparison pairs an image with itself: %q", c.A)
	}
	switch c.Outcome {
	case AWins, BWins, Skipped:
	default:
		return fmt.Errorf("comparison has invalid outcome %d", int(c.Outcome))
	}
	return nil
}
