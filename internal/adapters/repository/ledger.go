package repository

import (
	"context"
	"sync"

	"github.com/clubmate/lora-training/internal/domain/model"
)

// pairKey identifies an unordered pair. Normalization makes {A,B} and
// {B,A} the same entry, which is what keeps the selection policy from
// treating a swapped pair as new.
type pairKey struct {
	lo, hi string
}

func keyOf(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// pairStats tracks how often and how recently a pair was shown.
type pairStats struct {
	count    int
	lastSeen uint64
}

// Ledger records which unordered pairs have been compared, how often, and
// when, plus the full comparison log for audit and export.
type Ledger struct {
	mu    sync.RWMutex
	pairs map[pairKey]pairStats
	log   []model.Comparison
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{pairs: make(map[pairKey]pairStats)}
}

// Record appends a comparison and updates the pair's count and last-seen
// sequence number. Skipped comparisons are recorded like any other showing.
func (l *Ledger) Record(ctx context.Context, c model.Comparison) error {
	if err := c.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := keyOf(c.A, c.B)
	stats := l.pairs[key]
	stats.count++
	stats.lastSeen = c.Seq
	l.pairs[key] = stats
	l.log = append(l.log, c)
	return nil
}

// TimesCompared returns how often the pair has been shown, 0 if never.
func (l *Ledger) TimesCompared(ctx context.Context, a, b string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pairs[keyOf(a, b)].count
}

// LastSeen returns the sequence number of the pair's most recent showing.
func (l *Ledger) LastSeen(ctx context.Context, a, b string) (uint64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats, ok := l.pairs[keyOf(a, b)]
	if !ok {
		return 0, false
	}
	return stats.lastSeen, true
}

// History returns a copy of the full comparison log in record order.
func (l *Ledger) History(ctx context.Context) []model.Comparison {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Comparison, len(l.log))
	copy(out, l.log)
	return out
}

// Len returns the number of recorded comparisons, skips included.
func (l *Ledger) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.log)
}
