package repository

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/clubmate/lora-training/internal/domain/model"
	"github.com/clubmate/lora-training/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: rating DESC, then image id ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so an in-order traversal
// produces the full ranking from best to worst, and subtree sizes give a
// single image's rank in O(log n).

// ratingScale controls fixed-point scaling from float64. Nine decimal
// places comfortably exceed the precision of any Elo delta.
const ratingScale = 1_000_000_000

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	scaled := math.Round(x * ratingScale)
	if scaled > float64(math.MaxInt64) {
		return ratingFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return ratingFP(math.MinInt64)
	}
	return ratingFP(scaled)
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// record stores the fixed-point rating plus the comparison count.
type record struct {
	rating      ratingFP
	comparisons int
}

// treap node
type node struct {
	id     string
	rating ratingFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aRating, aID) ranks earlier than (bRating, bID):
// higher ratings first, ties broken by identifier ascending.
func less(aRating ratingFP, aID string, bRating ratingFP, bID string) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, rating ratingFP, prio uint64) *node {
	if n == nil {
		return &node{id: id, rating: rating, prio: prio, size: 1}
	}
	if less(rating, id, n.rating, n.id) {
		n.left = insert(n.left, id, rating, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, rating, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, rating ratingFP) *node {
	if n == nil {
		return nil
	}
	if rating == n.rating && id == n.id {
		// Merge children by rotating the highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, rating)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, rating)
		}
	} else if less(rating, id, n.rating, n.id) {
		n.left = deleteNode(n.left, id, rating)
	} else {
		n.right = deleteNode(n.right, id, rating)
	}
	fix(n)
	return n
}

// countBefore returns how many nodes rank earlier than (rating, id).
func countBefore(n *node, rating ratingFP, id string) int {
	if n == nil {
		return 0
	}
	if less(rating, id, n.rating, n.id) {
		return countBefore(n.left, rating, id)
	}
	if rating == n.rating && id == n.id {
		return nsize(n.left)
	}
	return nsize(n.left) + 1 + countBefore(n.right, rating, id)
}

// collectAll appends all entries in rank order (best ratings first).
func collectAll(n *node, byID map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byID, out)
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, Entry{
			ID:          n.id,
			Rating:      toFloat(rec.rating),
			Comparisons: rec.comparisons,
		})
	}
	collectAll(n.right, byID, out)
}

// TreapStore is the in-memory Store. Safe for concurrent use; a
// server-backed presenter may read rankings while the engine mutates.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record
	prng *rand.Rand
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[string]record),
		prng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // treap balance, not cryptography
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetOrCreate implements Store.GetOrCreate.
func (s *TreapStore) GetOrCreate(ctx context.Context, id string) (model.Image, error) {
	img := model.NewImage(id)
	if err := img.Validate(); err != nil {
		return model.Image{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.byID[id]; ok {
		return model.Image{ID: id, Rating: toFloat(rec.rating), Comparisons: rec.comparisons}, nil
	}

	fp := toFixedPoint(img.Rating)
	s.byID[id] = record{rating: fp}
	s.root = insert(s.root, id, fp, s.prng.Uint64())
	return img, nil
}

// Get implements Store.Get.
func (s *TreapStore) Get(ctx context.Context, id string) (model.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return model.Image{}, ErrUnknownImage
	}
	return model.Image{ID: id, Rating: toFloat(rec.rating), Comparisons: rec.comparisons}, nil
}

// Update implements Store.Update with O(log n) expected time.
func (s *TreapStore) Update(ctx context.Context, id string, rating float64) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_image")
		return ErrUnknownImage
	}

	fp := toFixedPoint(rating)
	if fp == rec.rating {
		return nil
	}

	s.root = deleteNode(s.root, id, rec.rating)
	rec.rating = fp
	s.byID[id] = rec
	s.root = insert(s.root, id, fp, s.prng.Uint64())
	return nil
}

// IncrementCount implements Store.IncrementCount. The treap is keyed by
// rating, so the count change never touches the tree.
func (s *TreapStore) IncrementCount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_image")
		return ErrUnknownImage
	}
	rec.comparisons++
	s.byID[id] = rec
	return nil
}

// Restore implements Store.Restore.
func (s *TreapStore) Restore(ctx context.Context, img model.Image) error {
	if err := img.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[img.ID]; ok {
		return fmt.Errorf("restore %q: duplicate image id", img.ID)
	}

	fp := toFixedPoint(img.Rating)
	s.byID[img.ID] = record{rating: fp, comparisons: img.Comparisons}
	s.root = insert(s.root, img.ID, fp, s.prng.Uint64())
	return nil
}

// ListAll implements Store.ListAll.
func (s *TreapStore) ListAll(ctx context.Context) []model.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Image, 0, len(s.byID))
	for id, rec := range s.byID {
		out = append(out, model.Image{ID: id, Rating: toFloat(rec.rating), Comparisons: rec.comparisons})
	}
	return out
}

// Rankings implements Store.Rankings in a single in-order traversal.
func (s *TreapStore) Rankings(ctx context.Context) []Entry {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Rank implements Store.Rank in O(log n) via subtree sizes.
func (s *TreapStore) Rank(ctx context.Context, id string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_image")
		return Entry{}, ErrUnknownImage
	}

	return Entry{
		Rank:        countBefore(s.root, rec.rating, id) + 1,
		ID:          id,
		Rating:      toFloat(rec.rating),
		Comparisons: rec.comparisons,
	}, nil
}

// Count implements Store.Count.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
