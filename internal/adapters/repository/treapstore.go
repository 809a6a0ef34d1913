package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"github.com/okian/neonstrike/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then ID ASC (deterministic). "less" means ranks
// earlier, so an in-order walk yields the board from best to worst. Every
// node carries its subtree size, which makes Rank O(log n).

const defaultCapacity = 1000

type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
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

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if less(nn.score, nn.id, n.score, n.id) {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes hold a score strictly greater than score.
func countAbove(n *node, score int) int {
	c := 0
	for n != nil {
		if n.score > score {
			c += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return c
}

func last(n *node) *node {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, byID map[string]Entry, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		if e, ok := byID[n.id]; ok {
			*out = append(*out, e)
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byID, out)
	}
}

// TreapStore is an in-memory Store safe for concurrent use.
type TreapStore struct {
	mu       sync.RWMutex
	root     *node
	byID     map[string]Entry
	rng      *rand.Rand
	capacity int
	seed     uint64
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID:     make(map[string]Entry),
		capacity: defaultCapacity,
		seed:     uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewSource(s.seed))
	metrics.UpdateHighScoreEntries(0)
	return s
}

// UpdateBest implements Store.UpdateBest with O(log n) expected time. On a
// full board a new entry evicts the lowest one, or is refused if it is the lowest.
func (s *TreapStore) UpdateBest(_ context.Context, e Entry) (bool, error) {
	if e.ID == "" || e.Score < 0 {
		return false, fmt.Errorf("%w: id %q score %d", ErrInvalidEntry, e.ID, e.Score)
	}
	e.Rank = 0

	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.byID[e.ID]
	if exists {
		if e.Score <= old.Score {
			return false, nil
		}
		s.root = deleteNode(s.root, old.ID, old.Score)
	}
	s.byID[e.ID] = e
	s.root = insert(s.root, &node{id: e.ID, score: e.Score, prio: s.rng.Uint64(), size: 1})

	if !exists && s.capacity > 0 && len(s.byID) > s.capacity {
		low := last(s.root)
		s.root = deleteNode(s.root, low.id, low.score)
		delete(s.byID, low.id)
		if low.id == e.ID {
			return false, nil
		}
	}

	metrics.UpdateHighScoreEntries(len(s.byID))
	metrics.RecordHighScoreUpdate()
	return true, nil
}

// Rank returns a seat's entry in O(log n). Equal scores share a rank and the
// next rank skips past them.
func (s *TreapStore) Rank(_ context.Context, id string) (Entry, error) {
	start := time.Now()
	defer observe(start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.Rank = 1 + countAbove(s.root, e.Score)
	return e, nil
}

// TopN returns the best n entries ordered by score desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer observe(start)

	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, s.byID, &out)
	s.mu.RUnlock()

	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out, nil
}

// Count returns the number of entries.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func observe(start time.Time) {
	metrics.RecordHighScoreQuery(float64(time.Since(start).Microseconds()) / 1000)
}
