package board

import (
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/geom"
)

// Store owns every block in the canvas. The ordered sequence holds the
// top-level blocks (box containers and unboxed images); blocks nested in a
// box stay in the id index but leave the sequence. The id index is kept
// consistent with the sequence on every mutation, so lookups are O(1).
//
// The Store is not safe for concurrent use: per the engine's single-writer
// discipline, only the interaction tick mutates it.
type Store struct {
	order []uuid.UUID
	byID  map[uuid.UUID]*Block
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[uuid.UUID]*Block)}
}

// Len returns the number of top-level blocks.
func (s *Store) Len() int { return len(s.order) }

// Get returns the block with the given id, nested children included.
// Returns nil when the id is unknown.
func (s *Store) Get(id uuid.UUID) *Block {
	return s.byID[id]
}

// Update applies mutate to the block with the given id.
// Returns false when the id is unknown.
func (s *Store) Update(id uuid.UUID, mutate func(*Block)) bool {
	b, ok := s.byID[id]
	if !ok {
		return false
	}
	mutate(b)
	return true
}

// OrderedIDs returns a copy of the top-level sequence in visual order.
func (s *Store) OrderedIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(s.order))
	copy(out, s.order)
	return out
}

// SetOrder replaces the top-level sequence. The new order must be a
// permutation of the current one; it is adopted as-is.
func (s *Store) SetOrder(order []uuid.UUID) {
	s.order = append(s.order[:0], order...)
}

// IndexOf returns the position of a top-level block, or -1.
func (s *Store) IndexOf(id uuid.UUID) int {
	for i, o := range s.order {
		if o == id {
			return i
		}
	}
	return -1
}

// TopLevel returns the top-level blocks in visual order.
func (s *Store) TopLevel() []*Block {
	out := make([]*Block, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Insert appends a block to the top-level sequence.
func (s *Store) Insert(b *Block) {
	s.InsertAt(len(s.order), b)
}

// InsertAt places a block at the given top-level index. Out-of-range
// indices are clamped.
func (s *Store) InsertAt(i int, b *Block) {
	if i < 0 {
		i = 0
	}
	if i > len(s.order) {
		i = len(s.order)
	}
	s.order = append(s.order, uuid.Nil)
	copy(s.order[i+1:], s.order[i:])
	s.order[i] = b.ID
	s.byID[b.ID] = b
}

// Adopt registers child under an existing box without touching the
// top-level sequence. Used when rebuilding nested blocks from a session.
// Returns false if parent is unknown or not a box.
func (s *Store) Adopt(parent uuid.UUID, child *Block) bool {
	p, ok := s.byID[parent]
	if !ok || !p.IsBox() {
		return false
	}
	s.byID[child.ID] = child
	p.Children = append(p.Children, child.ID)
	return true
}

// Remove deletes the block with the given id, wherever it lives. Removing
// a box also deletes its children. Removing a nested block detaches it from
// its parent box. Returns the ids of every deleted block, or nil when the
// id is unknown.
func (s *Store) Remove(id uuid.UUID) []uuid.UUID {
	b, ok := s.byID[id]
	if !ok {
		return nil
	}

	if i := s.IndexOf(id); i >= 0 {
		s.order = append(s.order[:i], s.order[i+1:]...)
	} else {
		// Nested block: detach from its parent box.
		for _, top := range s.order {
			p := s.byID[top]
			if !p.IsBox() {
				continue
			}
			for j, c := range p.Children {
				if c == id {
					p.Children = append(p.Children[:j], p.Children[j+1:]...)
					break
				}
			}
		}
	}

	removed := []uuid.UUID{id}
	for _, c := range b.Children {
		removed = append(removed, c)
		delete(s.byID, c)
	}
	delete(s.byID, id)
	return removed
}

// Extract removes a block from the top-level sequence but keeps it in the
// id index. Used when a block moves into a box. Returns false when the id
// is not top-level.
func (s *Store) Extract(id uuid.UUID) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	s.order = append(s.order[:i], s.order[i+1:]...)
	return true
}

// BoxBoundary returns the index of the first non-box block in the
// sequence. Boxes always lead the sequence; this is where unboxed blocks
// are inserted.
func (s *Store) BoxBoundary() int {
	for i, id := range s.order {
		if !s.byID[id].IsBox() {
			return i
		}
	}
	return len(s.order)
}

// FindBoxAt returns the first box whose bounds contain p, excluding the
// given id. Returns uuid.Nil when no box matches.
func (s *Store) FindBoxAt(p geom.Point, exclude uuid.UUID) uuid.UUID {
	for _, id := range s.order {
		b := s.byID[id]
		if b.ID != exclude && b.IsBox() && b.Rect().Contains(p) {
			return b.ID
		}
	}
	return uuid.Nil
}

// MaxImageHeight returns the tallest preferred height among top-level
// image blocks, or 0 when there are none. New blocks adopt this height so
// fresh rows come out uniform.
func (s *Store) MaxImageHeight() float64 {
	var max float64
	for _, id := range s.order {
		b := s.byID[id]
		if !b.IsBox() && b.Preferred.H > max {
			max = b.Preferred.H
		}
	}
	return max
}

// ResetCounters zeroes the counter of every image block, including blocks
// nested inside boxes.
func (s *Store) ResetCounters() {
	for _, b := range s.byID {
		b.Counter = 0
	}
}

// AnyDragging reports whether any top-level block is mid-drag.
func (s *Store) AnyDragging() bool {
	for _, id := range s.order {
		if s.byID[id].Dragging {
			return true
		}
	}
	return false
}
