package board

import (
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/errors"
)

// Pack moves the active chain's members into a new box block. The box is
// placed at the top-left corner of the members' bounding area and inserted
// at the head of the sequence, where boxes live. The chain is consumed, not
// remembered: the box itself now expresses the grouping.
//
// Packing requires an active chain of at least two members and fails if any
// member is a box, since boxes never nest.
func Pack(s *Store, c *Chains, boxSize float64) (uuid.UUID, error) {
	members := c.Members(s)
	if len(members) < 2 {
		return uuid.Nil, errors.New(errors.ErrCodeInvalidInput, "packing needs an active chain of two or more blocks")
	}
	for _, id := range members {
		if s.Get(id).IsBox() {
			return uuid.Nil, errors.New(errors.ErrCodeInvalidInput, "cannot pack a box into a box")
		}
	}

	bounds := s.Get(members[0]).Rect()
	for _, id := range members[1:] {
		bounds = bounds.Union(s.Get(id).Rect())
	}

	box := NewBox(boxSize)
	box.Pos = bounds.Min
	for _, id := range members {
		b := s.Get(id)
		b.ChainID = uuid.Nil
		s.Extract(id)
		box.Children = append(box.Children, id)
	}
	c.active = uuid.Nil
	c.pending = uuid.Nil

	s.InsertAt(0, box)
	return box.ID, nil
}

// Unpack dissolves a box: the box block is removed and its children rejoin
// the top-level sequence at the box's former slot, clamped past the
// remaining boxes. The released blocks come back as a fresh active chain so
// they can be re-packed or rearranged as a unit.
//
// Returns the released ids in their nested order.
func Unpack(s *Store, c *Chains, boxID uuid.UUID) ([]uuid.UUID, error) {
	box := s.Get(boxID)
	if box == nil {
		return nil, errors.New(errors.ErrCodeBlockNotFound, "unpack: no block %s", boxID)
	}
	if !box.IsBox() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unpack: block %s is not a box", boxID)
	}

	at := s.IndexOf(boxID)
	released := append([]uuid.UUID(nil), box.Children...)
	box.Children = nil
	s.order = append(s.order[:at], s.order[at+1:]...)
	delete(s.byID, boxID)

	if boundary := s.BoxBoundary(); at < boundary {
		at = boundary
	}
	for i, id := range released {
		b := s.byID[id]
		b.Pos = box.Pos
		s.InsertAt(at+i, b)
	}

	c.ActivateSet(s, NewIDSet(released...))
	return released, nil
}

// DropIntoBox moves a top-level block into an existing box. When the block
// belongs to the active chain, every image member of the chain moves with
// it and the chain dissolves without being remembered. Box blocks never
// move into other boxes.
//
// Returns the ids that moved, in sequence order.
func DropIntoBox(s *Store, c *Chains, boxID, blockID uuid.UUID) ([]uuid.UUID, error) {
	box := s.Get(boxID)
	if box == nil || !box.IsBox() {
		return nil, errors.New(errors.ErrCodeBlockNotFound, "drop: no box %s", boxID)
	}
	b := s.Get(blockID)
	if b == nil || s.IndexOf(blockID) < 0 {
		return nil, errors.New(errors.ErrCodeBlockNotFound, "drop: no top-level block %s", blockID)
	}
	if b.IsBox() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "drop: boxes cannot nest")
	}

	moving := []uuid.UUID{blockID}
	if c.active != uuid.Nil && b.ChainID == c.active {
		moving = moving[:0]
		for _, id := range c.Members(s) {
			if !s.Get(id).IsBox() {
				moving = append(moving, id)
			}
		}
	}

	for _, id := range moving {
		m := s.Get(id)
		m.ChainID = uuid.Nil
		m.Dragging = false
		s.Extract(id)
		box.Children = append(box.Children, id)
	}
	if c.pending == blockID {
		c.pending = uuid.Nil
	}
	c.normalize(s)
	return moving, nil
}
