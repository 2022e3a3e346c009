package board

import (
	"github.com/google/uuid"
)

// IDSet is a set of block ids, used for chain membership.
type IDSet map[uuid.UUID]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...uuid.UUID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set.
func (set IDSet) Contains(id uuid.UUID) bool {
	_, ok := set[id]
	return ok
}

// Disjoint reports whether the two sets share no ids.
func (set IDSet) Disjoint(other IDSet) bool {
	for id := range set {
		if other.Contains(id) {
			return false
		}
	}
	return true
}

// Chains is the grouping state machine. At most one chain is Active at a
// time; its members carry the chain id on their blocks. Cleared chains with
// two or more members are remembered so selecting any former member
// re-activates the whole set.
//
// A chain id is only ever assigned to two or more blocks. The first block
// the user selects is held as pending; the chain materializes when a second
// block joins.
type Chains struct {
	active     uuid.UUID // live chain id, uuid.Nil when none
	pending    uuid.UUID // single selected block awaiting a partner
	remembered []IDSet
}

// NewChains creates an empty grouping state.
func NewChains() *Chains {
	return &Chains{}
}

// Active returns the live chain id, or uuid.Nil.
func (c *Chains) Active() uuid.UUID { return c.active }

// Pending returns the single selected block id, or uuid.Nil.
func (c *Chains) Pending() uuid.UUID { return c.pending }

// Selected reports whether the block is part of the current selection:
// either the pending block or an active chain member.
func (c *Chains) Selected(s *Store, id uuid.UUID) bool {
	if c.pending == id && id != uuid.Nil {
		return true
	}
	b := s.Get(id)
	return b != nil && c.active != uuid.Nil && b.ChainID == c.active
}

// Members returns the active chain's member ids in store order.
// Empty when no chain is active.
func (c *Chains) Members(s *Store) []uuid.UUID {
	if c.active == uuid.Nil {
		return nil
	}
	var out []uuid.UUID
	for _, id := range s.OrderedIDs() {
		if s.Get(id).ChainID == c.active {
			out = append(out, id)
		}
	}
	return out
}

// MemberSet returns the active chain's membership as a set.
func (c *Chains) MemberSet(s *Store) IDSet {
	return NewIDSet(c.Members(s)...)
}

// Remembered returns the remembered chain sets.
func (c *Chains) Remembered() []IDSet { return c.remembered }

// SetRemembered replaces the remembered sets, dropping any with fewer than
// two members. Used on session load.
func (c *Chains) SetRemembered(sets []IDSet) {
	c.remembered = nil
	for _, set := range sets {
		if len(set) >= 2 {
			c.remembered = append(c.remembered, set)
		}
	}
}

// Toggle flips the chain participation of a top-level block.
//
// Toggling an unchained block re-activates a remembered chain if the block
// belongs to one, merging any current selection (active chain members and
// a pending block alike) into the restored set. Otherwise it joins the
// active chain if one exists, pairs with a pending selection, or is held
// as the pending selection. Toggling an active member removes it; a chain
// reduced to one member dissolves and its survivor becomes the pending
// selection.
//
// Returns true when any state changed.
func (c *Chains) Toggle(s *Store, id uuid.UUID) bool {
	b := s.Get(id)
	if b == nil || s.IndexOf(id) < 0 {
		return false
	}

	if c.active != uuid.Nil && b.ChainID == c.active {
		b.ChainID = uuid.Nil
		c.normalize(s)
		return true
	}

	if set := c.rememberedFor(id); set != nil {
		// Restore the whole remembered chain. The current selection
		// merges in rather than being dropped: active members stay
		// chained and a pending block joins.
		restore := NewIDSet(id)
		for member := range set {
			restore[member] = struct{}{}
		}
		for _, member := range c.Members(s) {
			restore[member] = struct{}{}
		}
		if c.pending != uuid.Nil {
			restore[c.pending] = struct{}{}
		}
		c.ActivateSet(s, restore)
		return true
	}

	if c.active != uuid.Nil {
		b.ChainID = c.active
		return true
	}

	if c.pending == id {
		c.pending = uuid.Nil
		return true
	}

	if c.pending != uuid.Nil {
		if p := s.Get(c.pending); p != nil && s.IndexOf(c.pending) >= 0 {
			c.active = uuid.New()
			p.ChainID = c.active
			b.ChainID = c.active
			c.pending = uuid.Nil
			return true
		}
		c.pending = uuid.Nil
	}

	c.pending = id
	return true
}

// Clear cancels the current selection. An active chain with two or more
// members is remembered before its members are released.
func (c *Chains) Clear(s *Store) {
	members := c.Members(s)
	if len(members) >= 2 {
		c.remember(NewIDSet(members...))
	}
	for _, id := range members {
		s.Get(id).ChainID = uuid.Nil
	}
	c.active = uuid.Nil
	c.pending = uuid.Nil
}

// ActivateSet assigns a fresh chain id across the given block ids. Ids not
// present as top-level blocks are skipped; if fewer than two remain, no
// chain forms (a single survivor becomes the pending selection). Returns
// the number of members activated.
func (c *Chains) ActivateSet(s *Store, ids IDSet) int {
	var present []*Block
	for _, id := range s.OrderedIDs() {
		if ids.Contains(id) {
			present = append(present, s.Get(id))
		}
	}

	// Release the previous selection without remembering: activation
	// replaces it.
	for _, id := range c.Members(s) {
		s.Get(id).ChainID = uuid.Nil
	}
	c.active = uuid.Nil
	c.pending = uuid.Nil

	if len(present) < 2 {
		if len(present) == 1 {
			c.pending = present[0].ID
		}
		return len(present)
	}

	c.active = uuid.New()
	for _, b := range present {
		b.ChainID = c.active
	}
	return len(present)
}

// DetachRemoved cleans the grouping state after blocks were deleted:
// remembered sets lose the removed ids (and dissolve below two members),
// a removed pending selection is cleared, and a chain reduced below two
// members dissolves.
func (c *Chains) DetachRemoved(s *Store, removed []uuid.UUID) {
	gone := NewIDSet(removed...)

	kept := c.remembered[:0]
	for _, set := range c.remembered {
		for id := range gone {
			delete(set, id)
		}
		if len(set) >= 2 {
			kept = append(kept, set)
		}
	}
	c.remembered = kept

	if gone.Contains(c.pending) {
		c.pending = uuid.Nil
	}
	c.normalize(s)
}

// normalize dissolves an active chain that has fallen below two members.
// A single survivor is demoted to the pending selection.
func (c *Chains) normalize(s *Store) {
	if c.active == uuid.Nil {
		return
	}
	members := c.Members(s)
	switch len(members) {
	case 0:
		c.active = uuid.Nil
	case 1:
		s.Get(members[0]).ChainID = uuid.Nil
		c.pending = members[0]
		c.active = uuid.Nil
	}
}

// remember stores a membership set, replacing any overlapping older sets.
// Remembering the same membership twice is idempotent.
func (c *Chains) remember(set IDSet) {
	kept := c.remembered[:0]
	for _, old := range c.remembered {
		if old.Disjoint(set) {
			kept = append(kept, old)
		}
	}
	c.remembered = append(kept, set)
}

// rememberedFor returns the remembered set containing id, or nil.
func (c *Chains) rememberedFor(id uuid.UUID) IDSet {
	for _, set := range c.remembered {
		if set.Contains(id) {
			return set
		}
	}
	return nil
}
