// Package cache bounds the number of fully loaded animations.
//
// Full frame sequences are expensive to keep resident, so at most a fixed
// number of blocks may hold one at a time. The cache tracks recency of
// play per block id; touching an id at capacity names the least recently
// played id for eviction. The cache never owns frame data, it only decides
// who keeps theirs.
package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/observability"
)

// Animations is the LRU recency list over playing animated blocks.
// Not safe for concurrent use; only the interaction tick touches it.
type Animations struct {
	capacity int
	order    []uuid.UUID // least recently played first
}

// NewAnimations creates a cache admitting at most capacity entries.
func NewAnimations(capacity int) *Animations {
	if capacity < 1 {
		capacity = 1
	}
	return &Animations{capacity: capacity}
}

// Len returns the number of tracked entries.
func (a *Animations) Len() int { return len(a.order) }

// Capacity returns the entry bound.
func (a *Animations) Capacity() int { return a.capacity }

// Contains reports whether the id currently holds a cache slot.
func (a *Animations) Contains(id uuid.UUID) bool {
	return a.indexOf(id) >= 0
}

// Touch records a play of the given block, inserting it or refreshing its
// recency. If the insert pushes the cache past capacity, the least
// recently played entry is dropped and returned; the caller must release
// that block's frames. Returns uuid.Nil when nothing was evicted.
func (a *Animations) Touch(id uuid.UUID) uuid.UUID {
	if i := a.indexOf(id); i >= 0 {
		a.order = append(a.order[:i], a.order[i+1:]...)
	}
	a.order = append(a.order, id)
	observability.Cache().OnCacheTouch(context.Background(), len(a.order))

	if len(a.order) <= a.capacity {
		return uuid.Nil
	}
	victim := a.order[0]
	a.order = a.order[1:]
	return victim
}

// Forget drops an entry without eviction semantics. Used when a block is
// deleted or its animation is switched off.
func (a *Animations) Forget(id uuid.UUID) {
	if i := a.indexOf(id); i >= 0 {
		a.order = append(a.order[:i], a.order[i+1:]...)
	}
}

// IDs returns the tracked ids, least recently played first.
func (a *Animations) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(a.order))
	copy(out, a.order)
	return out
}

func (a *Animations) indexOf(id uuid.UUID) int {
	for i, o := range a.order {
		if o == id {
			return i
		}
	}
	return -1
}
