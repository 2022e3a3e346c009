package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
	"github.com/tilemark/blockboard/pkg/layout"
	"github.com/tilemark/blockboard/pkg/observability"
)

// dragState is one in-progress drag. The grip offset keeps the block from
// snapping its corner to the pointer.
type dragState struct {
	block uuid.UUID
	grip  geom.Point // pointer offset from the block's top-left
}

// BeginDrag starts dragging a top-level block.
func (e *Engine) BeginDrag(id uuid.UUID, pointer geom.Point) {
	b := e.store.Get(id)
	if b == nil || e.store.IndexOf(id) < 0 {
		return
	}
	e.drag = &dragState{
		block: id,
		grip:  geom.Point{X: pointer.X - b.Pos.X, Y: pointer.Y - b.Pos.Y},
	}
	b.Dragging = true
	if e.chains.Selected(e.store, id) {
		e.touchChain()
	}
}

// DragTo moves the dragged block under the pointer. Chain members move
// rigidly with it, keeping their relative offsets.
func (e *Engine) DragTo(pointer geom.Point) {
	if e.drag == nil {
		return
	}
	b := e.store.Get(e.drag.block)
	if b == nil {
		e.drag = nil
		return
	}
	target := geom.Point{X: pointer.X - e.drag.grip.X, Y: pointer.Y - e.drag.grip.Y}
	dx, dy := target.X-b.Pos.X, target.Y-b.Pos.Y
	b.Pos = target

	if e.chains.Active() != uuid.Nil && b.ChainID == e.chains.Active() {
		e.touchChain()
		for _, id := range e.chains.Members(e.store) {
			if id == e.drag.block {
				continue
			}
			m := e.store.Get(id)
			m.Pos = m.Pos.Add(dx, dy)
		}
	}
}

// EndDrag releases the drag at the pointer position. A drop over a box
// moves the block (or its whole chain) into that box; any other drop
// reorders the sequence around the drop point and reflows.
func (e *Engine) EndDrag(pointer geom.Point) {
	if e.drag == nil {
		return
	}
	id := e.drag.block
	e.drag = nil
	b := e.store.Get(id)
	if b == nil {
		return
	}
	b.Dragging = false

	if boxID := e.store.FindBoxAt(pointer, id); boxID != uuid.Nil && !b.IsBox() {
		moved, err := board.DropIntoBox(e.store, e.chains, boxID, id)
		if err == nil {
			e.logger.Debug("dropped into box", "box", boxID, "blocks", len(moved))
			e.Reflow()
			return
		}
		e.logger.Debug("drop into box refused", "err", err)
	}

	layout.Reposition(e.store, e.chains, id, pointer, e.layoutParams())
}

// BeginResize starts a resize gesture on the corner nearest the press.
func (e *Engine) BeginResize(id uuid.UUID, pointer geom.Point) {
	g, err := layout.BeginResize(e.store, id, pointer, e.cfg.MinBlockSize)
	if err != nil {
		e.logger.Debug("resize refused", "err", err)
		return
	}
	e.resize = g
	if e.chains.Selected(e.store, id) {
		e.touchChain()
	}
}

// ResizeTo applies the pointer position to the active resize gesture.
func (e *Engine) ResizeTo(pointer geom.Point) {
	if e.resize == nil {
		return
	}
	e.resize.Update(e.store, e.chains, pointer)
	if e.chains.Selected(e.store, e.resize.Block()) {
		e.touchChain()
	}
}

// EndResize commits the gesture and reflows.
func (e *Engine) EndResize() {
	if e.resize == nil {
		return
	}
	e.resize.End(e.store, e.chains)
	e.resize = nil
	e.Reflow()
}

// ToggleChain flips a block's chain participation.
func (e *Engine) ToggleChain(id uuid.UUID) {
	if e.chains.Toggle(e.store, id) {
		e.touchChain()
	}
}

// ClearChain cancels the current selection, as a click on empty canvas
// does. A chain of two or more members is remembered.
func (e *Engine) ClearChain() {
	members := len(e.chains.Members(e.store))
	if members == 0 && e.chains.Pending() == uuid.Nil {
		return
	}
	e.chains.Clear(e.store)
	observability.Engine().OnChainCleared(context.Background(), members, members >= 2, false)
}

// IncrementCounter bumps an image block's counter.
func (e *Engine) IncrementCounter(id uuid.UUID) {
	e.store.Update(id, func(b *board.Block) {
		if !b.IsBox() {
			b.Counter++
		}
	})
}

// DecrementCounter lowers an image block's counter, floored at zero.
func (e *Engine) DecrementCounter(id uuid.UUID) {
	e.store.Update(id, func(b *board.Block) {
		if !b.IsBox() && b.Counter > 0 {
			b.Counter--
		}
	})
}

// ResetCounters zeroes every image block's counter, nested ones included.
func (e *Engine) ResetCounters() {
	e.store.ResetCounters()
}

// Delete removes a block. Deleting a box deletes its children too, and
// deleting an active chain member cascades to the whole chain. Chain and
// remembered-chain membership, cache entries, gesture state, and parked
// decode requests are all detached; in-flight decodes for the removed
// blocks are dropped when they deliver.
func (e *Engine) Delete(id uuid.UUID) {
	targets := []uuid.UUID{id}
	if b := e.store.Get(id); b != nil && b.Chained() && b.ChainID == e.chains.Active() {
		targets = e.chains.Members(e.store)
	}

	var removed []uuid.UUID
	for _, t := range targets {
		removed = append(removed, e.store.Remove(t)...)
	}
	if removed == nil {
		return
	}
	e.chains.DetachRemoved(e.store, removed)
	for _, r := range removed {
		e.anims.Forget(r)
		if e.drag != nil && e.drag.block == r {
			e.drag = nil
		}
		if e.resize != nil && e.resize.Block() == r {
			e.resize = nil
		}
	}
	if len(e.backlog) > 0 {
		gone := board.NewIDSet(removed...)
		kept := e.backlog[:0]
		for _, req := range e.backlog {
			if !gone.Contains(req.Block) {
				kept = append(kept, req)
			}
		}
		e.backlog = kept
	}
	e.logger.Debug("deleted", "blocks", len(removed))
	e.Reflow()
}
