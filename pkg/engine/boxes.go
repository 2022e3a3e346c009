package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/observability"
)

// PackChain packs the active chain into a new box. Violations of the
// membership or nesting rules are silent no-ops.
func (e *Engine) PackChain() uuid.UUID {
	members := len(e.chains.Members(e.store))
	boxID, err := board.Pack(e.store, e.chains, e.cfg.BoxSize)
	if err != nil {
		e.logger.Debug("pack refused", "err", err)
		return uuid.Nil
	}
	e.lastBoxed = boxID
	e.lastUnboxed = nil
	e.logger.Debug("packed", "box", boxID, "blocks", members)
	observability.Engine().OnBoxPacked(context.Background(), members)
	e.Reflow()
	return boxID
}

// UnpackBox dissolves a box back into its children, which return as an
// active chain. Unknown or non-box ids are silent no-ops.
func (e *Engine) UnpackBox(id uuid.UUID) {
	released, err := board.Unpack(e.store, e.chains, id)
	if err != nil {
		e.logger.Debug("unpack refused", "err", err)
		return
	}
	e.touchChain()
	e.lastUnboxed = released
	if e.lastBoxed == id {
		e.lastBoxed = uuid.Nil
	}
	e.logger.Debug("unpacked", "box", id, "blocks", len(released))
	observability.Engine().OnBoxUnpacked(context.Background(), len(released))
	e.Reflow()
}

// ToggleBox is the smart toolbar toggle. In priority order:
//
//  1. A packable selection packs.
//  2. A selected box unpacks.
//  3. With no selection, the most recently unboxed blocks re-pack, or
//     failing that the most recently created box unboxes. Pack and unpack
//     alternate on repeated presses.
func (e *Engine) ToggleBox() {
	if len(e.chains.Members(e.store)) >= 2 {
		if e.PackChain() != uuid.Nil {
			return
		}
	}

	// A lone selected box unpacks directly.
	if p := e.chains.Pending(); p != uuid.Nil {
		if b := e.store.Get(p); b != nil && b.IsBox() {
			e.UnpackBox(p)
			return
		}
	}

	if len(e.lastUnboxed) >= 2 {
		if e.chains.ActivateSet(e.store, board.NewIDSet(e.lastUnboxed...)) >= 2 {
			e.PackChain()
			return
		}
		e.lastUnboxed = nil
	}

	if e.lastBoxed != uuid.Nil {
		if b := e.store.Get(e.lastBoxed); b != nil && b.IsBox() {
			e.UnpackBox(e.lastBoxed)
			return
		}
		e.lastBoxed = uuid.Nil
	}
}
