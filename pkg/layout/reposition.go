package layout

import (
	"math"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
)

// Reposition reorders the sequence after a drag release. The unit holding
// the dragged block (the block alone, or its whole chain) is extracted,
// reinserted at the slot nearest the drop point, and the canvas reflows.
//
// Returns the content extent from the reflow, and false when the id is not
// a top-level block.
func Reposition(s *board.Store, c *board.Chains, id uuid.UUID, drop geom.Point, p Params) (geom.Size, bool) {
	b := s.Get(id)
	if b == nil || s.IndexOf(id) < 0 {
		return geom.Size{}, false
	}

	moving := board.NewIDSet(id)
	if c.Active() != uuid.Nil && b.ChainID == c.Active() {
		moving = c.MemberSet(s)
	}

	// Split the sequence into the moving members (order preserved) and
	// the rest.
	var moved, rest []uuid.UUID
	for _, o := range s.OrderedIDs() {
		if moving.Contains(o) {
			moved = append(moved, o)
		} else {
			rest = append(rest, o)
		}
	}

	at := insertIndex(s, rest, drop, p.Quantization)

	// Boxes stay at the head of the sequence: an image unit cannot land
	// among them, and a dragged box cannot land past them.
	boxes := 0
	for _, o := range rest {
		if !s.Get(o).IsBox() {
			break
		}
		boxes++
	}
	if b.IsBox() {
		if at > boxes {
			at = boxes
		}
	} else if at < boxes {
		at = boxes
	}

	order := make([]uuid.UUID, 0, len(rest)+len(moved))
	order = append(order, rest[:at]...)
	order = append(order, moved...)
	order = append(order, rest[at:]...)
	s.SetOrder(order)

	return Reflow(s, c, p), true
}

// insertIndex finds where the dragged unit lands among the remaining
// blocks: before the first block whose row (quantized y) is below the drop
// point, or whose row matches and whose horizontal center is past it.
func insertIndex(s *board.Store, rest []uuid.UUID, drop geom.Point, quant float64) int {
	for i, id := range rest {
		if insertBefore(drop, s.Get(id), quant) {
			return i
		}
	}
	return len(rest)
}

func insertBefore(drop geom.Point, b *board.Block, quant float64) bool {
	dropRow := math.Floor(drop.Y / quant)
	blockRow := math.Floor(b.Pos.Y / quant)
	if dropRow != blockRow {
		return dropRow < blockRow
	}
	return drop.X < b.Pos.X+b.Size.W/2
}
