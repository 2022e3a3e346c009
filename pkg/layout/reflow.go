package layout

import (
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
)

// unit is one indivisible layout entity: a box, a whole chain, or a single
// block. Member ids keep their store order.
type unit struct {
	ids []uuid.UUID
	box bool
}

// buildUnits folds the top-level sequence into atomic units. A chain's
// members collapse into one unit anchored at the first member's position in
// the sequence.
func buildUnits(s *board.Store, c *board.Chains) []unit {
	chain := c.MemberSet(s)
	var units []unit
	chainDone := false
	for _, id := range s.OrderedIDs() {
		b := s.Get(id)
		switch {
		case b.IsBox():
			units = append(units, unit{ids: []uuid.UUID{id}, box: true})
		case chain.Contains(id):
			if !chainDone {
				units = append(units, unit{ids: c.Members(s)})
				chainDone = true
			}
		default:
			units = append(units, unit{ids: []uuid.UUID{id}})
		}
	}
	return units
}

// Reflow recomputes every top-level block's size and position.
//
// Sizes reset to each block's preferred size first, so repeated reflows are
// idempotent. Boxes pack into leading rows of their own; image units then
// wrap left-to-right on the unit widths. Once a row's membership is fixed,
// every block in it adopts the row's tallest height and recomputes its
// width from its own aspect ratio.
//
// Returns the content extent, margins included.
func Reflow(s *board.Store, c *board.Chains, p Params) geom.Size {
	avail := p.avail()
	for _, b := range s.TopLevel() {
		b.ResetToPreferred()
		b.ConstrainToWidth(avail)
	}

	units := buildUnits(s, c)
	var boxes, images []unit
	for _, u := range units {
		if u.box {
			boxes = append(boxes, u)
		} else {
			images = append(images, u)
		}
	}

	y := p.Padding
	maxX := p.Padding
	for _, section := range [][]unit{boxes, images} {
		for _, row := range wrapRows(s, section, avail, p.Gap) {
			normalizeRow(s, row)
			rowW, rowH := rowExtent(s, row, p.Gap)
			x := p.Padding
			for _, id := range rowIDs(row) {
				b := s.Get(id)
				b.Pos = geom.Point{X: x, Y: y}
				x += b.Size.W + p.Gap
			}
			if right := p.Padding + rowW; right > maxX {
				maxX = right
			}
			y += rowH + p.Gap
		}
	}

	height := y - p.Gap + p.Padding
	if s.Len() == 0 {
		height = 2 * p.Padding
	}
	return geom.Size{W: maxX + p.Padding, H: height}
}

// wrapRows packs units into rows. A unit wider than the available width
// gets a row of its own.
func wrapRows(s *board.Store, units []unit, avail, gap float64) [][]unit {
	var rows [][]unit
	var row []unit
	width := 0.0
	for _, u := range units {
		w := unitWidth(s, u, gap)
		if len(row) > 0 && width+gap+w > avail {
			rows = append(rows, row)
			row = nil
			width = 0
		}
		if len(row) > 0 {
			width += gap
		}
		row = append(row, u)
		width += w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func unitWidth(s *board.Store, u unit, gap float64) float64 {
	w := 0.0
	for i, id := range u.ids {
		if i > 0 {
			w += gap
		}
		w += s.Get(id).Size.W
	}
	return w
}

// normalizeRow grows or shrinks every block in the row to the row's
// tallest height, keeping each block's own aspect ratio. Ties need no
// special handling: matching the maximum leaves a block's height as-is.
func normalizeRow(s *board.Store, row []unit) {
	target := 0.0
	for _, id := range rowIDs(row) {
		if h := s.Get(id).Size.H; h > target {
			target = h
		}
	}
	if target <= 0 {
		return
	}
	for _, id := range rowIDs(row) {
		b := s.Get(id)
		b.Size = geom.Size{W: target * b.Aspect, H: target}
	}
}

func rowIDs(row []unit) []uuid.UUID {
	var ids []uuid.UUID
	for _, u := range row {
		ids = append(ids, u.ids...)
	}
	return ids
}

func rowExtent(s *board.Store, row []unit, gap float64) (w, h float64) {
	for i, id := range rowIDs(row) {
		if i > 0 {
			w += gap
		}
		b := s.Get(id)
		w += b.Size.W
		if b.Size.H > h {
			h = b.Size.H
		}
	}
	return w, h
}
