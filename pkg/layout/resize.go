package layout

import (
	"math"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/errors"
	"github.com/tilemark/blockboard/pkg/geom"
)

// Corner identifies which block corner a resize gesture grips.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// signs returns the outward direction of the corner on each axis.
func (c Corner) signs() (x, y float64) {
	switch c {
	case CornerTopLeft:
		return -1, -1
	case CornerTopRight:
		return 1, -1
	case CornerBottomLeft:
		return -1, 1
	default:
		return 1, 1
	}
}

// nearestCorner picks the block corner closest to the press point.
func nearestCorner(r geom.Rect, press geom.Point) Corner {
	center := r.Center()
	if press.X < center.X {
		if press.Y < center.Y {
			return CornerTopLeft
		}
		return CornerBottomLeft
	}
	if press.Y < center.Y {
		return CornerTopRight
	}
	return CornerBottomRight
}

// Resize is one in-progress resize gesture. Displacing the gripped corner
// applies the equal and opposite displacement to the diagonal corner, so
// the block's center never moves. The diverging dimension is recomputed
// from the drag's dominant axis and the block's aspect ratio.
type Resize struct {
	block  uuid.UUID
	corner Corner
	press  geom.Point
	origin geom.Rect
	min    float64
}

// BeginResize starts a gesture on the block under the press point.
func BeginResize(s *board.Store, id uuid.UUID, press geom.Point, minSize float64) (*Resize, error) {
	b := s.Get(id)
	if b == nil || s.IndexOf(id) < 0 {
		return nil, errors.New(errors.ErrCodeBlockNotFound, "resize: no top-level block %s", id)
	}
	return &Resize{
		block:  id,
		corner: nearestCorner(b.Rect(), press),
		press:  press,
		origin: b.Rect(),
		min:    minSize,
	}, nil
}

// Block returns the id of the gripped block.
func (g *Resize) Block() uuid.UUID { return g.block }

// Update applies the pointer position to the gripped block and, when the
// block is part of the active chain, propagates its new height to the
// other members. Every member keeps its own center.
func (g *Resize) Update(s *board.Store, c *board.Chains, pointer geom.Point) {
	b := s.Get(g.block)
	if b == nil {
		return
	}

	dx := pointer.X - g.press.X
	dy := pointer.Y - g.press.Y
	sx, sy := g.corner.signs()

	// Both the gripped corner and its diagonal opposite move, so the
	// size changes by twice the displacement.
	w := g.origin.Size.W + 2*dx*sx
	h := g.origin.Size.H + 2*dy*sy

	if math.Abs(dx) > math.Abs(dy) {
		h = w / b.Aspect
	}
	w, h = clampToFloor(h, b.Aspect, g.min)

	b.Size = geom.Size{W: w, H: h}
	b.Pos = geom.RectFromCenter(g.origin.Center(), b.Size).Min

	if c.Active() != uuid.Nil && b.ChainID == c.Active() {
		g.syncChain(s, c, h)
	}
}

// syncChain gives every other chain member the target height, with width
// from its own aspect ratio, around its own center.
func (g *Resize) syncChain(s *board.Store, c *board.Chains, height float64) {
	for _, id := range c.Members(s) {
		if id == g.block {
			continue
		}
		m := s.Get(id)
		w, h := clampToFloor(height, m.Aspect, g.min)
		center := m.Rect().Center()
		m.Size = geom.Size{W: w, H: h}
		m.Pos = geom.RectFromCenter(center, m.Size).Min
	}
}

// End commits the gesture: the resized blocks' preferred sizes adopt their
// display sizes, so the next reflow keeps them.
func (g *Resize) End(s *board.Store, c *board.Chains) {
	commit := func(id uuid.UUID) {
		if b := s.Get(id); b != nil {
			b.Preferred = b.Size
		}
	}
	commit(g.block)
	if b := s.Get(g.block); b != nil && c.Active() != uuid.Nil && b.ChainID == c.Active() {
		for _, id := range c.Members(s) {
			commit(id)
		}
	}
}

// clampToFloor turns a candidate height into a size whose dimensions both
// respect the floor, preserving the aspect ratio. Non-positive heights
// clamp too.
func clampToFloor(h, aspect, min float64) (float64, float64) {
	minH := min
	if aspect > 0 && min/aspect > minH {
		minH = min / aspect // width floor expressed as a height
	}
	if h < minH {
		h = minH
	}
	return h * aspect, h
}
