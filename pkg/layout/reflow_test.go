package layout

import (
	"math"
	"testing"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
)

func testParams() Params {
	return Params{
		CanvasWidth:  900,
		Padding:      0,
		Gap:          10,
		Quantization: 100,
		MinBlockSize: 50,
	}
}

func addImage(s *board.Store, w, h float64) *board.Block {
	b := board.NewImage("img.png", geom.Size{W: w, H: h})
	s.Insert(b)
	return b
}

func TestReflowWrapsRows(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	a := addImage(s, 400, 200)
	b := addImage(s, 400, 200)
	d := addImage(s, 400, 200)

	Reflow(s, c, testParams())

	// 400 + 10 + 400 = 810 fits in 900; the third block wraps.
	if a.Pos.Y != b.Pos.Y {
		t.Errorf("blocks 1 and 2 on different rows: y %v vs %v", a.Pos.Y, b.Pos.Y)
	}
	if b.Pos.X != 410 {
		t.Errorf("block 2 x = %v, want 410", b.Pos.X)
	}
	if d.Pos.Y <= a.Pos.Y {
		t.Errorf("block 3 should wrap below row one: y %v vs %v", d.Pos.Y, a.Pos.Y)
	}
	if d.Pos.X != 0 {
		t.Errorf("block 3 x = %v, want 0 (row start)", d.Pos.X)
	}
	if d.Pos.Y != 210 {
		t.Errorf("block 3 y = %v, want 210 (row height + gap)", d.Pos.Y)
	}
}

func TestReflowIdempotent(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	addImage(s, 400, 300)
	addImage(s, 250, 100)
	addImage(s, 600, 450)
	addImage(s, 120, 240)

	p := testParams()
	Reflow(s, c, p)
	first := snapshot(s)
	Reflow(s, c, p)
	second := snapshot(s)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("block %d moved between reflows: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestReflowNormalizesRowHeight(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	a := addImage(s, 200, 100) // aspect 2
	b := addImage(s, 150, 150) // aspect 1

	Reflow(s, c, testParams())

	if a.Size.H != 150 {
		t.Errorf("shorter block height = %v, want row maximum 150", a.Size.H)
	}
	if a.Size.W != 300 {
		t.Errorf("shorter block width = %v, want 300 (height * aspect)", a.Size.W)
	}
	if b.Size.H != 150 || b.Size.W != 150 {
		t.Errorf("tallest block resized: %+v, want 150x150", b.Size)
	}
}

func TestReflowAspectPreserved(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	blocks := []*board.Block{
		addImage(s, 333, 107),
		addImage(s, 50, 400),
		addImage(s, 800, 800),
	}

	Reflow(s, c, testParams())

	for i, b := range blocks {
		if b.Size.H == 0 {
			t.Fatalf("block %d has zero height", i)
		}
		if got := b.Size.W / b.Size.H; math.Abs(got-b.Aspect) > 1e-9 {
			t.Errorf("block %d aspect = %v, want %v", i, got, b.Aspect)
		}
	}
}

func TestReflowNoOverlap(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	addImage(s, 400, 300)
	addImage(s, 450, 120)
	addImage(s, 200, 500)
	addImage(s, 880, 200)
	addImage(s, 60, 60)

	Reflow(s, c, testParams())

	tops := s.TopLevel()
	for i := range tops {
		for j := i + 1; j < len(tops); j++ {
			if tops[i].Rect().Intersects(tops[j].Rect()) {
				t.Errorf("blocks %d and %d overlap: %+v vs %+v", i, j, tops[i].Rect(), tops[j].Rect())
			}
		}
	}
}

func TestReflowBoxesLead(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	a := addImage(s, 100, 100)
	box := board.NewBox(160)
	s.InsertAt(0, box)

	Reflow(s, c, testParams())

	if box.Pos.Y >= a.Pos.Y {
		t.Errorf("box row should sit above image rows: %v vs %v", box.Pos.Y, a.Pos.Y)
	}
}

func TestReflowChainStaysTogether(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	a := addImage(s, 300, 100)
	addImage(s, 300, 100)
	d := addImage(s, 300, 100)
	c.Toggle(s, a.ID)
	c.Toggle(s, d.ID)

	p := testParams()
	p.CanvasWidth = 650 // fits a+d as one unit, not a+b
	Reflow(s, c, p)

	if a.Pos.Y != d.Pos.Y {
		t.Errorf("chain members split across rows: y %v vs %v", a.Pos.Y, d.Pos.Y)
	}
	if d.Pos.X <= a.Pos.X {
		t.Error("chain members should keep their relative order")
	}
}

func TestReflowOversizedBlockShrinks(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	b := addImage(s, 1800, 900)

	Reflow(s, c, testParams())

	if b.Size.W > 900 {
		t.Errorf("width = %v, want constrained to 900", b.Size.W)
	}
	if got := b.Size.W / b.Size.H; math.Abs(got-2) > 1e-9 {
		t.Errorf("aspect = %v, want 2 after constraint", got)
	}
}

func TestReflowExtent(t *testing.T) {
	s := board.NewStore()
	c := board.NewChains()
	addImage(s, 400, 200)

	p := testParams()
	p.Padding = 30
	ext := Reflow(s, c, p)

	if ext.W != 460 {
		t.Errorf("extent width = %v, want 460", ext.W)
	}
	if ext.H != 260 {
		t.Errorf("extent height = %v, want 260", ext.H)
	}
}

func snapshot(s *board.Store) []geom.Rect {
	var out []geom.Rect
	for _, b := range s.TopLevel() {
		out = append(out, b.Rect())
	}
	return out
}
