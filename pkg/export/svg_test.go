package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
)

func testStore() (*board.Store, *board.Chains) {
	s := board.NewStore()
	c := board.NewChains()
	a := board.NewImage("photos/cat.png", geom.Size{W: 200, H: 100})
	a.Pos = geom.Point{X: 10, Y: 10}
	a.Counter = 2
	b := board.NewImage("dog.gif", geom.Size{W: 100, H: 100})
	b.Pos = geom.Point{X: 220, Y: 10}
	s.Insert(a)
	s.Insert(b)
	c.Toggle(s, a.ID)
	c.Toggle(s, b.ID)
	return s, c
}

func TestRenderSVGBasics(t *testing.T) {
	s, _ := testStore()
	out := string(RenderSVG(s, geom.Size{W: 400, H: 200}))

	if !strings.HasPrefix(out, "<svg ") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("output is not a complete SVG document")
	}
	if !strings.Contains(out, `viewBox="0 0 400.0 200.0"`) {
		t.Errorf("viewBox missing or wrong: %s", out[:100])
	}
	if got := strings.Count(out, "<rect "); got != 2 {
		t.Errorf("rect count = %d, want 2", got)
	}
	if !strings.Contains(out, ">2</text>") {
		t.Error("counter badge missing")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	s, c := testStore()
	first := RenderSVG(s, geom.Size{W: 400, H: 200}, WithChains(c), WithFileNames())
	second := RenderSVG(s, geom.Size{W: 400, H: 200}, WithChains(c), WithFileNames())
	if !bytes.Equal(first, second) {
		t.Error("same state rendered differently")
	}
}

func TestRenderSVGChainOutline(t *testing.T) {
	s, c := testStore()
	plain := string(RenderSVG(s, geom.Size{W: 400, H: 200}))
	chained := string(RenderSVG(s, geom.Size{W: 400, H: 200}, WithChains(c)))

	if strings.Contains(plain, chainColor) {
		t.Error("chain color leaked into a render without chains")
	}
	if got := strings.Count(chained, chainColor); got != 2 {
		t.Errorf("chained outlines = %d, want 2", got)
	}
}

func TestRenderSVGFileNames(t *testing.T) {
	s, _ := testStore()
	out := string(RenderSVG(s, geom.Size{W: 400, H: 200}, WithFileNames()))
	if !strings.Contains(out, ">cat.png</text>") {
		t.Error("file name label missing or not basename")
	}
	if strings.Contains(out, "photos/") {
		t.Error("label should use the basename only")
	}
}

func TestRenderSVGEscapesFileNames(t *testing.T) {
	s := board.NewStore()
	b := board.NewImage("cats & <dogs>.png", geom.Size{W: 100, H: 100})
	s.Insert(b)

	out := string(RenderSVG(s, geom.Size{W: 200, H: 200}, WithFileNames()))
	if !strings.Contains(out, ">cats &amp; &lt;dogs&gt;.png</text>") {
		t.Error("label with markup characters must be escaped")
	}
	if strings.Contains(out, "<dogs>") {
		t.Error("raw markup leaked into the SVG")
	}
}

func TestRenderSVGBoxLabel(t *testing.T) {
	s := board.NewStore()
	box := board.NewBox(160)
	s.Insert(box)
	nested := board.NewImage("x.png", geom.Size{W: 10, H: 10})
	s.Adopt(box.ID, nested)

	out := string(RenderSVG(s, geom.Size{W: 200, H: 200}))
	if !strings.Contains(out, ">box (1)</text>") {
		t.Error("box child count label missing")
	}
	// Nested blocks do not render at the top level.
	if got := strings.Count(out, "<rect "); got != 1 {
		t.Errorf("rect count = %d, want 1", got)
	}
}

func TestRenderSVGScale(t *testing.T) {
	s, _ := testStore()
	out := string(RenderSVG(s, geom.Size{W: 400, H: 200}, WithScale(2)))
	if !strings.Contains(out, `width="800" height="400"`) {
		t.Error("scale not applied to output dimensions")
	}
}
