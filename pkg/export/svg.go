// Package export renders a canvas snapshot as a static SVG. The output is
// deterministic for a given store state, so it doubles as a layout
// debugging surface and a golden-file format.
package export

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
)

// SVGOption configures the renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	chains    *board.Chains
	showNames bool
	scale     float64
}

// WithChains draws chain membership outlines.
func WithChains(c *board.Chains) SVGOption { return func(r *svgRenderer) { r.chains = c } }

// WithFileNames labels each image block with its source file name.
func WithFileNames() SVGOption { return func(r *svgRenderer) { r.showNames = true } }

// WithScale scales the whole output.
func WithScale(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

const (
	imageFill  = "#d8dee9"
	boxFill    = "#e5d9c3"
	strokeBase = "#4c566a"
	chainColor = "#bf616a"
)

// RenderSVG draws the top-level blocks of the store at their current
// geometry. Image pixels are not embedded; blocks render as labelled
// placeholder rectangles, which keeps the output small and reproducible.
func RenderSVG(s *board.Store, extent geom.Size, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := extent.W*r.scale, extent.H*r.scale
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		extent.W, extent.H, w, h)

	for _, b := range s.TopLevel() {
		renderBlock(&buf, s, b, &r)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBlock(buf *bytes.Buffer, s *board.Store, b *board.Block, r *svgRenderer) {
	fill := imageFill
	if b.IsBox() {
		fill = boxFill
	}
	stroke := strokeBase
	strokeWidth := 1.0
	if r.chains != nil && r.chains.Selected(s, b.ID) {
		stroke = chainColor
		strokeWidth = 3.0
	}

	rect := b.Rect()
	fmt.Fprintf(buf, `  <rect id="block-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		b.ID, rect.Min.X, rect.Min.Y, rect.Size.W, rect.Size.H, fill, stroke, strokeWidth)

	if b.IsBox() {
		label := fmt.Sprintf("box (%d)", len(b.Children))
		renderLabel(buf, rect, label)
		return
	}
	if b.Counter > 0 {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12" fill="%s">%d</text>`+"\n",
			rect.MaxX()-16, rect.Min.Y+14, strokeBase, b.Counter)
	}
	if r.showNames {
		renderLabel(buf, rect, filepath.Base(b.Path))
	}
}

// renderLabel centers a caption under the rect. File names are user
// input, so the label is XML-escaped.
func renderLabel(buf *bytes.Buffer, rect geom.Rect, label string) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="%s">%s</text>`+"\n",
		rect.Center().X, rect.MaxY()-6, strokeBase, html.EscapeString(label))
}
