// Package layout computes block geometry: the row-wrap reflow over atomic
// units, the drop-point reposition, and the center-preserving resize
// controller.
//
// An atomic unit is a single unchained block, a whole active chain, or a
// box. Units never split across rows; a chain wider than the canvas still
// lands on one row with its members shrunk to fit.
package layout

import (
	"github.com/tilemark/blockboard/pkg/config"
)

// Params are the layout tunables, extracted from the engine config.
type Params struct {
	CanvasWidth  float64
	Padding      float64
	Gap          float64
	Quantization float64
	MinBlockSize float64
}

// ParamsFrom builds layout parameters from a config.
func ParamsFrom(cfg config.Config) Params {
	return Params{
		CanvasWidth:  cfg.CanvasWidth,
		Padding:      cfg.CanvasPadding,
		Gap:          cfg.RowGap,
		Quantization: cfg.RowQuantization,
		MinBlockSize: cfg.MinBlockSize,
	}
}

// avail returns the usable inner width between the canvas margins.
func (p Params) avail() float64 {
	w := p.CanvasWidth - 2*p.Padding
	if w < p.MinBlockSize {
		w = p.MinBlockSize
	}
	return w
}
