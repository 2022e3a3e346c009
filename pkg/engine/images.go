package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
	"github.com/tilemark/blockboard/pkg/imaging"
	"github.com/tilemark/blockboard/pkg/observability"
)

// AddImages inserts one placeholder block per path and enqueues first
// frame decodes. Placeholders are square until the decoded size arrives;
// each block re-sizes and the canvas reflows on delivery.
func (e *Engine) AddImages(paths []string) []uuid.UUID {
	if len(paths) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(paths))
	for _, path := range paths {
		side := e.cfg.PlaceholderSize
		b := board.NewImage(path, geom.Size{W: side, H: side})
		e.store.Insert(b)
		ids = append(ids, b.ID)
		e.submit(imaging.Request{Block: b.ID, Path: path})
	}
	e.logger.Info("images added", "count", len(paths))
	e.Reflow()
	return ids
}

// applyDelivery installs one decode result. Returns true when block
// geometry changed and a reflow is due.
func (e *Engine) applyDelivery(d imaging.Delivery) bool {
	b := e.store.Get(d.Block)
	if b == nil {
		// Deleted while decoding; drop silently.
		observability.Decode().OnResultDropped(context.Background(), d.Path)
		return false
	}

	if d.Err != nil {
		b.Display = board.DisplayError
		e.logger.Warn("block decode failed", "path", d.Path, "err", d.Err)
		return false
	}

	if d.FullSequence {
		b.ApplyFrames(d.Result.Frames, d.Result.HasAnimation, true)
		b.AnimEnabled = true
		e.touchAnimation(b.ID)
		return false
	}

	if !b.AwaitingSize {
		// Session-restored block: its persisted geometry wins, the
		// frames just fill in the pixels.
		b.ApplyFrames(d.Result.Frames, d.Result.HasAnimation, false)
		return false
	}

	// First frame of a freshly added block: fix the aspect ratio from
	// the decoded pixels and size the block to match the tallest settled
	// image, so it joins existing rows at their scale.
	bounds := d.Result.Frames[0].Image.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if w <= 0 || h <= 0 {
		b.Display = board.DisplayError
		return false
	}
	b.Aspect = w / h
	b.AwaitingSize = false

	target := e.settledMaxHeight(b.ID)
	if target <= 0 {
		target = e.capIntakeHeight(h, b.Aspect)
	}
	b.SetPreferred(geom.Size{W: target * b.Aspect, H: target})
	b.ApplyFrames(d.Result.Frames, d.Result.HasAnimation, false)
	return true
}

// capIntakeHeight shrinks the intake height until neither dimension
// exceeds the configured maximum block dimension. The pipeline already
// downsamples pixels; this keeps the logical size in range when the
// config caps blocks tighter than the decoder does.
func (e *Engine) capIntakeHeight(h, aspect float64) float64 {
	limit := e.cfg.MaxBlockDimension
	if limit <= 0 {
		return h
	}
	if h > limit {
		h = limit
	}
	if aspect > 0 && h*aspect > limit {
		h = limit / aspect
	}
	return h
}

// settledMaxHeight is the tallest preferred height among ready top-level
// image blocks, excluding the given one.
func (e *Engine) settledMaxHeight(except uuid.UUID) float64 {
	var max float64
	for _, b := range e.store.TopLevel() {
		if b.ID == except || b.IsBox() || b.Display != board.DisplayReady {
			continue
		}
		if b.Preferred.H > max {
			max = b.Preferred.H
		}
	}
	return max
}

// ToggleAnimation starts or stops playback on an animated block.
//
// Starting on a block holding only its first frame re-requests the full
// sequence from the pipeline; playback begins when it delivers. Starting
// on a fully loaded block is immediate. Either way the play refreshes the
// block's animation cache slot, which may evict the least recently played
// block back to first-frame display.
func (e *Engine) ToggleAnimation(id uuid.UUID) {
	b := e.store.Get(id)
	if b == nil || b.IsBox() || !b.HasAnimation {
		return
	}

	if b.AnimEnabled {
		b.AnimEnabled = false
		return
	}

	if b.Anim == board.AnimFull {
		b.AnimEnabled = true
		e.touchAnimation(id)
		return
	}
	e.submit(imaging.Request{Block: id, Path: b.Path, FullSequence: true})
}

// submit hands a decode request to the pipeline. A request the full
// buffer refuses is parked for the next tick instead of being lost.
func (e *Engine) submit(req imaging.Request) {
	if !e.pipe.Submit(req) {
		e.backlog = append(e.backlog, req)
	}
}

// flushBacklog resubmits parked requests in order, stopping at the first
// one the pipeline still cannot take.
func (e *Engine) flushBacklog() {
	for len(e.backlog) > 0 {
		if !e.pipe.Submit(e.backlog[0]) {
			return
		}
		e.backlog = e.backlog[1:]
	}
}

// touchAnimation refreshes the cache slot and purges whoever it evicts.
func (e *Engine) touchAnimation(id uuid.UUID) {
	victim := e.anims.Touch(id)
	if victim == uuid.Nil {
		return
	}
	v := e.store.Get(victim)
	if v == nil {
		return
	}
	frames := len(v.Frames)
	v.PurgeFrames()
	e.logger.Debug("animation evicted", "block", victim, "frames", frames)
	observability.Cache().OnCacheEvict(context.Background(), frames)
}
