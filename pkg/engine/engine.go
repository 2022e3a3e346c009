// Package engine is the canvas block engine: the single-writer facade the
// UI shell drives with intents.
//
// All state mutation funnels through one cooperative tick. User intents
// (drag, resize, chain toggles, box operations) mutate the block store
// synchronously; decode results and the auto-unchain timeout are applied
// on the next Tick. The decode pipeline is the only other concurrent
// actor and communicates exclusively through its result channel.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/cache"
	"github.com/tilemark/blockboard/pkg/config"
	"github.com/tilemark/blockboard/pkg/geom"
	"github.com/tilemark/blockboard/pkg/imaging"
	"github.com/tilemark/blockboard/pkg/layout"
	"github.com/tilemark/blockboard/pkg/observability"
)

// Clock supplies the current time. Injectable so the auto-unchain timeout
// is testable without sleeping.
type Clock func() time.Time

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithPipeline replaces the decode pipeline. Tests use this to run the
// engine without worker goroutines.
func WithPipeline(p *imaging.Pipeline) Option {
	return func(e *Engine) { e.pipe = p }
}

// Engine owns all canvas state.
type Engine struct {
	cfg    config.Config
	store  *board.Store
	chains *board.Chains
	anims  *cache.Animations
	pipe   *imaging.Pipeline

	logger *log.Logger
	now    Clock

	// View transform. The inner canvas width derives from the window
	// width and the zoom factor.
	windowWidth float64
	zoom        float64
	pan         geom.Point
	extent      geom.Size

	// Gesture state. At most one drag or resize runs at a time.
	drag   *dragState
	resize *layout.Resize

	// backlog holds decode requests the pipeline's request buffer
	// refused. Tick resubmits them in order until they fit.
	backlog []imaging.Request

	// lastActivity is the most recent drag, resize, or toggle touching
	// the active chain; the auto-unchain timeout counts from here.
	lastActivity time.Time

	// Smart-toggle memory: the most recently created box and the ids
	// most recently released by an unpack.
	lastBoxed   uuid.UUID
	lastUnboxed []uuid.UUID
}

// New creates an engine with an empty canvas.
func New(cfg config.Config, opts ...Option) *Engine {
	cfg.Clamp()
	e := &Engine{
		cfg:         cfg,
		store:       board.NewStore(),
		chains:      board.NewChains(),
		anims:       cache.NewAnimations(cfg.Cache.Capacity),
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
		now:         time.Now,
		windowWidth: cfg.CanvasWidth,
		zoom:        1.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pipe == nil {
		e.pipe = imaging.NewPipeline(cfg.Pipeline, e.logger)
	}
	return e
}

// Close shuts down the decode pipeline.
func (e *Engine) Close() {
	if e.pipe != nil {
		e.pipe.Close()
	}
}

// Store exposes the block store for rendering. Read-only by convention.
func (e *Engine) Store() *board.Store { return e.store }

// Chains exposes the grouping state for rendering. Read-only by convention.
func (e *Engine) Chains() *board.Chains { return e.chains }

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Extent returns the content bounds from the last reflow.
func (e *Engine) Extent() geom.Size { return e.extent }

// Tick applies pending asynchronous work: decode deliveries and the
// chain inactivity timeout. Call once per frame. Never blocks.
func (e *Engine) Tick() {
	e.flushBacklog()
	changed := false
	for _, d := range e.pipe.Poll(0) {
		if e.applyDelivery(d) {
			changed = true
		}
	}
	if changed {
		e.Reflow()
	}
	e.checkAutoUnchain()
}

// checkAutoUnchain clears the active chain after the configured idle
// period, remembering it like a manual cancel.
func (e *Engine) checkAutoUnchain() {
	if e.chains.Active() == uuid.Nil {
		return
	}
	idle := e.now().Sub(e.lastActivity)
	if idle < e.cfg.AutoUnchain() {
		return
	}
	members := len(e.chains.Members(e.store))
	e.chains.Clear(e.store)
	e.logger.Debug("chain auto-cleared", "members", members, "idle", idle)
	observability.Engine().OnChainCleared(context.Background(), members, members >= 2, true)
}

// touchChain marks chain activity now, deferring the auto-unchain.
func (e *Engine) touchChain() {
	e.lastActivity = e.now()
}

// Reflow recomputes the layout and records the content extent.
func (e *Engine) Reflow() {
	start := e.now()
	e.extent = layout.Reflow(e.store, e.chains, e.layoutParams())
	observability.Engine().OnReflow(context.Background(), e.store.Len(), e.now().Sub(start))
}

func (e *Engine) layoutParams() layout.Params {
	p := layout.ParamsFrom(e.cfg)
	p.CanvasWidth = e.canvasWidth()
	return p
}

// canvasWidth is the inner layout width: window width divided by zoom,
// floored so at least one minimum block fits.
func (e *Engine) canvasWidth() float64 {
	w := e.windowWidth / e.zoom
	if min := e.cfg.MinCanvasWidth(); w < min {
		w = min
	}
	return w
}

// SetCanvasWidth reports a new window width and reflows.
func (e *Engine) SetCanvasWidth(px float64) {
	if px <= 0 || px == e.windowWidth {
		return
	}
	e.windowWidth = px
	e.Reflow()
}

// SetZoom sets the zoom factor, clamped to the supported range, and
// reflows since the derived canvas width changes with it.
func (e *Engine) SetZoom(factor float64) {
	if factor < config.MinZoom {
		factor = config.MinZoom
	}
	if factor > config.MaxZoom {
		factor = config.MaxZoom
	}
	if factor == e.zoom {
		return
	}
	e.zoom = factor
	e.Reflow()
}

// Zoom returns the current zoom factor.
func (e *Engine) Zoom() float64 { return e.zoom }

// Pan shifts the view offset. Pure view state; no reflow.
func (e *Engine) Pan(delta geom.Point) {
	e.pan = e.pan.Add(delta.X, delta.Y)
}

// PanOffset returns the current view offset.
func (e *Engine) PanOffset() geom.Point { return e.pan }

// SetView restores a persisted view transform.
func (e *Engine) SetView(pan geom.Point, zoom float64) {
	e.pan = pan
	if zoom < config.MinZoom {
		zoom = config.MinZoom
	}
	if zoom > config.MaxZoom {
		zoom = config.MaxZoom
	}
	e.zoom = zoom
}
