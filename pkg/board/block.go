// Package board implements the canonical block collection and the
// chaining/boxing state machine of the canvas engine.
//
// A Store owns every Block (including blocks nested inside boxes) and keeps
// an ordered top-level sequence alongside an O(1) id index. Chains expresses
// the grouping state machine over ids; box operations move blocks between
// the top-level sequence and box children. All relations are id-indexed and
// resolved through the Store, never held as direct references, so deleting
// a block mid-chain cannot leave dangling pointers.
package board

import (
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/geom"
)

// Kind distinguishes the two block variants.
type Kind string

const (
	// KindImage is an ordinary image block.
	KindImage Kind = "image"
	// KindBox is a container block holding other blocks as children.
	// Boxes never nest.
	KindBox Kind = "box"
)

// AnimStatus describes how much of a block's animation is resident.
type AnimStatus string

const (
	// AnimNone marks blocks without animation (static images and boxes).
	AnimNone AnimStatus = "none"
	// AnimFirstFrame marks animated blocks holding only their first frame.
	AnimFirstFrame AnimStatus = "first-frame"
	// AnimFull marks animated blocks with the full sequence loaded.
	AnimFull AnimStatus = "full-sequence"
)

// DisplayState describes what the renderer should show for a block.
type DisplayState string

const (
	// DisplayReady means decoded pixels are available.
	DisplayReady DisplayState = "ready"
	// DisplayPending means the block is waiting for its first frame.
	DisplayPending DisplayState = "pending"
	// DisplayError means decoding failed; a placeholder is shown.
	DisplayError DisplayState = "error"
)

// Frame is one decoded animation frame.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// Block is a positioned, sized canvas entity: either a single image or a
// box containing other blocks. Geometry is in canvas space.
type Block struct {
	ID   uuid.UUID
	Kind Kind
	Path string

	Pos       geom.Point
	Size      geom.Size // current display size, mutated by reflow
	Preferred geom.Size // user-chosen size, the reflow input
	Aspect    float64   // width / height, fixed at creation

	// ChainID is the active chain this block belongs to, or uuid.Nil.
	ChainID uuid.UUID

	// Counter is the user-facing tally badge. Image blocks only.
	Counter int

	// Children holds the ids of nested blocks, in order. Box blocks only.
	Children []uuid.UUID

	// Animation state. Frames holds at least the first frame once decoded.
	Frames       []Frame
	HasAnimation bool
	AnimEnabled  bool
	Anim         AnimStatus
	Display      DisplayState

	// AwaitingSize marks a freshly added block whose geometry is still
	// the placeholder; the first decoded frame fixes aspect and size.
	// Blocks restored from a session keep their persisted geometry and
	// never carry this flag.
	AwaitingSize bool

	Dragging bool
}

// NewImage creates an image block with the given source path and intake
// size. The aspect ratio is fixed from the size and survives all later
// resizing.
func NewImage(path string, size geom.Size) *Block {
	return &Block{
		ID:           uuid.New(),
		Kind:         KindImage,
		Path:         path,
		Size:         size,
		Preferred:    size,
		Aspect:       size.AspectRatio(),
		Anim:         AnimNone,
		Display:      DisplayPending,
		AwaitingSize: true,
	}
}

// NewBox creates an empty box block of the given square size.
func NewBox(size float64) *Block {
	return &Block{
		ID:        uuid.New(),
		Kind:      KindBox,
		Size:      geom.Size{W: size, H: size},
		Preferred: geom.Size{W: size, H: size},
		Aspect:    1,
		Anim:      AnimNone,
		Display:   DisplayReady,
	}
}

// Rect returns the block's bounding rectangle at its display size.
func (b *Block) Rect() geom.Rect {
	return geom.RectFrom(b.Pos, b.Size)
}

// Chained reports whether the block belongs to an active chain.
func (b *Block) Chained() bool {
	return b.ChainID != uuid.Nil
}

// IsBox reports whether the block is a box container.
func (b *Block) IsBox() bool {
	return b.Kind == KindBox
}

// SetPreferred sets both the preferred and the display size.
func (b *Block) SetPreferred(size geom.Size) {
	b.Preferred = size
	b.Size = size
}

// ResetToPreferred restores the display size from the preferred size.
// Reflow calls this first so repeated reflows are idempotent.
func (b *Block) ResetToPreferred() {
	b.Size = b.Preferred
}

// ConstrainToWidth shrinks the display size to fit maxWidth, preserving
// the aspect ratio. No-op when the block already fits.
func (b *Block) ConstrainToWidth(maxWidth float64) {
	if b.Size.W <= maxWidth {
		return
	}
	w := maxWidth
	if w < 1 {
		w = 1
	}
	b.Size = geom.Size{W: w, H: w / b.Aspect}
}

// ApplyFrames installs decoded frames on the block and updates the
// animation bookkeeping. full marks a complete sequence delivery.
func (b *Block) ApplyFrames(frames []Frame, hasAnimation, full bool) {
	b.Frames = frames
	b.HasAnimation = hasAnimation
	b.Display = DisplayReady
	switch {
	case !hasAnimation:
		b.Anim = AnimNone
	case full:
		b.Anim = AnimFull
	default:
		b.Anim = AnimFirstFrame
	}
	if !full {
		b.AnimEnabled = false
	}
}

// PurgeFrames drops everything but the first frame and stops playback.
// Used by the animation cache on eviction.
func (b *Block) PurgeFrames() {
	if len(b.Frames) > 1 {
		b.Frames = b.Frames[:1]
	}
	if b.Anim == AnimFull {
		b.Anim = AnimFirstFrame
	}
	b.AnimEnabled = false
}
