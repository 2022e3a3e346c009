// Package session persists and restores the canvas: the ordered block
// collection with nested box children, remembered chains, and the view
// transform.
//
// A Document is built from live engine state on save and fully replaces
// it on load. The core guarantees round-trip fidelity of the document
// fields; consumers treat it as an opaque JSON structure.
//
// Loading is forgiving: malformed or unrecognized entries are skipped
// with a warning and the valid remainder still loads.
package session

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/geom"
)

// Version is the current document schema version.
const Version = 1

// Document is the serializable canvas state.
type Document struct {
	Version          int           `json:"version"`
	Blocks           []BlockDoc    `json:"blocks"`
	RememberedChains [][]uuid.UUID `json:"remembered_chains,omitempty"`
	View             View          `json:"view"`

	// Box toggle memory, so the smart toggle keeps alternating across a
	// save/load cycle. Both may be absent or stale; loaders must validate
	// against the restored blocks.
	LastBoxed   uuid.UUID   `json:"last_boxed,omitempty"`
	LastUnboxed []uuid.UUID `json:"last_unboxed,omitempty"`
}

// BlockDoc is one persisted block. Box entries carry their children
// inline; children never carry children of their own.
type BlockDoc struct {
	ID       uuid.UUID  `json:"id"`
	Kind     board.Kind `json:"kind"`
	Path     string     `json:"path,omitempty"`
	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`
	Aspect   float64    `json:"aspect_ratio"`
	Counter  int        `json:"counter,omitempty"`
	Chained  bool       `json:"chained,omitempty"`
	Animated bool       `json:"animation_enabled,omitempty"`
	Children []BlockDoc `json:"children,omitempty"`
}

// View is the persisted view transform.
type View struct {
	Pan  geom.Point `json:"pan"`
	Zoom float64    `json:"zoom"`
}

// Build captures the store and grouping state into a document.
func Build(s *board.Store, c *board.Chains, view View) Document {
	doc := Document{Version: Version, View: view}
	active := c.MemberSet(s)
	for _, b := range s.TopLevel() {
		entry := blockDoc(b, active)
		for _, childID := range b.Children {
			if child := s.Get(childID); child != nil {
				entry.Children = append(entry.Children, blockDoc(child, active))
			}
		}
		doc.Blocks = append(doc.Blocks, entry)
	}
	for _, set := range c.Remembered() {
		ids := make([]uuid.UUID, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		doc.RememberedChains = append(doc.RememberedChains, ids)
	}
	return doc
}

func blockDoc(b *board.Block, active board.IDSet) BlockDoc {
	return BlockDoc{
		ID:       b.ID,
		Kind:     b.Kind,
		Path:     b.Path,
		Position: b.Pos,
		Size:     b.Preferred,
		Aspect:   b.Aspect,
		Counter:  b.Counter,
		Chained:  active.Contains(b.ID),
		Animated: b.AnimEnabled,
	}
}

// Apply rebuilds a store and grouping state from a document. Invalid
// entries (bad kind, degenerate size, duplicate or missing id, nested
// boxes) are skipped with a warning; the returned count says how many.
//
// Restored image blocks hold no pixels yet: the caller re-requests
// decoding for them, so they come back as pending skeletons.
func Apply(doc Document, logger *log.Logger) (*board.Store, *board.Chains, int) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := board.NewStore()
	c := board.NewChains()
	skipped := 0
	var chained []uuid.UUID

	for _, entry := range doc.Blocks {
		b, ok := restoreBlock(entry, s, logger)
		if !ok {
			skipped++
			continue
		}
		s.Insert(b)
		if entry.Chained {
			chained = append(chained, b.ID)
		}
		for _, childEntry := range entry.Children {
			if !b.IsBox() || childEntry.Kind == board.KindBox {
				logger.Warn("session: skipping invalid nested block", "id", childEntry.ID)
				skipped++
				continue
			}
			child, ok := restoreBlock(childEntry, s, logger)
			if !ok {
				skipped++
				continue
			}
			s.Adopt(b.ID, child)
			if childEntry.Chained {
				// Nested blocks cannot be chained; drop the flag.
				logger.Warn("session: ignoring chain flag on nested block", "id", child.ID)
			}
		}
	}

	if len(chained) >= 2 {
		c.ActivateSet(s, board.NewIDSet(chained...))
	}

	var sets []board.IDSet
	for _, ids := range doc.RememberedChains {
		set := board.NewIDSet()
		for _, id := range ids {
			if s.Get(id) != nil {
				set[id] = struct{}{}
			}
		}
		sets = append(sets, set)
	}
	c.SetRemembered(sets)

	return s, c, skipped
}

func restoreBlock(entry BlockDoc, s *board.Store, logger *log.Logger) (*board.Block, bool) {
	if entry.ID == uuid.Nil || s.Get(entry.ID) != nil {
		logger.Warn("session: skipping block with missing or duplicate id", "id", entry.ID)
		return nil, false
	}
	if entry.Kind != board.KindImage && entry.Kind != board.KindBox {
		logger.Warn("session: skipping block with unknown kind", "id", entry.ID, "kind", entry.Kind)
		return nil, false
	}
	if entry.Size.W <= 0 || entry.Size.H <= 0 {
		logger.Warn("session: skipping block with degenerate size", "id", entry.ID)
		return nil, false
	}
	if entry.Kind == board.KindImage && entry.Path == "" {
		logger.Warn("session: skipping image block without a path", "id", entry.ID)
		return nil, false
	}

	var b *board.Block
	if entry.Kind == board.KindBox {
		b = board.NewBox(entry.Size.W)
		b.Preferred = entry.Size
		b.Size = entry.Size
	} else {
		b = board.NewImage(entry.Path, entry.Size)
		b.AnimEnabled = entry.Animated
	}
	b.ID = entry.ID
	b.Pos = entry.Position
	b.Counter = entry.Counter
	b.AwaitingSize = false // persisted geometry wins over decoded size
	if entry.Aspect > 0 {
		b.Aspect = entry.Aspect
	}
	return b, true
}
