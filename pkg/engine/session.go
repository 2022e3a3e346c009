package engine

import (
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/cache"
	"github.com/tilemark/blockboard/pkg/imaging"
	"github.com/tilemark/blockboard/pkg/session"
)

// SaveSession captures the full canvas state as a document.
func (e *Engine) SaveSession() session.Document {
	doc := session.Build(e.store, e.chains, session.View{Pan: e.pan, Zoom: e.zoom})
	doc.LastBoxed = e.lastBoxed
	doc.LastUnboxed = e.lastUnboxed
	return doc
}

// LoadSession replaces the canvas with the document's state. Restored
// image blocks come back as pending skeletons at their persisted
// geometry; decoding is re-requested for each, full-sequence for blocks
// saved mid-playback. Returns the number of skipped invalid entries.
func (e *Engine) LoadSession(doc session.Document) int {
	s, c, skipped := session.Apply(doc, e.logger)
	e.store = s
	e.chains = c
	e.anims = cache.NewAnimations(e.cfg.Cache.Capacity)
	e.drag = nil
	e.resize = nil
	e.backlog = nil
	e.restoreBoxMemory(doc)
	e.SetView(doc.View.Pan, doc.View.Zoom)

	for _, id := range e.store.OrderedIDs() {
		e.requestRestoredDecode(id)
		for _, child := range e.store.Get(id).Children {
			e.requestRestoredDecode(child)
		}
	}

	// A chain restored from the document starts its idle clock now.
	e.touchChain()
	e.Reflow()
	e.logger.Info("session loaded", "blocks", e.store.Len(), "skipped", skipped)
	return skipped
}

// restoreBoxMemory revalidates the persisted box toggle memory against
// the restored store. A stale id drops silently.
func (e *Engine) restoreBoxMemory(doc session.Document) {
	e.lastBoxed = uuid.Nil
	e.lastUnboxed = nil

	if b := e.store.Get(doc.LastBoxed); b != nil && b.IsBox() {
		e.lastBoxed = doc.LastBoxed
	}
	for _, id := range doc.LastUnboxed {
		if b := e.store.Get(id); b != nil && !b.IsBox() {
			e.lastUnboxed = append(e.lastUnboxed, id)
		}
	}
	if len(e.lastUnboxed) < 2 {
		e.lastUnboxed = nil
	}
}

func (e *Engine) requestRestoredDecode(id uuid.UUID) {
	b := e.store.Get(id)
	if b == nil || b.IsBox() {
		return
	}
	wantFull := b.AnimEnabled
	b.AnimEnabled = false // restored once the full sequence delivers
	e.submit(imaging.Request{Block: id, Path: b.Path, FullSequence: wantFull})
}
