// Package pkg provides the core libraries for the Blockboard canvas engine.
//
// # Overview
//
// Blockboard arranges image blocks on an infinite whiteboard canvas. Blocks
// flow into height-normalized rows, can be chained into groups that move and
// lay out together, and can be packed into box containers. The pkg directory
// is organized by concern:
//
//	Image files
//	     ↓
//	[imaging] package (async decode pipeline)
//	     ↓
//	[board] package (blocks, chains, boxes, ordering)
//	     ↓
//	[layout] package (reflow, reposition, resize)
//	     ↓
//	[engine] package (tick loop tying it all together)
//
// # Main Packages
//
// [board] - The data model: blocks and their ordered store, the chain
// grouping state machine with remembered chains, and box pack/unpack.
//
// [layout] - Pure layout math over the store: row-based reflow with
// per-row height normalization, quantized drop repositioning, and
// center-preserving corner resize.
//
// [engine] - The single-writer engine. Owns the store, polls the decode
// pipeline each tick, expires idle chains, and exposes user intents
// (drag, resize, chain, box, counters, animation, session load/save).
//
// [imaging] - Worker-pool image decoding with bounded queues. Static
// formats decode once; animated GIFs decode first-frame eagerly and
// full-sequence on demand.
//
// [cache] - The bounded least-recently-played animation cache.
//
// [session] - JSON persistence of the whole canvas, tolerant of
// malformed entries on load.
//
// [export] - Deterministic SVG snapshots of a board.
//
// [config] - TOML-backed engine tunables with clamped validation.
//
// [observability] - Pluggable hook registries for decode, cache, and
// engine events.
//
// [geom], [errors], [buildinfo] - Geometry primitives, coded errors, and
// build-time version information.
//
// # Quick Start
//
// Run an engine, add images, and save the session:
//
//	eng := engine.New(config.Default())
//	defer eng.Close()
//
//	eng.AddImages([]string{"a.png", "b.gif"})
//	for i := 0; i < 10; i++ {
//	    eng.Tick() // applies decode deliveries, reflows, expires idle chains
//	}
//	session.SaveFile("board.json", eng.SaveSession())
//
// [board]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/board
// [layout]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/layout
// [engine]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/engine
// [imaging]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/imaging
// [cache]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/cache
// [session]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/session
// [export]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/export
// [config]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/config
// [observability]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/observability
// [geom]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/geom
// [errors]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/tilemark/blockboard/pkg/buildinfo
package pkg
