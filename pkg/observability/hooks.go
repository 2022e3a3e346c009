// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about decode execution, cache evictions, and engine
// state transitions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDecodeHooks(&myDecodeHooks{})
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Decode().OnDecodeStart(ctx, path)
//	// ... do decoding ...
//	observability.Decode().OnDecodeComplete(ctx, path, frames, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Decode Hooks
// =============================================================================

// DecodeHooks receives events from the image decode pipeline.
type DecodeHooks interface {
	// OnDecodeStart records the start of one decode task.
	OnDecodeStart(ctx context.Context, path string, fullSequence bool)

	// OnDecodeComplete records the end of one decode task.
	OnDecodeComplete(ctx context.Context, path string, frames int, duration time.Duration, err error)

	// OnResultDropped records a completed decode discarded because its
	// target block no longer exists.
	OnResultDropped(ctx context.Context, path string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the animation cache.
type CacheHooks interface {
	// OnCacheTouch records an entry insertion or recency refresh.
	OnCacheTouch(ctx context.Context, entries int)

	// OnCacheEvict records an eviction, with the number of frames released.
	OnCacheEvict(ctx context.Context, frames int)
}

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from engine state transitions.
type EngineHooks interface {
	// OnReflow records a layout pass over the given number of blocks.
	OnReflow(ctx context.Context, blocks int, duration time.Duration)

	// OnChainCleared records a chain clear, manual or by timeout.
	OnChainCleared(ctx context.Context, members int, remembered, timeout bool)

	// OnBoxPacked records a pack of the given number of blocks.
	OnBoxPacked(ctx context.Context, members int)

	// OnBoxUnpacked records an unpack releasing the given number of blocks.
	OnBoxUnpacked(ctx context.Context, members int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDecodeHooks is a no-op implementation of DecodeHooks.
type NoopDecodeHooks struct{}

func (NoopDecodeHooks) OnDecodeStart(context.Context, string, bool)                            {}
func (NoopDecodeHooks) OnDecodeComplete(context.Context, string, int, time.Duration, error)    {}
func (NoopDecodeHooks) OnResultDropped(context.Context, string)                                {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheTouch(context.Context, int) {}
func (NoopCacheHooks) OnCacheEvict(context.Context, int) {}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnReflow(context.Context, int, time.Duration)          {}
func (NoopEngineHooks) OnChainCleared(context.Context, int, bool, bool)       {}
func (NoopEngineHooks) OnBoxPacked(context.Context, int)                      {}
func (NoopEngineHooks) OnBoxUnpacked(context.Context, int)                    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	decodeHooks DecodeHooks = NoopDecodeHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	engineHooks EngineHooks = NoopEngineHooks{}
	hooksMu     sync.RWMutex
)

// SetDecodeHooks registers custom decode hooks.
// This should be called once at application startup before any decode work.
func SetDecodeHooks(h DecodeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		decodeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before the first tick.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// Decode returns the registered decode hooks.
func Decode() DecodeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return decodeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	decodeHooks = NoopDecodeHooks{}
	cacheHooks = NoopCacheHooks{}
	engineHooks = NoopEngineHooks{}
}
