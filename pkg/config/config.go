// Package config holds the engine's tunable parameters.
//
// All values have compiled defaults matching the reference behavior of the
// application; a TOML file can overlay any subset of them. Nonsensical
// values are clamped during validation rather than rejected, so a partially
// bad config file still yields a usable engine.
//
// Example file:
//
//	row_gap = 24.0
//	min_block_size = 50.0
//
//	[pipeline]
//	workers = 4
//	max_dimension = 420
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

// Layout defaults.
const (
	// DefaultRowGap is the horizontal and vertical spacing between blocks.
	DefaultRowGap = 24.0

	// DefaultCanvasPadding is the spacing between canvas edges and blocks.
	DefaultCanvasPadding = 32.0

	// DefaultCanvasWidth is the inner canvas width used before a viewport
	// is reported.
	DefaultCanvasWidth = 1400.0

	// DefaultMinBlockSize is the minimum width or height of any block.
	DefaultMinBlockSize = 50.0

	// DefaultMaxBlockDimension caps the intake size of decoded images.
	DefaultMaxBlockDimension = 420.0

	// DefaultBoxSize is the square size of a freshly packed box block.
	DefaultBoxSize = 160.0

	// DefaultPlaceholderSize is the square size of a block that is still
	// waiting for its first decoded frame.
	DefaultPlaceholderSize = 160.0

	// DefaultRowQuantization is the vertical step used to assign free-form
	// positions to rows during reposition.
	DefaultRowQuantization = 100.0
)

// Pipeline and cache defaults.
const (
	// DefaultFrameCap truncates animated sequences.
	DefaultFrameCap = 1024

	// DefaultAnimationCacheCap bounds the number of fully loaded animations.
	DefaultAnimationCacheCap = 20

	// DefaultAutoUnchain clears an idle chain after this duration.
	DefaultAutoUnchain = 10 * time.Second

	// maxDecodeWorkers bounds the decode pool regardless of CPU count.
	maxDecodeWorkers = 8
)

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// Config is the full set of engine tunables.
type Config struct {
	RowGap            float64 `toml:"row_gap"`
	CanvasPadding     float64 `toml:"canvas_padding"`
	CanvasWidth       float64 `toml:"canvas_width"`
	MinBlockSize      float64 `toml:"min_block_size"`
	MaxBlockDimension float64 `toml:"max_block_dimension"`
	BoxSize           float64 `toml:"box_size"`
	PlaceholderSize   float64 `toml:"placeholder_size"`
	RowQuantization   float64 `toml:"row_quantization"`

	AutoUnchainSeconds float64 `toml:"auto_unchain_seconds"`

	Pipeline PipelineConfig `toml:"pipeline"`
	Cache    CacheConfig    `toml:"cache"`
}

// PipelineConfig configures the image decode pipeline.
type PipelineConfig struct {
	Workers      int `toml:"workers"`
	MaxDimension int `toml:"max_dimension"`
	FrameCap     int `toml:"frame_cap"`
}

// CacheConfig configures the animation cache.
type CacheConfig struct {
	Capacity int `toml:"capacity"`
}

// Default returns the compiled default configuration.
func Default() Config {
	return Config{
		RowGap:             DefaultRowGap,
		CanvasPadding:      DefaultCanvasPadding,
		CanvasWidth:        DefaultCanvasWidth,
		MinBlockSize:       DefaultMinBlockSize,
		MaxBlockDimension:  DefaultMaxBlockDimension,
		BoxSize:            DefaultBoxSize,
		PlaceholderSize:    DefaultPlaceholderSize,
		RowQuantization:    DefaultRowQuantization,
		AutoUnchainSeconds: DefaultAutoUnchain.Seconds(),
		Pipeline: PipelineConfig{
			Workers:      defaultWorkers(),
			MaxDimension: int(DefaultMaxBlockDimension),
			FrameCap:     DefaultFrameCap,
		},
		Cache: CacheConfig{
			Capacity: DefaultAnimationCacheCap,
		},
	}
}

// Load reads a TOML file and overlays it onto the defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Clamp()
	return cfg, nil
}

// AutoUnchain returns the idle timeout as a duration.
func (c *Config) AutoUnchain() time.Duration {
	return time.Duration(c.AutoUnchainSeconds * float64(time.Second))
}

// MinCanvasWidth returns the smallest usable inner canvas width: one
// minimum-size block plus padding on both sides.
func (c *Config) MinCanvasWidth() float64 {
	return c.MinBlockSize + c.RowGap
}

// Clamp coerces out-of-range values back to usable ones. Called after
// loading a file so a bad value degrades to a near-default instead of
// breaking layout math.
func (c *Config) Clamp() {
	if c.RowGap < 0 {
		c.RowGap = DefaultRowGap
	}
	if c.CanvasPadding < 0 {
		c.CanvasPadding = DefaultCanvasPadding
	}
	if c.CanvasWidth < c.MinCanvasWidth() {
		c.CanvasWidth = DefaultCanvasWidth
	}
	if c.MinBlockSize <= 0 {
		c.MinBlockSize = DefaultMinBlockSize
	}
	if c.MaxBlockDimension < c.MinBlockSize {
		c.MaxBlockDimension = DefaultMaxBlockDimension
	}
	if c.BoxSize < c.MinBlockSize {
		c.BoxSize = DefaultBoxSize
	}
	if c.PlaceholderSize < c.MinBlockSize {
		c.PlaceholderSize = DefaultPlaceholderSize
	}
	if c.RowQuantization <= 0 {
		c.RowQuantization = DefaultRowQuantization
	}
	if c.AutoUnchainSeconds <= 0 {
		c.AutoUnchainSeconds = DefaultAutoUnchain.Seconds()
	}
	if c.Pipeline.Workers <= 0 || c.Pipeline.Workers > maxDecodeWorkers {
		c.Pipeline.Workers = defaultWorkers()
	}
	if c.Pipeline.MaxDimension <= 0 {
		c.Pipeline.MaxDimension = int(DefaultMaxBlockDimension)
	}
	if c.Pipeline.FrameCap <= 0 || c.Pipeline.FrameCap > DefaultFrameCap {
		c.Pipeline.FrameCap = DefaultFrameCap
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = DefaultAnimationCacheCap
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxDecodeWorkers {
		n = maxDecodeWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
