package imaging

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/config"
	"github.com/tilemark/blockboard/pkg/observability"
)

// Channel capacities. The result buffer exceeds the request buffer plus
// the worker count, so a Close with no consumer can never deadlock on a
// full result channel.
const (
	requestBuffer = 128
	resultBuffer  = 256
)

// Request asks the pipeline to decode one file for one block.
type Request struct {
	Block        uuid.UUID
	Path         string
	FullSequence bool
}

// Delivery is one completed decode, successful or not. Deliveries arrive
// in completion order, not submission order.
type Delivery struct {
	Block        uuid.UUID
	Path         string
	FullSequence bool
	Result       Result
	Err          error
}

// Pipeline is a fixed-size decode worker pool. Workers only read source
// files and write their own output; all shared state flows through the
// request and result channels.
type Pipeline struct {
	opts     Options
	requests chan Request
	results  chan Delivery
	wg       sync.WaitGroup
	closing  sync.Once
	logger   *log.Logger
}

// NewPipeline starts cfg.Workers decode workers.
func NewPipeline(cfg config.PipelineConfig, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	p := &Pipeline{
		opts: Options{
			MaxDimension: cfg.MaxDimension,
			FrameCap:     cfg.FrameCap,
		},
		requests: make(chan Request, requestBuffer),
		results:  make(chan Delivery, resultBuffer),
		logger:   logger,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues a decode request without blocking. Returns false when
// the request buffer is full; the caller may retry on a later tick.
func (p *Pipeline) Submit(req Request) bool {
	select {
	case p.requests <- req:
		return true
	default:
		p.logger.Warn("decode queue full, request dropped", "path", req.Path)
		return false
	}
}

// Poll drains up to max completed deliveries without blocking. A max of
// zero or less drains everything currently available.
func (p *Pipeline) Poll(max int) []Delivery {
	var out []Delivery
	for max <= 0 || len(out) < max {
		select {
		case d, ok := <-p.results:
			if !ok {
				return out
			}
			out = append(out, d)
		default:
			return out
		}
	}
	return out
}

// Close stops accepting requests, waits for in-flight decodes, and closes
// the result channel. Buffered deliveries stay pollable after Close.
func (p *Pipeline) Close() {
	p.closing.Do(func() {
		close(p.requests)
		p.wg.Wait()
		close(p.results)
	})
}

func (p *Pipeline) worker() {
	defer p.wg.Done()
	ctx := context.Background()
	for req := range p.requests {
		opts := p.opts
		opts.FullSequence = req.FullSequence

		start := time.Now()
		observability.Decode().OnDecodeStart(ctx, req.Path, req.FullSequence)
		res, err := DecodeFile(req.Path, opts)
		observability.Decode().OnDecodeComplete(ctx, req.Path, len(res.Frames), time.Since(start), err)

		if err != nil {
			p.logger.Warn("decode failed", "path", req.Path, "err", err)
		} else {
			p.logger.Debug("decoded",
				"path", req.Path,
				"frames", len(res.Frames),
				"animated", res.HasAnimation,
				"took", time.Since(start))
		}

		p.results <- Delivery{
			Block:        req.Block,
			Path:         req.Path,
			FullSequence: req.FullSequence,
			Result:       res,
			Err:          err,
		}
	}
}
