// Package imaging decodes image files off the interaction thread.
//
// DecodeFile handles the synchronous work: decode, downsample, frame-cap.
// Pipeline wraps it in a worker pool that delivers results through a
// channel the engine drains once per tick.
//
// Supported formats: PNG, JPEG, GIF (animated), WebP, BMP, TIFF. Animated
// WebP is not supported; such files decode to their first frame.
package imaging

import (
	"bytes"
	"image"
	"image/gif"
	"os"
	"time"

	"golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tilemark/blockboard/pkg/board"
	"github.com/tilemark/blockboard/pkg/errors"
)

// Options controls one decode task.
type Options struct {
	// MaxDimension downsamples any frame whose larger side exceeds it.
	// Zero disables downsampling.
	MaxDimension int

	// FrameCap truncates animated sequences. Zero means no cap.
	FrameCap int

	// FullSequence decodes every animation frame instead of just the
	// first one.
	FullSequence bool
}

// Result is the output of one decode task. Frames always holds at least
// one frame on success.
type Result struct {
	Frames       []board.Frame
	HasAnimation bool
}

// DecodeFile reads and decodes an image file.
//
// Static formats yield a single frame. GIFs yield the first frame, or the
// full composited sequence when opts.FullSequence is set; HasAnimation
// reports whether more than one frame exists in the source either way.
func DecodeFile(path string, opts Options) (Result, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Result{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeDecodeFailed, err, "read %s", path)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err == image.ErrFormat {
		return Result{}, errors.Wrap(errors.ErrCodeUnsupportedFormat, err, "decode %s", path)
	}
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", path)
	}

	if format == "gif" {
		return decodeGIF(path, data, opts)
	}
	return Result{
		Frames: []board.Frame{{Image: downsample(img, opts.MaxDimension)}},
	}, nil
}

func decodeGIF(path string, data []byte, opts Options) (Result, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", path)
	}
	if len(g.Image) == 0 {
		return Result{}, errors.New(errors.ErrCodeDecodeFailed, "decode %s: no frames", path)
	}

	animated := len(g.Image) > 1
	count := len(g.Image)
	if !opts.FullSequence {
		count = 1
	}
	if opts.FrameCap > 0 && count > opts.FrameCap {
		count = opts.FrameCap
	}

	// GIF frames can be partial updates; composite them onto a shared
	// canvas so every delivered frame is complete.
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]board.Frame, 0, count)
	for i := 0; i < count; i++ {
		src := g.Image[i]
		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(bounds)
		copy(snapshot.Pix, canvas.Pix)

		var delay time.Duration
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		frames = append(frames, board.Frame{
			Image:    downsample(snapshot, opts.MaxDimension),
			Duration: delay,
		})
	}
	return Result{Frames: frames, HasAnimation: animated}, nil
}

// downsample scales img so its larger side fits maxDim. Images already
// within bounds are returned untouched.
func downsample(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if maxDim <= 0 || longest <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longest)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
