// Package reader normalizes heterogeneous image inputs into one canonical
// decode request and marshals engine results back to callers. It performs
// no pixel work itself: streamed luma frames and bitmaps are validated,
// given a normalized crop and rotation, and handed to the decode engine.
package reader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/betarho/zxscan/internal/barcode"
)

// ErrNilEngine is returned by New when no engine is supplied.
var ErrNilEngine = errors.New("reader: engine must not be nil")

// Reader owns a current Options value and dispatches reads to its engine.
//
// The options field is guarded by a mutex: concurrent SetOptions and reads
// are last-write-visible with no atomicity across a single decode call.
// Reads themselves are not serialized; see Engine for the concurrency
// contract at the boundary.
type Reader struct {
	engine Engine
	cap    Capability

	mu   sync.Mutex
	opts barcode.Options
}

// Option configures a Reader at construction.
type Option func(*Reader)

// WithCapability fixes the frame-format allow-list capability level.
func WithCapability(c Capability) Option {
	return func(r *Reader) { r.cap = c }
}

// WithOptions sets the initial decode options.
func WithOptions(opts barcode.Options) Option {
	return func(r *Reader) { r.opts = opts }
}

// New builds a Reader around a decode engine. The engine's enum tag
// contract is verified here so a drifted enum table fails at startup.
func New(engine Engine, options ...Option) (*Reader, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	r := &Reader{
		engine: engine,
		cap:    CapabilityFull,
		opts:   barcode.DefaultOptions(),
	}
	for _, o := range options {
		o(r)
	}
	if err := barcode.Verify(engine.Contract()); err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	return r, nil
}

// Options returns the current decode options.
func (r *Reader) Options() barcode.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// SetOptions replaces the current decode options. A read already in flight
// keeps the options it observed at invocation time.
func (r *Reader) SetOptions(opts barcode.Options) {
	r.mu.Lock()
	r.opts = opts
	r.mu.Unlock()
}

// Capability returns the capability level the Reader was built with.
func (r *Reader) Capability() Capability { return r.cap }

// SupportedFrameFormats returns this Reader's frame-format allow-list.
func (r *Reader) SupportedFrameFormats() []FrameFormat {
	return SupportedFrameFormats(r.cap)
}

// ReadFrame decodes a streamed luma frame using the current options.
func (r *Reader) ReadFrame(ctx context.Context, f Frame) ([]barcode.Result, error) {
	return r.ReadFrameOptions(ctx, f, r.Options())
}

// ReadFrameOptions decodes a streamed luma frame with explicit options.
//
// The frame's declared format must be on the allow-list; anything else is a
// caller contract error reported before the engine is invoked. The luma
// plane, stride, crop and rotation pass through to the engine unchanged.
func (r *Reader) ReadFrameOptions(ctx context.Context, f Frame, opts barcode.Options) ([]barcode.Result, error) {
	allowed := SupportedFrameFormats(r.cap)
	if !frameFormatAllowed(f.Format, allowed) {
		return nil, fmt.Errorf("reader: unsupported frame format %s (supported: %s)",
			f.Format, frameFormatList(allowed))
	}
	view := barcode.NewLumView(f.Y, f.Width, f.Height, f.RowStride)
	if err := view.Validate(); err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	crop := normalizeCrop(f.Crop, image.Rect(0, 0, f.Width, f.Height))
	results, err := r.engine.DecodeView(ctx, view, crop, f.Rotation, opts)
	if err != nil {
		return nil, fmt.Errorf("reader: decode failed: %w", err)
	}
	return results, nil
}

// ReadImage decodes a bitmap with the current options, full-frame crop and
// no rotation.
func (r *Reader) ReadImage(ctx context.Context, img image.Image) ([]barcode.Result, error) {
	return r.ReadImageRegion(ctx, img, r.Options(), image.Rectangle{}, 0)
}

// ReadImageOptions decodes a bitmap with explicit options, full-frame crop
// and no rotation.
func (r *Reader) ReadImageOptions(ctx context.Context, img image.Image, opts barcode.Options) ([]barcode.Result, error) {
	return r.ReadImageRegion(ctx, img, opts, image.Rectangle{}, 0)
}

// ReadImageRegion decodes a sub-rectangle of a bitmap. An empty crop means
// the full bitmap. The bitmap reference is forwarded to the engine as-is;
// no pixel validation or copying happens on this path.
func (r *Reader) ReadImageRegion(ctx context.Context, img image.Image, opts barcode.Options, crop image.Rectangle, rotation int) ([]barcode.Result, error) {
	if img == nil {
		return nil, errors.New("reader: image must not be nil")
	}
	crop = normalizeCrop(crop, img.Bounds())
	results, err := r.engine.DecodeImage(ctx, img, crop, rotation, opts)
	if err != nil {
		return nil, fmt.Errorf("reader: decode failed: %w", err)
	}
	return results, nil
}

// normalizeCrop defaults an empty rectangle to the full bounds and clamps
// everything else to them.
func normalizeCrop(crop, bounds image.Rectangle) image.Rectangle {
	if crop.Empty() {
		return bounds
	}
	return crop.Intersect(bounds)
}

func frameFormatAllowed(f FrameFormat, allowed []FrameFormat) bool {
	for _, a := range allowed {
		if f == a {
			return true
		}
	}
	return false
}
