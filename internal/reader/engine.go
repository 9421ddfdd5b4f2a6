package reader

import (
	"context"
	"image"

	"github.com/betarho/zxscan/internal/barcode"
)

// Engine is the decode boundary: the one place where pixel-level symbol
// detection and decoding happens. It mirrors the two entry points of the
// native decoder, one for raw buffer descriptors and one for in-memory
// bitmaps; both take the same normalized (crop, rotation, options) shape.
//
// A nil result slice and an empty one both mean "no symbol found"; neither
// is an error. Engines must not retain or mutate the pixel data they are
// handed.
//
// Engines are not required to be safe for concurrent invocation; callers
// sharing one Reader across goroutines must either serialize reads
// themselves or confirm the engine tolerates concurrency.
type Engine interface {
	// DecodeView decodes from a raw pixel buffer descriptor.
	DecodeView(ctx context.Context, view barcode.ImageView, crop image.Rectangle, rotation int, opts barcode.Options) ([]barcode.Result, error)

	// DecodeImage decodes from a packed-pixel bitmap.
	DecodeImage(ctx context.Context, img image.Image, crop image.Rectangle, rotation int, opts barcode.Options) ([]barcode.Result, error)

	// Contract reports the engine's view of the shared enum tag counts.
	Contract() barcode.Contract
}
