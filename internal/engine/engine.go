// Package engine provides the in-process decode engine behind the reader's
// decode boundary, built on the gozxing port of ZXing. It owns all
// pixel-level work: cropping, rotation, optional downscaling and inversion,
// binarization and symbol decoding.
package engine

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/disintegration/imaging"
)

// ZXing is a gozxing-backed decode engine. The zero value is not usable;
// construct with New.
type ZXing struct{}

// New returns a ready-to-use gozxing engine.
func New() *ZXing { return &ZXing{} }

// Contract reports the enum tag counts this engine was built against.
func (e *ZXing) Contract() barcode.Contract { return barcode.CurrentContract() }

// SupportedFormats lists the symbologies this engine can decode.
func (e *ZXing) SupportedFormats() barcode.FormatSet {
	return barcode.NewFormatSet(
		barcode.FormatAztec, barcode.FormatCodabar, barcode.FormatCode39,
		barcode.FormatCode93, barcode.FormatCode128, barcode.FormatDataBar,
		barcode.FormatDataBarExpanded, barcode.FormatDataMatrix,
		barcode.FormatEAN8, barcode.FormatEAN13, barcode.FormatITF,
		barcode.FormatMaxiCode, barcode.FormatPDF417, barcode.FormatQRCode,
		barcode.FormatUPCA, barcode.FormatUPCE,
	)
}

// DecodeView decodes from a raw buffer descriptor. Lum buffers are wrapped
// as grayscale images and RGBA buffers as RGBA images, both without copying
// the pixel data.
func (e *ZXing) DecodeView(ctx context.Context, view barcode.ImageView, crop image.Rectangle, rotation int, opts barcode.Options) ([]barcode.Result, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	img, err := wrapView(view)
	if err != nil {
		return nil, err
	}
	return e.decode(ctx, img, crop, rotation, opts)
}

// DecodeImage decodes from a packed-pixel bitmap.
func (e *ZXing) DecodeImage(ctx context.Context, img image.Image, crop image.Rectangle, rotation int, opts barcode.Options) ([]barcode.Result, error) {
	if img == nil {
		return nil, fmt.Errorf("engine: image must not be nil")
	}
	return e.decode(ctx, img, crop, rotation, opts)
}

// wrapView builds an image.Image view over the buffer without copying.
func wrapView(view barcode.ImageView) (image.Image, error) {
	rect := image.Rect(0, 0, view.Width, view.Height)
	switch view.Format {
	case barcode.ImageFormatLum:
		return &image.Gray{Pix: view.Pix, Stride: view.RowStride, Rect: rect}, nil
	case barcode.ImageFormatRGBA:
		return &image.RGBA{Pix: view.Pix, Stride: view.RowStride, Rect: rect}, nil
	default:
		return nil, fmt.Errorf("engine: unsupported buffer layout %s (supported: %s, %s)",
			view.Format, barcode.ImageFormatLum, barcode.ImageFormatRGBA)
	}
}

// decode runs the attempt ladder: the prepared image first, then the
// downscale fallback, the 90-degree retry and the inverted retry as the
// options allow. gozxing signals "nothing found" through an error, so
// decode errors end an attempt rather than the call; exhausting all
// attempts yields an absence result (nil, nil).
func (e *ZXing) decode(ctx context.Context, img image.Image, crop image.Rectangle, rotation int, opts barcode.Options) ([]barcode.Result, error) {
	base, tf, err := prepare(img, crop, rotation)
	if err != nil {
		return nil, err
	}

	type attempt struct {
		img image.Image
		tf  transform
	}
	var attempts []attempt

	if opts.TryDownscale && shouldDownscale(base.Bounds(), opts) {
		small, stf := downscale(base, tf, opts)
		attempts = append(attempts, attempt{small, stf})
	}
	attempts = append(attempts, attempt{base, tf})
	if opts.TryRotate {
		rot := imaging.Rotate270(base) // extra clockwise quarter turn
		rtf := tf
		rtf.rotation = (tf.rotation + 90) % 360
		attempts = append(attempts, attempt{rot, rtf})
	}
	if opts.TryInvert {
		attempts = append(attempts, attempt{imaging.Invert(base), tf})
	}

	dec := newDecoder(opts)
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := dec.run(a.img)
		if err != nil {
			continue // this attempt found nothing
		}
		if len(results) > 0 {
			return marshalResults(results, a.tf, opts), nil
		}
	}
	return nil, nil
}

// prepare applies crop and quarter-turn rotation, recording the transform
// needed to map decode-space points back to source coordinates.
func prepare(img image.Image, crop image.Rectangle, rotation int) (image.Image, transform, error) {
	bounds := img.Bounds()
	if crop.Empty() {
		crop = bounds
	} else {
		crop = crop.Intersect(bounds)
		if crop.Empty() {
			return nil, transform{}, fmt.Errorf("engine: crop %v outside image bounds %v", crop, bounds)
		}
	}
	out := cropImage(img, crop)

	switch rotation {
	case 0:
	case 90:
		out = imaging.Rotate270(out) // imaging rotates counter-clockwise
	case 180:
		out = imaging.Rotate180(out)
	case 270:
		out = imaging.Rotate90(out)
	default:
		return nil, transform{}, fmt.Errorf("engine: rotation must be 0, 90, 180 or 270, got %d", rotation)
	}
	return out, transform{crop: crop, rotation: rotation, scale: 1}, nil
}

// cropImage prefers a zero-copy SubImage and falls back to a draw copy.
func cropImage(img image.Image, r image.Rectangle) image.Image {
	if r == img.Bounds() {
		return img
	}
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

func shouldDownscale(b image.Rectangle, opts barcode.Options) bool {
	threshold := opts.DownscaleThreshold
	if threshold <= 0 {
		threshold = barcode.DefaultOptions().DownscaleThreshold
	}
	return b.Dx() > threshold || b.Dy() > threshold
}

func downscale(img image.Image, tf transform, opts barcode.Options) (image.Image, transform) {
	factor := opts.DownscaleFactor
	if factor < 2 {
		factor = barcode.DefaultOptions().DownscaleFactor
	}
	b := img.Bounds()
	small := imaging.Resize(img, max(1, b.Dx()/factor), max(1, b.Dy()/factor), imaging.Box)
	tf.scale = factor
	return small, tf
}
