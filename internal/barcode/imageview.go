package barcode

import "fmt"

// ImageView describes a pixel buffer for the decode engine without owning or
// copying it. The buffer is a read-only input; neither this layer nor the
// engine mutates it.
type ImageView struct {
	// Pix is the raw pixel data, at least Height*RowStride bytes.
	Pix []byte
	// Format gives the byte layout of one pixel.
	Format ImageFormat
	// Width and Height are the logical image dimensions in pixels.
	Width, Height int
	// RowStride is the distance in bytes between vertically adjacent
	// pixels; it may exceed Width*PixStride for padded rows.
	RowStride int
	// PixStride is the distance in bytes between horizontally adjacent
	// pixels. Zero means the format's channel count.
	PixStride int
}

// NewLumView wraps a single-channel luma plane.
func NewLumView(pix []byte, width, height, rowStride int) ImageView {
	if rowStride <= 0 {
		rowStride = width
	}
	return ImageView{Pix: pix, Format: ImageFormatLum, Width: width, Height: height, RowStride: rowStride, PixStride: 1}
}

// Validate checks that the descriptor is internally consistent and that the
// buffer is large enough for the declared geometry.
func (v ImageView) Validate() error {
	if v.Format == ImageFormatNone {
		return fmt.Errorf("image view: format is None")
	}
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("image view: invalid dimensions %dx%d", v.Width, v.Height)
	}
	pixStride := v.PixStride
	if pixStride == 0 {
		pixStride = v.Format.Channels()
	}
	if v.RowStride < v.Width*pixStride {
		return fmt.Errorf("image view: row stride %d smaller than row width %d", v.RowStride, v.Width*pixStride)
	}
	if need := (v.Height-1)*v.RowStride + v.Width*pixStride; len(v.Pix) < need {
		return fmt.Errorf("image view: buffer has %d bytes, geometry needs %d", len(v.Pix), need)
	}
	return nil
}
