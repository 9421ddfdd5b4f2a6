package engine

import (
	"image"
	"math"
)

// transform records how the decoded image relates to the source image so
// result geometry can be mapped back to source coordinates.
type transform struct {
	// crop is the decoded region in source coordinates.
	crop image.Rectangle
	// rotation is the clockwise quarter-turn applied after cropping.
	rotation int
	// scale is the downscale divisor applied after rotating (1 = none).
	scale int
}

// toSource maps a point from decode space back to source-image coordinates.
func (t transform) toSource(x, y float64) image.Point {
	if t.scale > 1 {
		x *= float64(t.scale)
		y *= float64(t.scale)
	}
	w := float64(t.crop.Dx())
	h := float64(t.crop.Dy())
	var sx, sy float64
	switch t.rotation {
	case 90:
		// clockwise 90: (sx, sy) -> (h-1-sy, sx)
		sx = y
		sy = h - 1 - x
	case 180:
		sx = w - 1 - x
		sy = h - 1 - y
	case 270:
		sx = w - 1 - y
		sy = x
	default:
		sx = x
		sy = y
	}
	return image.Pt(
		t.crop.Min.X+int(math.Round(sx)),
		t.crop.Min.Y+int(math.Round(sy)),
	)
}
