package barcode

import (
	"image"
	"math"
)

// Position is the quadrilateral a symbol occupies in source-image pixel
// coordinates. Corners are listed clockwise from the top-left regardless of
// how the symbol itself was rotated. Orientation is the decoder's own skew
// estimate in degrees and need not match the corner-implied angle exactly.
type Position struct {
	TopLeft     image.Point `json:"top_left"`
	TopRight    image.Point `json:"top_right"`
	BottomRight image.Point `json:"bottom_right"`
	BottomLeft  image.Point `json:"bottom_left"`
	Orientation float64     `json:"orientation"`
}

// Bounds returns the axis-aligned bounding rectangle of the quad.
func (p Position) Bounds() image.Rectangle {
	minX, minY := p.TopLeft.X, p.TopLeft.Y
	maxX, maxY := p.TopLeft.X, p.TopLeft.Y
	for _, pt := range []image.Point{p.TopRight, p.BottomRight, p.BottomLeft} {
		minX = min(minX, pt.X)
		minY = min(minY, pt.Y)
		maxX = max(maxX, pt.X)
		maxY = max(maxY, pt.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// PositionFromBounds builds an axis-aligned quad from a rectangle with the
// given orientation estimate.
func PositionFromBounds(r image.Rectangle, orientation float64) Position {
	return Position{
		TopLeft:     r.Min,
		TopRight:    image.Pt(r.Max.X-1, r.Min.Y),
		BottomRight: image.Pt(r.Max.X-1, r.Max.Y-1),
		BottomLeft:  image.Pt(r.Min.X, r.Max.Y-1),
		Orientation: orientation,
	}
}

// AngleDegrees returns the angle of the vector a->b in degrees.
func AngleDegrees(a, b image.Point) float64 {
	return math.Atan2(float64(b.Y-a.Y), float64(b.X-a.X)) * 180 / math.Pi
}

// Result is one decoded symbol. Results are produced fresh on every read and
// never reference caller-owned buffers.
type Result struct {
	// Format is the matched symbology; FormatNone only for the zero value.
	Format Format
	// Bytes is the raw decoded payload, nil when the symbol carried none.
	Bytes []byte
	// Text is the payload rendered per the read's TextMode.
	Text string
	// ContentType classifies the payload.
	ContentType ContentType
	// Position is nil only when the engine cannot report geometry for the
	// symbology.
	Position *Position
	// Orientation is the image-level quarter-turn applied before decoding.
	Orientation int
	// ECLevel is the engine-reported error-correction level, format
	// dependent, empty when not applicable.
	ECLevel string
	// SymbologyIdentifier is the AIM identifier (e.g. "]Q1"), empty when
	// not applicable.
	SymbologyIdentifier string
}

// Valid reports whether the result describes an actual decoded symbol.
func (r Result) Valid() bool { return r.Format != FormatNone }
