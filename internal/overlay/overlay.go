// Package overlay renders decoded symbol geometry onto a copy of the
// source image for debugging and the CLI --overlay-dir flag.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/betarho/zxscan/internal/barcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render draws each result's corner quad and format label onto a copy of
// img. Results without geometry are skipped.
func Render(img image.Image, results []barcode.Result, col color.Color) *image.RGBA {
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	for _, r := range results {
		if r.Position == nil {
			continue
		}
		quad := []image.Point{
			r.Position.TopLeft,
			r.Position.TopRight,
			r.Position.BottomRight,
			r.Position.BottomLeft,
		}
		drawQuad(dst, quad, col, 2)
		drawLabel(dst, r.Format.String(), r.Position.TopLeft.Add(image.Pt(0, -4)), col)
	}
	return dst
}

func drawQuad(dst *image.RGBA, pts []image.Point, col color.Color, thickness int) {
	for i := range pts {
		drawLine(dst, pts[i], pts[(i+1)%len(pts)], col, thickness)
	}
}

// drawLine uses a simple Bresenham variant.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		drawThickPoint(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawThickPoint(dst *image.RGBA, x, y int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	r := (thickness - 1) / 2
	for yy := y - r; yy <= y+r; yy++ {
		for xx := x - r; xx <= x+r; xx++ {
			if image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}

func drawLabel(dst *image.RGBA, text string, at image.Point, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(text)
}
