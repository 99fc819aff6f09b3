// Package draw provides the drawing primitives used on monochrome
// framebuffers: Bresenham lines, rectangles and dithered image composition.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over = draw.Over

	// Src specifies ``src in mask''.
	Src = draw.Src
)

// Draw calls [DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// DrawMask aligns r.Min in dst with sp in src and mp in mask and then replaces the rectangle r
// in dst with the result of a Porter-Duff composition. A nil mask is treated as opaque.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}

// mono is the palette error diffusion quantizes to.
var mono = color.Palette{color.Black, color.White}

// Dither replaces the rectangle r in dst with src reduced to black and white
// using Floyd-Steinberg error diffusion.
func Dither(dst Image, r image.Rectangle, src image.Image, sp image.Point) {
	clipped := r.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))
	r = clipped
	tmp := image.NewPaletted(image.Rect(0, 0, r.Dx(), r.Dy()), mono)
	draw.FloydSteinberg.Draw(tmp, tmp.Bounds(), src, sp)
	draw.Draw(dst, r, tmp, image.Point{}, draw.Src)
}
