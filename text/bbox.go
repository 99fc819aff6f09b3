package text

import (
	"fmt"
	"image"
)

// BoundingBox is the inclusive area touched by a draw call, clipped to the
// framebuffer.
type BoundingBox struct {
	Top, Left, Right, Bottom int
}

// Rect converts the box to an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right+1, b.Bottom+1)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("{top: %d, left: %d, right: %d, bottom: %d}", b.Top, b.Left, b.Right, b.Bottom)
}

type boxer struct {
	w, h  int
	box   BoundingBox
	valid bool
}

// add grows the box by r, clipping to the framebuffer. The first call sets
// the top left corner.
func (b *boxer) add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	left, top := clamp(r.Min.X, b.w), clamp(r.Min.Y, b.h)
	right, bottom := clamp(r.Max.X-1, b.w), clamp(r.Max.Y-1, b.h)
	if !b.valid {
		b.box = BoundingBox{Top: top, Left: left, Right: right, Bottom: bottom}
		b.valid = true
		return
	}
	b.box.Right = max(b.box.Right, right)
	b.box.Bottom = max(b.box.Bottom, bottom)
}

func clamp(v, n int) int {
	return min(max(v, 0), n-1)
}
