package ssd1306

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/ssd1306/draw"
	"github.com/BeatGlow/ssd1306/framebuffer"
	"github.com/BeatGlow/ssd1306/pixel"
)

var _ display.Drawer = (*Dev)(nil)

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return pixel.MonoModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Draw implements display.Drawer. It converts src to monochrome into an
// internal framebuffer and updates the display. Pixels outside r keep the
// value of the previous Draw.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	if d.next == nil {
		fb, err := framebuffer.New(d.width, d.height, d.dc)
		if err != nil {
			return err
		}
		d.next = fb
	}

	if r = r.Intersect(d.Bounds()); !r.Empty() {
		draw.Draw(d.next, r, src, sp, draw.Src)
	}
	return d.Update(d.next)
}

// Halt implements conn.Resource. It turns the display off.
func (d *Dev) Halt() error {
	return d.Show(false)
}
