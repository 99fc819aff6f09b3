// Package framebuffer implements the off-device pixel buffer of an SSD1306
// panel.
//
// The buffer is packed one bit per pixel, row by row, most significant bit
// first: pixel (x, y) lives in byte x/8 + y*width/8 under mask 0x80>>(x%8).
// This is the exact layout the device layer pushes to display RAM, so a
// Framebuffer can be handed to the device without conversion.
//
// A Framebuffer is not safe for concurrent mutation.
package framebuffer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/draw"
	"github.com/BeatGlow/ssd1306/pixel"
)

// MaxSize is the largest supported width or height; the controller stores
// dimensions in a single byte.
const MaxSize = 255

// PixelError is returned by GetPixel for coordinates outside the buffer.
const PixelError = -1

// Framebuffer is a packed monochrome bitmap.
type Framebuffer struct {
	width  int
	height int
	stride int
	buf    []byte
	dc     *diag.Context
}

// New allocates a cleared framebuffer. The width must be a multiple of 8. The
// framebuffer holds its own reference to dc; a nil dc logs to standard error.
func New(width, height int, dc *diag.Context) (fb *Framebuffer, err error) {
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return nil, dc.Fail(fmt.Errorf("%w: framebuffer size %dx%d", diag.ErrInvalidArgument, width, height))
	}
	if width%8 != 0 {
		return nil, dc.Fail(fmt.Errorf("%w: framebuffer width %d is not a multiple of 8", diag.ErrInvalidArgument, width))
	}

	defer func() {
		if r := recover(); r != nil {
			fb, err = nil, dc.Fail(fmt.Errorf("%w: framebuffer of %d bytes: %v", diag.ErrAllocation, width*height/8, r))
		}
	}()

	fb = &Framebuffer{
		width:  width,
		height: height,
		stride: width / 8,
		buf:    make([]byte, width*height/8),
		dc:     diag.Acquire(dc),
	}
	fb.dc.Debugf("framebuffer: allocated %s", fb)
	return fb, nil
}

// Close drops the buffer and releases the diagnostic context. Closing twice is a no-op.
func (fb *Framebuffer) Close() error {
	if fb == nil || fb.buf == nil {
		return nil
	}
	fb.buf = nil
	fb.dc.Release()
	fb.dc = nil
	return nil
}

func (fb *Framebuffer) Width() int  { return fb.width }
func (fb *Framebuffer) Height() int { return fb.height }

// Len is the buffer length in bytes.
func (fb *Framebuffer) Len() int { return len(fb.buf) }

// Bytes returns the live buffer.
func (fb *Framebuffer) Bytes() []byte { return fb.buf }

// Context returns the diagnostic context of the framebuffer.
func (fb *Framebuffer) Context() *diag.Context { return fb.dc }

func (fb *Framebuffer) String() string {
	return fmt.Sprintf("%dx%d framebuffer (%d bytes)", fb.width, fb.height, len(fb.buf))
}

// Clear unsets every pixel.
func (fb *Framebuffer) Clear() {
	clear(fb.buf)
}

// Fill sets every pixel to on.
func (fb *Framebuffer) Fill(on bool) {
	var v byte
	if on {
		v = 0xff
	}
	for i := range fb.buf {
		fb.buf[i] = v
	}
}

func (fb *Framebuffer) in(x, y int) bool {
	return fb.buf != nil && x >= 0 && y >= 0 && x < fb.width && y < fb.height
}

func (fb *Framebuffer) offset(x, y int) (int, byte) {
	bit := x % 8
	return (x-bit)/8 + y*fb.stride, 0x80 >> bit
}

// Transform applies the rotation transform to a coordinate. The result may
// fall outside the buffer for rotations by 90° or 270° of non-square buffers.
func (fb *Framebuffer) Transform(x, y int, r Rotation) (int, int) {
	switch r % 4 {
	case Rotate90:
		x, y = y, x
		x = fb.width - 1 - x
	case Rotate180:
		x = fb.width - 1 - x
		y = fb.height - 1 - y
	case Rotate270:
		x, y = y, x
		y = fb.height - 1 - y
	}
	return x, y
}

// PutPixel sets or clears the pixel at (x, y).
func (fb *Framebuffer) PutPixel(x, y int, on bool) error {
	return fb.PutPixelRotated(x, y, on, NoRotation)
}

// PutPixelRotated sets or clears the pixel at (x, y) after applying the
// rotation transform. Coordinates outside the buffer, before or after the
// transform, return ErrOutOfBounds and leave the buffer untouched.
func (fb *Framebuffer) PutPixelRotated(x, y int, on bool, r Rotation) error {
	if !fb.in(x, y) {
		return fmt.Errorf("%w: pixel (%d,%d) outside %dx%d", diag.ErrOutOfBounds, x, y, fb.width, fb.height)
	}
	rx, ry := fb.Transform(x, y, r)
	if !fb.in(rx, ry) {
		return fmt.Errorf("%w: pixel (%d,%d) rotated %s to (%d,%d) outside %dx%d", diag.ErrOutOfBounds, x, y, r, rx, ry, fb.width, fb.height)
	}
	i, mask := fb.offset(rx, ry)
	if on {
		fb.buf[i] |= mask
	} else {
		fb.buf[i] &^= mask
	}
	return nil
}

// GetPixel returns 1 if the pixel at (x, y) is set, 0 if it is clear and
// PixelError if the coordinate is outside the buffer.
func (fb *Framebuffer) GetPixel(x, y int) int {
	if !fb.in(x, y) {
		return PixelError
	}
	i, mask := fb.offset(x, y)
	if fb.buf[i]&mask != 0 {
		return 1
	}
	return 0
}

// InvertPixel flips the pixel at (x, y).
func (fb *Framebuffer) InvertPixel(x, y int) error {
	if !fb.in(x, y) {
		return fmt.Errorf("%w: pixel (%d,%d) outside %dx%d", diag.ErrOutOfBounds, x, y, fb.width, fb.height)
	}
	i, mask := fb.offset(x, y)
	fb.buf[i] ^= mask
	return nil
}

// DrawLine draws a line between both end points, inclusive. Pixels outside
// the buffer are skipped; the first such miss is returned.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, on bool) error {
	var first error
	draw.Bresenham(x0, y0, x1, y1, func(x, y int) {
		if err := fb.PutPixel(x, y, on); err != nil && first == nil {
			first = err
		}
	})
	return first
}

// DrawCircle is not supported.
func (fb *Framebuffer) DrawCircle(x, y, r int, on bool) error {
	return fb.dc.Fail(fmt.Errorf("%w: circle at (%d,%d) radius %d", diag.ErrNotSupported, x, y, r))
}

// DrawBricks fills the buffer with a fixed test pattern: every byte but the
// first is 0xFF, overridden by 0x7F on multiples of 3, overridden by 0x3F on
// multiples of 5.
func (fb *Framebuffer) DrawBricks() {
	fb.Clear()
	for i := 1; i < len(fb.buf); i++ {
		fb.buf[i] = 0xff
		if i%3 == 0 {
			fb.buf[i] = 0x7f
		}
		if i%5 == 0 {
			fb.buf[i] = 0x3f
		}
	}
}

// Bounds is part of the image.Image interface.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// ColorModel is part of the image.Image interface.
func (fb *Framebuffer) ColorModel() color.Model {
	return pixel.MonoModel
}

// At is part of the image.Image interface.
func (fb *Framebuffer) At(x, y int) color.Color {
	switch fb.GetPixel(x, y) {
	case 1:
		return pixel.On
	case 0:
		return pixel.Off
	default:
		return color.Transparent
	}
}

// Set is part of the draw.Image interface. Out of bounds pixels are ignored.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	_ = fb.PutPixel(x, y, pixel.IsOn(c))
}
