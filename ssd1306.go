// Package ssd1306 drives SSD1306 monochrome OLED controllers over I²C.
//
// A Dev owns the connection and a mirror of the controller display RAM.
// Callers draw into a framebuffer.Framebuffer and push it with Update:
//
//	dev, err := ssd1306.Open("/dev/i2c-1", 0x3c, 128, 64, nil)
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//	if err = dev.Initialize(); err != nil {
//		return err
//	}
//	fb, _ := framebuffer.New(dev.Width(), dev.Height(), nil)
//	fb.DrawBricks()
//	err = dev.Update(fb)
//
// A Dev is not safe for concurrent use.
package ssd1306

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/ssd1306/conn"
	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/framebuffer"
)

// Supported addresses and sizes.
const (
	DefaultAddr   uint8 = 0x3c
	AlternateAddr uint8 = 0x3d
	DefaultWidth        = 128
	DefaultHeight       = 64
)

// Dev is an open SSD1306 controller.
type Dev struct {
	c      Conn
	path   string
	addr   uint8
	width  int
	height int
	buf    []byte // control byte followed by the display RAM image
	dc     *diag.Context
	reset  gpio.PinOut
	next   *framebuffer.Framebuffer
}

// Open opens the I²C character device at path and binds it to addr. An empty
// path selects the first I²C device.
//
// Unsupported values are replaced with a warning: addr must be 0x3C or 0x3D,
// width 96 or 128 and height 16, 32 or 64. Zero selects the default, which
// for the height depends on the width.
func Open(path string, addr uint8, width, height int, dc *diag.Context) (*Dev, error) {
	dc = diag.Acquire(dc)
	defer dc.Release()

	addr, width, height = coerce(dc, addr, width, height)
	c, err := conn.OpenDevice(path, uint16(addr))
	if err != nil {
		return nil, dc.Fail(wrapIO(err, "open %s", path))
	}
	d, err := New(c, addr, width, height, dc)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	d.path = c.Path()
	return d, nil
}

// New returns a device handle over an open connection. The width must be a
// multiple of 8 and the height a multiple of 8; no other coercion is done.
// The handle takes ownership of c.
func New(c Conn, addr uint8, width, height int, dc *diag.Context) (*Dev, error) {
	if c == nil {
		return nil, dc.Fail(fmt.Errorf("%w: no connection", diag.ErrInvalidArgument))
	}
	if width <= 0 || height <= 0 || width > framebuffer.MaxSize || height > framebuffer.MaxSize || width%8 != 0 || height%8 != 0 {
		return nil, dc.Fail(fmt.Errorf("%w: display size %dx%d", diag.ErrInvalidArgument, width, height))
	}

	d := &Dev{
		c:      c,
		path:   c.String(),
		addr:   addr,
		width:  width,
		height: height,
		buf:    make([]byte, width*height/8+1),
		dc:     diag.Acquire(dc),
	}
	d.buf[0] = ControlData
	d.dc.Infof("ssd1306: opened %s", d)
	return d, nil
}

// coerce replaces unsupported address and size values.
func coerce(dc *diag.Context, addr uint8, width, height int) (uint8, int, int) {
	switch addr {
	case 0:
		addr = DefaultAddr
	case DefaultAddr, AlternateAddr:
	default:
		dc.Warnf("ssd1306: address %#02x is not supported, using %#02x", addr, DefaultAddr)
		addr = DefaultAddr
	}

	switch width {
	case 0:
		width = DefaultWidth
	case 96, 128:
	default:
		dc.Warnf("ssd1306: width %d is not supported, using %d", width, DefaultWidth)
		width = DefaultWidth
	}

	defaultHeight := DefaultHeight
	if width == 96 {
		defaultHeight = 16
	}
	switch height {
	case 0:
		height = defaultHeight
	case 16, 32, 64:
	default:
		dc.Warnf("ssd1306: height %d is not supported, using %d", height, defaultHeight)
		height = defaultHeight
	}
	return addr, width, height
}

// Close closes the connection and drops the device buffer. It is safe to call
// on a nil or closed Dev. The display is left as is; use Halt to power it off.
func (d *Dev) Close() error {
	if d == nil || d.c == nil {
		return nil
	}

	err := d.c.Close()
	if err != nil {
		err = d.dc.Fail(wrapIO(err, "close %s", d.path))
	}
	if d.next != nil {
		_ = d.next.Close()
		d.next = nil
	}
	d.dc.Debugf("ssd1306: closed %s", d)
	d.c = nil
	d.buf = nil
	d.dc.Release()
	d.dc = nil
	return err
}

func (d *Dev) String() string {
	return fmt.Sprintf("SSD1306 OLED %dx%d at %#02x on %s", d.width, d.height, d.addr, d.path)
}

func (d *Dev) Width() int  { return d.width }
func (d *Dev) Height() int { return d.height }

// Addr is the bus address.
func (d *Dev) Addr() uint8 { return d.addr }

// Path is the device path, or the connection name for handles created by New.
func (d *Dev) Path() string { return d.path }

// Context returns the diagnostic context of the device.
func (d *Dev) Context() *diag.Context { return d.dc }

// Buffer returns the display RAM image last sent, without its control byte.
func (d *Dev) Buffer() []byte {
	if d == nil || d.buf == nil {
		return nil
	}
	return d.buf[1:]
}

func (d *Dev) closed() error {
	if d == nil || d.c == nil {
		return fmt.Errorf("%w: device is closed", diag.ErrInvalidArgument)
	}
	return nil
}

// RunCommand encodes cmd and writes it in one transaction. Write errors are
// not retried.
func (d *Dev) RunCommand(cmd Command, data ...byte) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	if len(data) > MaxCommandData {
		d.dc.Warnf("ssd1306: %s accepts at most %d data bytes, got %d", cmd, MaxCommandData, len(data))
		data = data[:MaxCommandData]
	}
	b, err := Encode(cmd, data...)
	if err != nil {
		return d.dc.Fail(err)
	}
	if _, err = d.c.Write(b); err != nil {
		return d.dc.Fail(wrapIO(err, "write %s [% x] to %s", cmd, b, d.path))
	}
	d.dc.Debugf("ssd1306: wrote %s [% x]", cmd, b)
	return nil
}

// Initialize runs the power up sequence and clears the display. The first
// failing command aborts the sequence.
func (d *Dev) Initialize() error {
	comPins := byte(0x12)
	if d.height == 32 {
		comPins = 0x02
	}

	for _, step := range []struct {
		cmd  Command
		data []byte
	}{
		{PowerOff, nil},
		{MemAddrHorizontal, nil},
		{MuxRatio, []byte{byte(d.height - 1)}},
		{DisplayOffset, []byte{0x00}},
		{DisplayStartLine, nil},
		{SegmentRemap, []byte{0x01}},
		{ComScanInverted, nil},
		{ComPinConfig, []byte{comPins}},
		{DisplayContrast, []byte{0xff}},
		{DisplayDisableEntireOn, nil},
		{DisplayNormal, nil},
		{DisplayClockDivFreq, []byte{0x80}},
		{PrechargePeriod, []byte{0xf1}},
		{VCOMHDeselect, []byte{0x30}},
		{EnableChargePump, nil},
		{PowerOn, nil},
		{ScrollDeactivate, nil},
	} {
		if err := d.RunCommand(step.cmd, step.data...); err != nil {
			return err
		}
	}
	if err := d.Clear(); err != nil {
		return err
	}
	d.dc.Infof("ssd1306: initialized %s", d)
	return nil
}

// Update copies fb into the device buffer and sends it to display RAM. A nil
// fb resends the device buffer. The framebuffer must match the display size;
// on mismatch nothing is written.
func (d *Dev) Update(fb *framebuffer.Framebuffer) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	if fb != nil && fb.Len() != len(d.buf)-1 {
		return d.dc.Fail(fmt.Errorf("%w: framebuffer %dx%d (%d bytes) on %dx%d display (%d bytes)",
			diag.ErrProtocolMismatch, fb.Width(), fb.Height(), fb.Len(), d.width, d.height, len(d.buf)-1))
	}

	if err := d.RunCommand(ColumnAddr, 0, byte(d.width-1)); err != nil {
		return err
	}
	if err := d.RunCommand(PageAddr, 0, byte(d.height/8-1)); err != nil {
		return err
	}

	d.buf[0] = ControlData
	if fb != nil {
		copy(d.buf[1:], fb.Bytes())
	}
	if _, err := d.c.Write(d.buf); err != nil {
		return d.dc.Fail(wrapIO(err, "write %d bytes of display RAM to %s", len(d.buf), d.path))
	}
	d.dc.Debugf("ssd1306: wrote %d bytes of display RAM", len(d.buf))
	return nil
}

// Clear blanks the device buffer and the display.
func (d *Dev) Clear() error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	clear(d.buf)
	return d.Update(nil)
}

// Show turns the display on or off.
func (d *Dev) Show(show bool) error {
	if show {
		return d.RunCommand(PowerOn)
	}
	return d.RunCommand(PowerOff)
}

// SetContrast adjusts the contrast level.
func (d *Dev) SetContrast(level uint8) error {
	return d.RunCommand(DisplayContrast, level)
}

// Invert toggles inverted display mode.
func (d *Dev) Invert(invert bool) error {
	if invert {
		return d.RunCommand(DisplayInverted)
	}
	return d.RunCommand(DisplayNormal)
}

// Hexdump writes the device buffer as hex bytes. A nil w writes to the
// diagnostic sink. Nil and closed devices fail with ErrInvalidArgument.
func (d *Dev) Hexdump(w io.Writer) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	if w == nil {
		w = d.context().Writer()
	}
	return framebuffer.WriteHex(w, d.Buffer(), d.width/8)
}

// Bitdump writes the device buffer as one glyph per pixel, see
// framebuffer.Framebuffer.Bitdump.
func (d *Dev) Bitdump(w io.Writer, zero, one byte, space bool) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	if w == nil {
		w = d.context().Writer()
	}
	return framebuffer.WriteBits(w, d.Buffer(), d.width/8, zero, one, space)
}

// context is nil safe for closed handles.
func (d *Dev) context() *diag.Context {
	if d == nil {
		return nil
	}
	return d.dc
}

func wrapIO(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %v", diag.ErrIO, fmt.Sprintf(format, args...), err)
}
