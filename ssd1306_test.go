package ssd1306

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/BeatGlow/ssd1306/conn"
	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/framebuffer"
)

func newTestDev(t *testing.T, width, height int) (*Dev, *i2ctest.Record, *bytes.Buffer) {
	t.Helper()

	var log bytes.Buffer
	dc := diag.New(&log)
	defer dc.Release()

	rec := &i2ctest.Record{}
	d, err := NewI2C(rec, DefaultAddr, width, height, dc)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, rec, &log
}

func TestNew(t *testing.T) {
	d, _, _ := newTestDev(t, 128, 32)
	if d.Width() != 128 || d.Height() != 32 {
		t.Errorf("expected 128x32, got %dx%d", d.Width(), d.Height())
	}
	if v := len(d.Buffer()); v != 512 {
		t.Errorf("expected 512 bytes of display RAM, got %d", v)
	}
	if v := d.Addr(); v != DefaultAddr {
		t.Errorf("expected address %#02x, got %#02x", DefaultAddr, v)
	}
	if v := d.Context().Refs(); v != 1 {
		t.Errorf("expected the device to hold the only context reference, got %d", v)
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New(nil, DefaultAddr, 128, 64, nil); !errors.Is(err, diag.ErrInvalidArgument) {
		t.Errorf("nil connection: expected %v, got %v", diag.ErrInvalidArgument, err)
	}
	c := conn.NewBus(&i2ctest.Record{}, uint16(DefaultAddr))
	for _, size := range [][2]int{{0, 64}, {100, 64}, {128, 60}, {512, 64}} {
		if _, err := New(c, DefaultAddr, size[0], size[1], nil); !errors.Is(err, diag.ErrInvalidArgument) {
			t.Errorf("%dx%d: expected %v, got %v", size[0], size[1], diag.ErrInvalidArgument, err)
		}
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		addr          uint8
		width, height int
		wantAddr      uint8
		wantW, wantH  int
		warn          bool
	}{
		{0x3c, 128, 64, 0x3c, 128, 64, false},
		{0x3d, 128, 32, 0x3d, 128, 32, false},
		{0, 0, 0, 0x3c, 128, 64, false},
		{0, 96, 0, 0x3c, 96, 16, false},
		{0x50, 128, 64, 0x3c, 128, 64, true},
		{0x3c, 100, 64, 0x3c, 128, 64, true},
		{0x3c, 96, 48, 0x3c, 96, 16, true},
	}
	for _, test := range tests {
		var log bytes.Buffer
		dc := diag.New(&log)
		d, err := NewI2C(&i2ctest.Record{}, test.addr, test.width, test.height, dc)
		if err != nil {
			t.Fatal(err)
		}
		if d.Addr() != test.wantAddr || d.Width() != test.wantW || d.Height() != test.wantH {
			t.Errorf("(%#02x, %d, %d): expected (%#02x, %d, %d), got (%#02x, %d, %d)",
				test.addr, test.width, test.height,
				test.wantAddr, test.wantW, test.wantH,
				d.Addr(), d.Width(), d.Height())
		}
		if warned := strings.Contains(log.String(), "not supported"); warned != test.warn {
			t.Errorf("(%#02x, %d, %d): expected warning %t, log %q", test.addr, test.width, test.height, test.warn, log.String())
		}
		_ = d.Close()
		dc.Release()
	}
}

func TestInitialize(t *testing.T) {
	d, rec, _ := newTestDev(t, 128, 32)
	if err := d.Initialize(); err != nil {
		t.Fatal(err)
	}

	// 17 commands, then the column and page window and the cleared RAM.
	if len(rec.Ops) != 20 {
		t.Fatalf("expected 20 transactions, got %d", len(rec.Ops))
	}
	for i, want := range map[int][]byte{
		0:  {0x80, 0xae},
		1:  {0x80, 0x20, 0x80, 0x00},
		2:  {0x80, 0xa8, 0x80, 0x1f},
		7:  {0x80, 0xda, 0x80, 0x02},
		8:  {0x80, 0x81, 0x80, 0xff},
		14: {0x80, 0x8d, 0x80, 0x14},
		15: {0x80, 0xaf},
		16: {0x80, 0x2e},
		17: {0x80, 0x21, 0x80, 0x00, 0x80, 0x7f},
		18: {0x80, 0x22, 0x80, 0x00, 0x80, 0x03},
	} {
		if v := rec.Ops[i].W; !bytes.Equal(v, want) {
			t.Errorf("transaction %d: expected % x, got % x", i, want, v)
		}
	}

	ram := rec.Ops[19].W
	if len(ram) != 513 || ram[0] != ControlData {
		t.Fatalf("expected control byte and 512 bytes of RAM, got %d bytes starting % x", len(ram), ram[:1])
	}
	for i, v := range ram[1:] {
		if v != 0 {
			t.Fatalf("RAM byte %d not cleared: %#02x", i, v)
		}
	}
}

func TestUpdate(t *testing.T) {
	d, rec, _ := newTestDev(t, 128, 64)
	fb, err := framebuffer.New(128, 64, d.Context())
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Close()

	if err = fb.PutPixel(0, 0, true); err != nil {
		t.Fatal(err)
	}
	if err = fb.PutPixel(127, 63, true); err != nil {
		t.Fatal(err)
	}
	if err = d.Update(fb); err != nil {
		t.Fatal(err)
	}

	if len(rec.Ops) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(rec.Ops))
	}
	if v, want := rec.Ops[1].W, []byte{0x80, 0x22, 0x80, 0x00, 0x80, 0x07}; !bytes.Equal(v, want) {
		t.Errorf("expected page window % x, got % x", want, v)
	}
	ram := rec.Ops[2].W
	if len(ram) != 1025 {
		t.Fatalf("expected 1025 bytes, got %d", len(ram))
	}
	if ram[0] != 0x40 || ram[1] != 0x80 || ram[1024] != 0x01 {
		t.Errorf("unexpected RAM image % x ... % x", ram[:2], ram[1024:])
	}
	if !bytes.Equal(d.Buffer(), fb.Bytes()) {
		t.Error("device buffer does not mirror the framebuffer")
	}
}

func TestUpdateMismatch(t *testing.T) {
	d, rec, _ := newTestDev(t, 128, 64)
	fb, err := framebuffer.New(64, 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Close()

	if err = d.Update(fb); !errors.Is(err, diag.ErrProtocolMismatch) {
		t.Fatalf("expected %v, got %v", diag.ErrProtocolMismatch, err)
	}
	if len(rec.Ops) != 0 {
		t.Errorf("expected no transactions, got %d", len(rec.Ops))
	}
	if code, _ := d.Context().LastError(); code != diag.CodeProtocolMismatch {
		t.Errorf("expected last error %s, got %s", diag.CodeProtocolMismatch, code)
	}
}

func TestWriteError(t *testing.T) {
	var log bytes.Buffer
	dc := diag.New(&log)
	defer dc.Release()

	d, err := New(conn.NewBus(&i2ctest.Playback{DontPanic: true}, 0x3c), 0x3c, 128, 64, dc)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if err = d.Show(true); !errors.Is(err, diag.ErrIO) {
		t.Fatalf("expected %v, got %v", diag.ErrIO, err)
	}
	if code, _ := dc.LastError(); code != diag.CodeIO {
		t.Errorf("expected last error %s, got %s", diag.CodeIO, code)
	}
	if err = d.Initialize(); !errors.Is(err, diag.ErrIO) {
		t.Errorf("expected initialize to fail with %v, got %v", diag.ErrIO, err)
	}
}

func TestInitializeAbort(t *testing.T) {
	dc := diag.New(&bytes.Buffer{})
	defer dc.Release()

	// PowerOff and MemAddrHorizontal go through, MuxRatio fails.
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x3c, W: []byte{0x80, 0xae}},
			{Addr: 0x3c, W: []byte{0x80, 0x20, 0x80, 0x00}},
		},
		DontPanic: true,
	}
	d, err := New(conn.NewBus(pb, 0x3c), 0x3c, 128, 64, dc)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if err = d.Initialize(); !errors.Is(err, diag.ErrIO) {
		t.Fatalf("expected %v, got %v", diag.ErrIO, err)
	}
	if pb.Count != 2 {
		t.Errorf("expected the sequence to stop after 2 transactions, got %d", pb.Count)
	}
	if !strings.Contains(err.Error(), MuxRatio.String()) {
		t.Errorf("expected the error to name %s, got %v", MuxRatio, err)
	}
}

func TestRunCommandTruncate(t *testing.T) {
	d, rec, log := newTestDev(t, 128, 64)
	if err := d.RunCommand(ScrollVerticalArea, 0, 64, 1, 2, 3, 4, 5); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(rec.Ops))
	}
	if !strings.Contains(log.String(), "at most 6 data bytes") {
		t.Errorf("expected truncation warning, got %q", log.String())
	}
}

func TestClose(t *testing.T) {
	var d *Dev
	if err := d.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}

	dc := diag.New(&bytes.Buffer{})
	defer dc.Release()
	d, err := NewI2C(&i2ctest.Record{}, DefaultAddr, 128, 64, dc)
	if err != nil {
		t.Fatal(err)
	}
	if v := dc.Refs(); v != 2 {
		t.Errorf("expected 2 context references, got %d", v)
	}
	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if err = d.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if v := dc.Refs(); v != 1 {
		t.Errorf("expected close to release the context, got %d references", v)
	}
	if err = d.Show(true); !errors.Is(err, diag.ErrInvalidArgument) {
		t.Errorf("expected %v on a closed device, got %v", diag.ErrInvalidArgument, err)
	}
	if err = d.Update(nil); !errors.Is(err, diag.ErrInvalidArgument) {
		t.Errorf("expected %v on a closed device, got %v", diag.ErrInvalidArgument, err)
	}
}

func TestContrastInvert(t *testing.T) {
	d, rec, _ := newTestDev(t, 128, 64)
	if err := d.SetContrast(0x7f); err != nil {
		t.Fatal(err)
	}
	if err := d.Invert(true); err != nil {
		t.Fatal(err)
	}
	if err := d.Invert(false); err != nil {
		t.Fatal(err)
	}
	for i, want := range [][]byte{
		{0x80, 0x81, 0x80, 0x7f},
		{0x80, 0xa7},
		{0x80, 0xa6},
	} {
		if v := rec.Ops[i].W; !bytes.Equal(v, want) {
			t.Errorf("transaction %d: expected % x, got % x", i, want, v)
		}
	}
}

func TestScroll(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Dev) error
		want []byte
	}{
		{
			"left",
			func(d *Dev) error { return d.Scroll(Left, FrameRate2, 0, -1) },
			[]byte{0x80, 0x27, 0x27, 0x00, 0x00, 0x07, 0x07, 0x00, 0xff, 0x2f},
		},
		{
			"right",
			func(d *Dev) error { return d.Scroll(Right, FrameRate5, 16, 32) },
			[]byte{0x80, 0x26, 0x26, 0x00, 0x02, 0x00, 0x03, 0x00, 0xff, 0x2f},
		},
		{
			"up right",
			func(d *Dev) error { return d.Scroll(UpRight, FrameRate64, 0, 64) },
			[]byte{0x80, 0x29, 0x29, 0x00, 0x00, 0x01, 0x07, 0x01, 0x2f},
		},
		{
			"up left offset",
			func(d *Dev) error { return d.ScrollVertical(UpLeft, FrameRate3, 8, -1, 4) },
			[]byte{0x80, 0x2a, 0x2a, 0x00, 0x01, 0x04, 0x07, 0x04, 0x2f},
		},
		{
			"area",
			func(d *Dev) error { return d.SetScrollArea(0, 64) },
			[]byte{0x80, 0xa3, 0xa3, 0x00, 0x40, 0x2f},
		},
		{
			"stop",
			func(d *Dev) error { return d.StopScroll() },
			[]byte{0x80, 0x2e},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			d, rec, _ := newTestDev(it, 128, 64)
			if err := test.run(d); err != nil {
				it.Fatal(err)
			}
			if len(rec.Ops) != 1 {
				it.Fatalf("expected 1 transaction, got %d", len(rec.Ops))
			}
			if v := rec.Ops[0].W; !bytes.Equal(v, test.want) {
				it.Errorf("expected % x, got % x", test.want, v)
			}
		})
	}
}

func TestScrollInvalid(t *testing.T) {
	d, rec, _ := newTestDev(t, 128, 64)
	for _, run := range []func() error{
		func() error { return d.Scroll(Left, FrameRate2, 3, 64) },
		func() error { return d.Scroll(Left, FrameRate2, 32, 16) },
		func() error { return d.Scroll(Left, FrameRate2, 0, 72) },
		func() error { return d.Scroll(Orientation(9), FrameRate2, 0, 64) },
		func() error { return d.ScrollVertical(UpLeft, FrameRate2, 0, 64, 64) },
		func() error { return d.SetScrollArea(10, 60) },
	} {
		if err := run(); !errors.Is(err, diag.ErrInvalidArgument) {
			t.Errorf("expected %v, got %v", diag.ErrInvalidArgument, err)
		}
	}
	if len(rec.Ops) != 0 {
		t.Errorf("expected no transactions, got %d", len(rec.Ops))
	}
}

func TestDrawer(t *testing.T) {
	d, rec, _ := newTestDev(t, 128, 32)
	if v := d.Bounds(); v != image.Rect(0, 0, 128, 32) {
		t.Errorf("unexpected bounds %s", v)
	}

	if err := d.Draw(image.Rect(0, 0, 8, 1), image.NewUniform(color.White), image.Point{}); err != nil {
		t.Fatal(err)
	}
	ram := rec.Ops[len(rec.Ops)-1].W
	if ram[1] != 0xff || ram[2] != 0x00 || ram[17] != 0x00 {
		t.Errorf("unexpected RAM image % x", ram[:18])
	}

	// Pixels outside the rectangle keep their previous value.
	if err := d.Draw(image.Rect(0, 1, 128, 2), image.NewUniform(color.White), image.Point{}); err != nil {
		t.Fatal(err)
	}
	ram = rec.Ops[len(rec.Ops)-1].W
	if ram[1] != 0xff || ram[2] != 0x00 || ram[17] != 0xff || ram[33] != 0x00 {
		t.Errorf("unexpected RAM image % x", ram[:34])
	}

	n := len(rec.Ops)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if v := rec.Ops[n].W; !bytes.Equal(v, []byte{0x80, 0xae}) {
		t.Errorf("expected power off, got % x", v)
	}
}

func TestReset(t *testing.T) {
	d, _, _ := newTestDev(t, 128, 64)
	if err := d.Reset(); err != nil {
		t.Fatalf("reset without a pin: %v", err)
	}

	pin := &gpiotest.Pin{N: "RES", L: gpio.Low}
	d.SetResetPin(pin)
	if err := d.Reset(); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.High {
		t.Error("expected reset pin to be released high")
	}

	d.SetResetPin(gpio.INVALID)
	if d.reset != nil {
		t.Error("expected invalid pin to clear the reset pin")
	}
}

func TestDump(t *testing.T) {
	d, _, _ := newTestDev(t, 128, 32)
	d.Buffer()[0] = 0xa5

	var hex bytes.Buffer
	if err := d.Hexdump(&hex); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(hex.String()), "\n")
	if len(lines) != 32 {
		t.Fatalf("expected 32 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "0000 A5 00 ") {
		t.Errorf("unexpected first line %q", lines[0])
	}

	var bits bytes.Buffer
	if err := d.Bitdump(&bits, ' ', '#', false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(bits.String(), "0000 # #  # # ") {
		t.Errorf("unexpected first line %q", strings.SplitN(bits.String(), "\n", 2)[0])
	}
}

func TestDumpNil(t *testing.T) {
	var d *Dev
	if v := d.Buffer(); v != nil {
		t.Errorf("expected no buffer, got %d bytes", len(v))
	}
	if err := d.Hexdump(&bytes.Buffer{}); !errors.Is(err, diag.ErrInvalidArgument) {
		t.Errorf("hexdump: expected %v, got %v", diag.ErrInvalidArgument, err)
	}
	if err := d.Bitdump(&bytes.Buffer{}, '.', '#', true); !errors.Is(err, diag.ErrInvalidArgument) {
		t.Errorf("bitdump: expected %v, got %v", diag.ErrInvalidArgument, err)
	}
}
