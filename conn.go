package ssd1306

import (
	"io"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"

	"github.com/BeatGlow/ssd1306/conn"
	"github.com/BeatGlow/ssd1306/diag"
)

// Conn is the transport to the controller. Every Write is one bus
// transaction.
type Conn interface {
	io.Writer
	io.Closer
	String() string
}

var (
	_ Conn = (*conn.Device)(nil)
	_ Conn = (*conn.Bus)(nil)
)

// resetDelay is how long the reset pin is held low, and how long the
// controller is given to start after it is released.
const resetDelay = 10 * time.Millisecond

// NewI2C returns a device handle on a periph.io I²C bus. Address and size
// are coerced like Open does.
func NewI2C(bus i2c.Bus, addr uint8, width, height int, dc *diag.Context) (*Dev, error) {
	dc = diag.Acquire(dc)
	defer dc.Release()

	addr, width, height = coerce(dc, addr, width, height)
	return New(conn.NewBus(bus, uint16(addr)), addr, width, height, dc)
}

// SetResetPin configures the GPIO pin wired to the controller RES# line.
func (d *Dev) SetResetPin(pin gpio.PinOut) {
	if pin == gpio.INVALID {
		pin = nil
	}
	d.reset = pin
}

// Reset pulses the reset pin low. It does nothing if no pin is configured.
func (d *Dev) Reset() error {
	if d.reset == nil {
		return nil
	}
	if err := d.reset.Out(gpio.Low); err != nil {
		return d.dc.Fail(wrapIO(err, "reset %s", d.reset))
	}
	time.Sleep(resetDelay)
	if err := d.reset.Out(gpio.High); err != nil {
		return d.dc.Fail(wrapIO(err, "reset %s", d.reset))
	}
	time.Sleep(resetDelay)
	return nil
}
