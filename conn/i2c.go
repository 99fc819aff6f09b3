package conn

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// Bus writes to a device on a periph.io I²C bus.
type Bus struct {
	mu     sync.Mutex
	bus    i2c.Bus
	closer i2c.BusCloser
	conn   conn.Conn
	addr   uint16
}

// NewBus wraps an already open bus. Closing the returned Bus does not close
// the underlying bus.
func NewBus(bus i2c.Bus, addr uint16) *Bus {
	return &Bus{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: addr},
		addr: addr,
	}
}

// OpenBus opens a bus by name from the periph.io registry; an empty name
// selects the first available bus. The host drivers must be initialized.
func OpenBus(name string, addr uint16) (*Bus, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	b := NewBus(bus, addr)
	b.closer = bus
	return b, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", b.bus, b.addr)
}

// Addr is the device address.
func (b *Bus) Addr() uint16 { return b.addr }

// Write sends p in a single transaction.
func (b *Bus) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return 0, ErrClosed
	}
	if err := b.conn.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close releases the bus if it was opened by OpenBus. Closing twice is a no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	b.conn = nil
	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}
