package conn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BeatGlow/ssd1306/internal/ioctl"
)

const (
	devPath    = "/dev"
	i2cDevPath = "/dev/i2c"
)

// Device writes to an I²C device through the kernel character device.
type Device struct {
	f    *os.File
	path string
	addr uint16
}

// OpenDevice opens the character device at path for reading and writing, and
// binds it to addr. An empty path selects the first /dev/i2c-N device.
func OpenDevice(path string, addr uint16) (*Device, error) {
	if path == "" {
		var err error
		if path, err = DefaultDevicePath(); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	if err = ioctl.SetSlave(f.Fd(), addr); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Device{
		f:    f,
		path: path,
		addr: addr,
	}, nil
}

func (d *Device) String() string {
	return fmt.Sprintf("I²C device %s address %#02x", d.path, d.addr)
}

// Path of the character device.
func (d *Device) Path() string { return d.path }

// Addr is the device address.
func (d *Device) Addr() uint16 { return d.addr }

// Write sends p in a single write call.
func (d *Device) Write(p []byte) (int, error) {
	if d.f == nil {
		return 0, ErrClosed
	}
	return d.f.Write(p)
}

// Close closes the character device. Closing twice is a no-op.
func (d *Device) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// DefaultDevicePath returns the first I²C character device.
func DefaultDevicePath() (string, error) {
	infos, err := os.ReadDir(devPath)
	if err != nil {
		return "", err
	}

	sort.Slice(infos, func(i, j int) bool {
		return strings.Compare(infos[i].Name(), infos[j].Name()) < 0
	})

	for _, info := range infos {
		name := filepath.Join(devPath, info.Name())
		if strings.HasPrefix(name, i2cDevPath+"-") {
			return name, nil
		}
	}

	return "", errors.New("no default I2C device could be found; is the i2c kernel interface loaded?")
}
