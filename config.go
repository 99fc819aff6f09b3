package ssd1306

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/BeatGlow/ssd1306/conn"
	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/framebuffer"
	"github.com/BeatGlow/ssd1306/text"
)

// Config describes a display and how to draw on it.
type Config struct {
	// Device is the I²C character device; empty selects the first one.
	Device string `yaml:"device,omitempty"`

	// Bus is a periph.io I²C bus name. If set, Device is ignored.
	Bus string `yaml:"bus,omitempty"`

	// Addr is the I²C address.
	Addr uint8 `yaml:"addr"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Contrast overrides the contrast set during initialization.
	Contrast *uint8 `yaml:"contrast,omitempty"`

	// Rotation of drawn pixels in degrees, a multiple of 90.
	Rotation int `yaml:"rotation,omitempty"`

	// Reset is the GPIO pin name wired to RES#, if any.
	Reset string `yaml:"reset,omitempty"`

	Font FontConfig `yaml:"font"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level,omitempty"`
}

// FontConfig selects the text font.
type FontConfig struct {
	Family string `yaml:"family,omitempty"`
	File   string `yaml:"file,omitempty"`
	Size   int    `yaml:"size"`
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Addr:   DefaultAddr,
	Width:  DefaultWidth,
	Height: DefaultHeight,
	Font: FontConfig{
		Family: text.FontDefault.String(),
		Size:   12,
	},
	LogLevel: logrus.InfoLevel.String(),
}

// LoadConfig reads a YAML configuration file. Missing values keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", diag.ErrIO, path, err)
	}
	config := new(Config)
	*config = DefaultConfig
	if err = yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", diag.ErrInvalidArgument, path, err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, raw, 0o660); err != nil {
		return fmt.Errorf("%w: config %s: %v", diag.ErrIO, path, err)
	}
	return nil
}

// Validate checks the values that can not be coerced when opening.
func (c *Config) Validate() error {
	if _, err := c.PixelRotation(); err != nil {
		return err
	}
	if _, err := c.Family(); err != nil {
		return err
	}
	if c.Font.Size < 0 {
		return fmt.Errorf("%w: font size %d", diag.ErrInvalidArgument, c.Font.Size)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %v", diag.ErrInvalidArgument, err)
		}
	}
	return nil
}

// PixelRotation converts Rotation.
func (c *Config) PixelRotation() (framebuffer.Rotation, error) {
	return framebuffer.RotationFromDegrees(c.Rotation)
}

// Family returns the configured font family; a font file selects the custom
// family.
func (c *Config) Family() (text.Family, error) {
	if c.Font.File != "" {
		return text.FontCustom, nil
	}
	return text.ParseFamily(c.Font.Family)
}

// TextOptions returns the text options matching the configuration.
func (c *Config) TextOptions() []text.Option {
	var opts []text.Option
	if c.Font.File != "" {
		opts = append(opts, text.FontFile(c.Font.File))
	}
	if c.Rotation != 0 {
		opts = append(opts, text.RotatePixel(c.Rotation))
	}
	return opts
}

// Context returns a diagnostic context logging to w at the configured level.
func (c *Config) Context(w io.Writer) (*diag.Context, error) {
	dc := diag.New(w)
	if c.LogLevel != "" {
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			dc.Release()
			return nil, fmt.Errorf("%w: %v", diag.ErrInvalidArgument, err)
		}
		dc.Logger().SetLevel(level)
	}
	return dc, nil
}

// Open opens the configured display. The display is not initialized.
func (c *Config) Open(dc *diag.Context) (*Dev, error) {
	var (
		d   *Dev
		err error
	)
	if c.Bus != "" {
		if d, err = c.openBus(dc); err != nil {
			return nil, err
		}
	} else if d, err = Open(c.Device, c.Addr, c.Width, c.Height, dc); err != nil {
		return nil, err
	}

	if c.Reset != "" {
		pin := gpioreg.ByName(c.Reset)
		if pin == nil {
			_ = d.Close()
			return nil, dc.Fail(fmt.Errorf("%w: reset GPIO pin %q", diag.ErrInvalidArgument, c.Reset))
		}
		d.SetResetPin(pin)
	}
	return d, nil
}

func (c *Config) openBus(dc *diag.Context) (*Dev, error) {
	dc = diag.Acquire(dc)
	defer dc.Release()

	addr, width, height := coerce(dc, c.Addr, c.Width, c.Height)
	bus, err := conn.OpenBus(c.Bus, uint16(addr))
	if err != nil {
		return nil, dc.Fail(wrapIO(err, "open bus %s", c.Bus))
	}
	d, err := New(bus, addr, width, height, dc)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return d, nil
}
