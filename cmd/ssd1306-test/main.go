package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ssd1306"
	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/draw"
	"github.com/BeatGlow/ssd1306/framebuffer"
	"github.com/BeatGlow/ssd1306/pixel"
	"github.com/BeatGlow/ssd1306/text"
)

func main() {
	configFlag := flag.String("c", "", "YAML configuration file")
	deviceFlag := flag.String("dev", "", "I²C device (default: use first available)")
	busFlag := flag.String("bus", "", "periph.io I²C bus name, instead of -dev")
	addrFlag := flag.Uint("addr", uint(ssd1306.DefaultAddr), "I²C device address")
	widthFlag := flag.Int("width", 0, "Display width")
	heightFlag := flag.Int("height", 0, "Display height")
	rotateFlag := flag.Int("rotate", 0, "Pixel rotation in degrees")
	fontFlag := flag.String("font", "", "Font family")
	fontFileFlag := flag.String("font-file", "", "TrueType font file")
	sizeFlag := flag.Int("size", 0, "Font size in pixels")
	textFlag := flag.String("text", "Hello, world!", "Text to draw")
	imageFlag := flag.String("image", "", "PNG image to draw dithered behind the text")
	scrollFlag := flag.Bool("scroll", false, "Scroll the display after drawing")
	dryRunFlag := flag.Bool("dry-run", false, "Dump the framebuffer instead of opening the display")
	debugFlag := flag.Bool("d", false, "Enable debug messages")
	flag.Parse()

	config := ssd1306.DefaultConfig
	if *configFlag != "" {
		loaded, err := ssd1306.LoadConfig(*configFlag)
		if err != nil {
			fatal(err)
		}
		config = *loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dev":
			config.Device = *deviceFlag
		case "bus":
			config.Bus = *busFlag
		case "addr":
			config.Addr = uint8(*addrFlag)
		case "width":
			config.Width = *widthFlag
		case "height":
			config.Height = *heightFlag
		case "rotate":
			config.Rotation = *rotateFlag
		case "font":
			config.Font.Family = *fontFlag
		case "font-file":
			config.Font.File = *fontFileFlag
		case "size":
			config.Font.Size = *sizeFlag
		}
	})
	if *debugFlag {
		config.LogLevel = logrus.DebugLevel.String()
	}
	if err := config.Validate(); err != nil {
		fatal(err)
	}

	dc, err := config.Context(colorable.NewColorableStderr())
	if err != nil {
		fatal(err)
	}
	defer dc.Release()

	var background image.Image
	if *imageFlag != "" {
		if background, err = loadImage(*imageFlag); err != nil {
			fatal(err)
		}
	}

	if *dryRunFlag {
		if config.Width == 0 {
			config.Width = ssd1306.DefaultWidth
		}
		if config.Height == 0 {
			config.Height = ssd1306.DefaultHeight
		}
		fb, err := render(&config, config.Width, config.Height, *textFlag, background, dc)
		if err != nil {
			fatal(err)
		}
		defer fb.Close()
		if err = fb.Bitdump(colorable.NewColorableStdout(), ' ', '#', false); err != nil {
			fatal(err)
		}
		return
	}

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	dev, err := config.Open(dc)
	if err != nil {
		fatal(err)
	}
	defer dev.Close()
	fmt.Printf("using display: %s\n", dev)

	if err = dev.Reset(); err != nil {
		fatal(err)
	}
	if err = dev.Initialize(); err != nil {
		fatal(err)
	}
	if config.Contrast != nil {
		if err = dev.SetContrast(*config.Contrast); err != nil {
			fatal(err)
		}
	}

	fb, err := render(&config, dev.Width(), dev.Height(), *textFlag, background, dc)
	if err != nil {
		fatal(err)
	}
	defer fb.Close()
	if err = dev.Update(fb); err != nil {
		fatal(err)
	}

	if *scrollFlag {
		if err = dev.Scroll(ssd1306.Left, ssd1306.FrameRate5, 0, -1); err != nil {
			fatal(err)
		}
		time.Sleep(5 * time.Second)
		if err = dev.StopScroll(); err != nil {
			fatal(err)
		}
		if err = dev.Update(fb); err != nil {
			fatal(err)
		}
	}
}

func loadImage(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	i, _, err := image.Decode(f)
	return i, err
}

// render draws a brick border, a rounded box with the background image and
// the text.
func render(config *ssd1306.Config, width, height int, s string, background image.Image, dc *diag.Context) (*framebuffer.Framebuffer, error) {
	fb, err := framebuffer.New(width, height, dc)
	if err != nil {
		return nil, err
	}

	fb.DrawBricks()
	box := image.Rect(2, 2, width-2, height-2)
	if background != nil {
		draw.Dither(fb, box.Inset(1), background, background.Bounds().Min)
	} else {
		draw.Box(fb, box, pixel.Off)
	}
	draw.RoundedRectangle(fb, box, 3, pixel.On)

	family, err := config.Family()
	if err != nil {
		fb.Close()
		return nil, err
	}
	size := config.Font.Size
	if size == 0 {
		size = height / 3
	}

	engine := text.NewEngine(dc)
	defer engine.Close()
	n, bbox, err := engine.DrawText(fb, s, 6, height/2+size/3, family, size, config.TextOptions()...)
	if err != nil {
		fb.Close()
		return nil, err
	}
	dc.Infof("drew %d code points in %s", n, bbox)
	return fb, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
