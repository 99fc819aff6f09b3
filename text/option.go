package text

import (
	"fmt"

	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/framebuffer"
)

// Option modifies how text is drawn. It is one of FontFile, RotateFont or
// RotatePixel.
type Option interface {
	option()
}

// FontFile loads the font from a TrueType file, overriding the family. The
// first FontFile given wins.
type FontFile string

// RotateFont rotates every glyph outline counter clockwise by the given
// number of degrees before rasterization. The last RotateFont given wins.
type RotateFont int

// RotatePixel rotates every drawn pixel clock wise on the framebuffer, see
// framebuffer.Rotation. Only multiples of 90 are accepted. The last
// RotatePixel given wins.
type RotatePixel int

func (FontFile) option()    {}
func (RotateFont) option()  {}
func (RotatePixel) option() {}

type settings struct {
	family  Family
	path    string
	degrees int
	pixel   framebuffer.Rotation
}

func (e *Engine) resolve(family Family, opts []Option) (settings, error) {
	if !family.valid() {
		return settings{}, fmt.Errorf("%w: font family %d", diag.ErrInvalidArgument, int(family))
	}

	s := settings{family: family, path: family.Path()}
	var haveFile bool
	for _, opt := range opts {
		switch opt := opt.(type) {
		case FontFile:
			if !haveFile {
				s.path, haveFile = string(opt), true
			}
		case RotateFont:
			s.degrees = int(opt) % 360
		case RotatePixel:
			r, err := framebuffer.RotationFromDegrees(int(opt))
			if err != nil {
				e.dc.Warnf("text: %v, using 0°", err)
			}
			s.pixel = r
		}
	}

	switch {
	case haveFile && s.path == "":
		return s, fmt.Errorf("%w: empty font file", diag.ErrMissingFontFile)
	case haveFile:
		s.family = FontCustom
	case family == FontCustom:
		return s, fmt.Errorf("%w: font family %s", diag.ErrMissingFontFile, family)
	case family == FontBasic && s.degrees != 0:
		e.dc.Warnf("text: font family %s can not be rotated, ignoring rotation by %d°", family, s.degrees)
		s.degrees = 0
	}
	return s, nil
}
