package text

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/ssd1306/diag"
)

// Family selects a font face.
type Family int

// Font families. The Vera and FreeMono families are read from their Debian
// install paths; the Go fonts and the basic bitmap font are built in.
const (
	FontVera Family = iota
	FontVeraBold
	FontVeraItalic
	FontVeraBoldItalic
	FontFreeMono
	FontFreeMonoBold
	FontFreeMonoItalic
	FontFreeMonoBoldItalic
	FontGoRegular
	FontGoMono
	FontBasic  // fixed size 7x13 bitmap font
	FontCustom // requires a FontFile option
)

// FontDefault is the family used when none is configured.
const FontDefault = FontVera

const (
	veraDir     = "/usr/share/fonts/truetype/ttf-bitstream-vera/"
	freeMonoDir = "/usr/share/fonts/truetype/freefont/"
)

var families = [...]struct {
	name string
	path string
	ttf  []byte
}{
	FontVera:               {name: "vera", path: veraDir + "Vera.ttf"},
	FontVeraBold:           {name: "vera-bold", path: veraDir + "VeraBd.ttf"},
	FontVeraItalic:         {name: "vera-italic", path: veraDir + "VeraIt.ttf"},
	FontVeraBoldItalic:     {name: "vera-bold-italic", path: veraDir + "VeraBI.ttf"},
	FontFreeMono:           {name: "freemono", path: freeMonoDir + "FreeMono.ttf"},
	FontFreeMonoBold:       {name: "freemono-bold", path: freeMonoDir + "FreeMonoBold.ttf"},
	FontFreeMonoItalic:     {name: "freemono-italic", path: freeMonoDir + "FreeMonoOblique.ttf"},
	FontFreeMonoBoldItalic: {name: "freemono-bold-italic", path: freeMonoDir + "FreeMonoBoldOblique.ttf"},
	FontGoRegular:          {name: "go", ttf: goregular.TTF},
	FontGoMono:             {name: "go-mono", ttf: gomono.TTF},
	FontBasic:              {name: "basic"},
	FontCustom:             {name: "custom"},
}

func (f Family) valid() bool {
	return f >= 0 && int(f) < len(families)
}

func (f Family) String() string {
	if !f.valid() {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return families[f].name
}

// Path is the font file of the family, empty for built-in fonts.
func (f Family) Path() string {
	if !f.valid() {
		return ""
	}
	return families[f].path
}

// ParseFamily looks up a family by name. An empty name is FontDefault.
func ParseFamily(name string) (Family, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FontDefault, nil
	}
	for f := range families {
		if families[f].name == name {
			return Family(f), nil
		}
	}
	return FontDefault, fmt.Errorf("%w: font family %q", diag.ErrInvalidArgument, name)
}
