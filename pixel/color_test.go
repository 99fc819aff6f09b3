package pixel

import (
	"image/color"
	"testing"
)

func TestMono(t *testing.T) {
	for y := 0; y < 2; y++ {
		t.Run("", func(it *testing.T) {
			c := Off
			if y > 0 {
				c = On
			}
			r, g, b, _ := c.RGBA()
			y *= 0xF
			want := uint32(y | y<<4 | y<<8 | y<<12)
			if r != want {
				it.Errorf("expected red to be %#04x, got %#04x", want, r)
			}
			if g != want {
				it.Errorf("expected green to be %#04x, got %#04x", want, g)
			}
			if b != want {
				it.Errorf("expected blue to be %#04x, got %#04x", want, b)
			}
		})
	}
}

func TestMonoModel(t *testing.T) {
	tests := []struct {
		Name  string
		Color color.Color
		Want  Mono
	}{
		{"black", color.Black, Off},
		{"white", color.White, On},
		{"transparent", color.Transparent, Off},
		{"dark gray", color.Gray{Y: 0x40}, Off},
		{"light gray", color.Gray{Y: 0xC0}, On},
		{"red", color.RGBA{R: 0xFF, A: 0xFF}, Off},
		{"green", color.RGBA{G: 0xFF, A: 0xFF}, On},
		{"on", On, On},
		{"off", Off, Off},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if v := MonoModel.Convert(test.Color); v != test.Want {
				it.Errorf("expected %s, got %v", test.Want, v)
			}
			if v := IsOn(test.Color); v != test.Want.On {
				it.Errorf("expected IsOn to be %t, got %t", test.Want.On, v)
			}
		})
	}
}

func TestMonoInvert(t *testing.T) {
	if On.Invert() != Off || Off.Invert() != On {
		t.Error("invert did not flip the color")
	}
}
