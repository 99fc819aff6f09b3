package text

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"github.com/BeatGlow/ssd1306/diag"
	"github.com/BeatGlow/ssd1306/framebuffer"
)

// DrawText draws the UTF-8 (or ASCII) string s with its first glyph origin
// on the baseline at (x, y). The size is in pixels per em.
//
// It returns the number of code points drawn and the area touched. Malformed
// input is truncated to its longest valid prefix with a warning; if that
// prefix is empty, ErrMalformedText is returned.
func (e *Engine) DrawText(fb *framebuffer.Framebuffer, s string, x, y int, family Family, size int, opts ...Option) (int, BoundingBox, error) {
	text, err := e.decodeUTF8([]byte(s))
	if err != nil {
		return 0, BoundingBox{}, e.dc.Fail(err)
	}
	return e.draw(fb, text, x, y, family, size, opts)
}

// DrawTextUTF16 is like DrawText for UTF-16 code units.
func (e *Engine) DrawTextUTF16(fb *framebuffer.Framebuffer, s []uint16, x, y int, family Family, size int, opts ...Option) (int, BoundingBox, error) {
	text, err := e.decodeUTF16(s)
	if err != nil {
		return 0, BoundingBox{}, e.dc.Fail(err)
	}
	return e.draw(fb, text, x, y, family, size, opts)
}

// DrawTextUTF32 is like DrawText for code points.
func (e *Engine) DrawTextUTF32(fb *framebuffer.Framebuffer, s []rune, x, y int, family Family, size int, opts ...Option) (int, BoundingBox, error) {
	text, err := e.decodeUTF32(s)
	if err != nil {
		return 0, BoundingBox{}, e.dc.Fail(err)
	}
	return e.draw(fb, text, x, y, family, size, opts)
}

func (e *Engine) decodeUTF8(s []byte) ([]rune, error) {
	valid := make([]byte, len(s))
	n, _, err := encoding.UTF8Validator.Transform(valid, s, true)
	switch {
	case err == nil:
		return []rune(string(valid[:n])), nil
	case err == encoding.ErrInvalidUTF8:
		return e.truncate([]rune(string(valid[:n])), "UTF-8")
	default:
		return nil, fmt.Errorf("%w: %v", diag.ErrMalformedText, err)
	}
}

func (e *Engine) decodeUTF16(s []uint16) ([]rune, error) {
	text := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		if utf16.IsSurrogate(r) {
			if i+1 == len(s) {
				return e.truncate(text, "UTF-16")
			}
			if r = utf16.DecodeRune(r, rune(s[i+1])); r == utf8.RuneError {
				return e.truncate(text, "UTF-16")
			}
			i++
		}
		text = append(text, r)
	}
	return text, nil
}

func (e *Engine) decodeUTF32(s []rune) ([]rune, error) {
	for i, r := range s {
		if !utf8.ValidRune(r) {
			return e.truncate(s[:i], "UTF-32")
		}
	}
	return s, nil
}

// truncate returns the valid prefix of malformed input with a warning. An
// empty prefix is an error.
func (e *Engine) truncate(valid []rune, enc string) ([]rune, error) {
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: invalid %s at the start of the text", diag.ErrMalformedText, enc)
	}
	e.dc.Warnf("text: invalid %s after %d code points, truncating", enc, len(valid))
	return valid, nil
}
