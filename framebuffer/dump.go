package framebuffer

import (
	"bufio"
	"fmt"
	"io"
)

// Hexdump writes the buffer as hex bytes, one row of pixels per line. A nil
// w writes to the diagnostic sink.
func (fb *Framebuffer) Hexdump(w io.Writer) error {
	if w == nil {
		w = fb.dc.Writer()
	}
	return WriteHex(w, fb.buf, fb.stride)
}

// Bitdump writes the buffer as one glyph per pixel, one row of pixels per
// line. Non printable zero or one glyphs are replaced by '.' and '|'. With
// space set, every 8 pixels are followed by a space. A nil w writes to the
// diagnostic sink.
func (fb *Framebuffer) Bitdump(w io.Writer, zero, one byte, space bool) error {
	if w == nil {
		w = fb.dc.Writer()
	}
	return WriteBits(w, fb.buf, fb.stride, zero, one, space)
}

// WriteHex dumps a packed buffer with the given row stride in bytes.
func WriteHex(w io.Writer, buf []byte, stride int) error {
	if stride <= 0 {
		return nil
	}
	b := bufio.NewWriter(w)
	for row := 0; row*stride < len(buf); row++ {
		fmt.Fprintf(b, "%04X ", row)
		for _, v := range buf[row*stride : min(len(buf), (row+1)*stride)] {
			fmt.Fprintf(b, "%02X ", v)
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

// WriteBits dumps a packed buffer with the given row stride in bytes, one
// glyph per bit, most significant bit first.
func WriteBits(w io.Writer, buf []byte, stride int, zero, one byte, space bool) error {
	if stride <= 0 {
		return nil
	}
	if !printable(zero) {
		zero = '.'
	}
	if !printable(one) {
		one = '|'
	}
	b := bufio.NewWriter(w)
	for row := 0; row*stride < len(buf); row++ {
		fmt.Fprintf(b, "%04X ", row)
		for _, v := range buf[row*stride : min(len(buf), (row+1)*stride)] {
			for mask := byte(0x80); mask != 0; mask >>= 1 {
				if v&mask != 0 {
					b.WriteByte(one)
				} else {
					b.WriteByte(zero)
				}
			}
			if space {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

func printable(c byte) bool {
	return c >= 0x20 && c < 0x7f
}
