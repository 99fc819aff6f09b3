package ssd1306

import (
	"bytes"
	"errors"
	"testing"

	"github.com/BeatGlow/ssd1306/diag"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		cmd  Command
		data []byte
		want []byte
	}{
		{PowerOff, nil, []byte{0x80, 0xae}},
		{PowerOn, nil, []byte{0x80, 0xaf}},
		{NOP, nil, []byte{0x80, 0xe3}},
		{MemAddrHorizontal, nil, []byte{0x80, 0x20, 0x80, 0x00}},
		{MemAddrPage, nil, []byte{0x80, 0x20, 0x80, 0x02}},
		{ColumnAddr, []byte{0, 127}, []byte{0x80, 0x21, 0x80, 0x00, 0x80, 0x7f}},
		{ColumnAddr, []byte{0xff}, []byte{0x80, 0x21, 0x80, 0x00, 0x80, 0x7f}},
		{PageAddr, []byte{1, 0x0b}, []byte{0x80, 0x22, 0x80, 0x01, 0x80, 0x03}},
		{DisplayStartLine, []byte{0x45}, []byte{0x80, 0x45}},
		{DisplayOffset, []byte{0xff}, []byte{0x80, 0xd3, 0x80, 0x3f}},
		{DisplayContrast, []byte{0x7f}, []byte{0x80, 0x81, 0x80, 0x7f}},
		{DisplayContrast, nil, []byte{0x80, 0x81, 0x80, 0x7f}},
		{SegmentRemap, []byte{0x03}, []byte{0x80, 0xa1}},
		{MuxRatio, []byte{63}, []byte{0x80, 0xa8, 0x80, 0x3f}},
		{ComPinConfig, []byte{0x12}, []byte{0x80, 0xda, 0x80, 0x12}},
		{VCOMHDeselect, []byte{0xff}, []byte{0x80, 0xdb, 0x80, 0x70}},
		{EnableChargePump, nil, []byte{0x80, 0x8d, 0x80, 0x14}},
		{DisableChargePump, nil, []byte{0x80, 0x8d, 0x80, 0x10}},
		{ScrollDeactivate, nil, []byte{0x80, 0x2e}},
		{
			ScrollRightHorizontal, []byte{0, 7, 7},
			[]byte{0x80, 0x26, 0x26, 0x00, 0x00, 0x07, 0x07, 0x00, 0xff, 0x2f},
		},
		{
			// End page before start page is raised to the start page.
			ScrollLeftHorizontal, []byte{5, 0, 2},
			[]byte{0x80, 0x27, 0x27, 0x00, 0x05, 0x00, 0x05, 0x00, 0xff, 0x2f},
		},
		{
			ScrollVerticalRightHorizontal, []byte{0, 1, 7},
			[]byte{0x80, 0x29, 0x29, 0x00, 0x00, 0x01, 0x07, 0x01, 0x2f},
		},
		{
			ScrollVerticalLeftHorizontal, []byte{0, 1, 7, 0x45},
			[]byte{0x80, 0x2a, 0x2a, 0x00, 0x00, 0x01, 0x07, 0x05, 0x2f},
		},
		{ScrollVerticalArea, nil, []byte{0x80, 0xa3, 0xa3, 0x00, 0x40, 0x2f}},
		{ScrollVerticalArea, []byte{8, 0xff}, []byte{0x80, 0xa3, 0xa3, 0x08, 0x7f, 0x2f}},
	}
	for _, test := range tests {
		t.Run(test.cmd.String(), func(it *testing.T) {
			b, err := Encode(test.cmd, test.data...)
			if err != nil {
				it.Fatal(err)
			}
			if !bytes.Equal(b, test.want) {
				it.Errorf("expected % x, got % x", test.want, b)
			}
		})
	}
}

func TestEncodeUnknown(t *testing.T) {
	for _, cmd := range []Command{-1, commandCount, 1000} {
		if _, err := Encode(cmd); !errors.Is(err, diag.ErrInvalidArgument) {
			t.Errorf("%s: expected %v, got %v", cmd, diag.ErrInvalidArgument, err)
		}
	}
}

func TestCommandString(t *testing.T) {
	for cmd := NOP; cmd < commandCount; cmd++ {
		if commandNames[cmd] == "" {
			t.Errorf("command %d has no name", int(cmd))
		}
	}
	if v := Command(99).String(); v != "Command(99)" {
		t.Errorf("unexpected name %q", v)
	}
}
