package ssd1306

import (
	"fmt"

	"github.com/BeatGlow/ssd1306/diag"
)

// Control bytes, sent as the first byte of every write.
const (
	ControlCommand byte = 0x80 // Co=1 D/C#=0: one command byte follows
	ControlData    byte = 0x40 // Co=0 D/C#=1: the rest is display RAM
)

// MaxCommandData is the maximum number of parameter bytes of a command.
const MaxCommandData = 6

// Command is a controller operation.
type Command int

// Commands
const (
	NOP Command = iota
	PowerOff
	PowerOn
	MemAddrHorizontal
	MemAddrVertical
	MemAddrPage
	ColumnAddr
	PageAddr
	DisplayStartLine
	DisplayOffset
	DisplayClockDivFreq
	DisplayContrast
	DisplayNormal
	DisplayInverted
	DisplayDisableEntireOn
	DisplayEntireOn
	SegmentRemap
	MuxRatio
	ComScanNormal
	ComScanInverted
	ComPinConfig
	PrechargePeriod
	VCOMHDeselect
	EnableChargePump
	DisableChargePump
	ScrollDeactivate
	ScrollActivate
	ScrollLeftHorizontal
	ScrollRightHorizontal
	ScrollVerticalLeftHorizontal
	ScrollVerticalRightHorizontal
	ScrollVerticalArea
	commandCount
)

var commandNames = [commandCount]string{
	NOP:                           "NOP",
	PowerOff:                      "PowerOff",
	PowerOn:                       "PowerOn",
	MemAddrHorizontal:             "MemAddrHorizontal",
	MemAddrVertical:               "MemAddrVertical",
	MemAddrPage:                   "MemAddrPage",
	ColumnAddr:                    "ColumnAddr",
	PageAddr:                      "PageAddr",
	DisplayStartLine:              "DisplayStartLine",
	DisplayOffset:                 "DisplayOffset",
	DisplayClockDivFreq:           "DisplayClockDivFreq",
	DisplayContrast:               "DisplayContrast",
	DisplayNormal:                 "DisplayNormal",
	DisplayInverted:               "DisplayInverted",
	DisplayDisableEntireOn:        "DisplayDisableEntireOn",
	DisplayEntireOn:               "DisplayEntireOn",
	SegmentRemap:                  "SegmentRemap",
	MuxRatio:                      "MuxRatio",
	ComScanNormal:                 "ComScanNormal",
	ComScanInverted:               "ComScanInverted",
	ComPinConfig:                  "ComPinConfig",
	PrechargePeriod:               "PrechargePeriod",
	VCOMHDeselect:                 "VCOMHDeselect",
	EnableChargePump:              "EnableChargePump",
	DisableChargePump:             "DisableChargePump",
	ScrollDeactivate:              "ScrollDeactivate",
	ScrollActivate:                "ScrollActivate",
	ScrollLeftHorizontal:          "ScrollLeftHorizontal",
	ScrollRightHorizontal:         "ScrollRightHorizontal",
	ScrollVerticalLeftHorizontal:  "ScrollVerticalLeftHorizontal",
	ScrollVerticalRightHorizontal: "ScrollVerticalRightHorizontal",
	ScrollVerticalArea:            "ScrollVerticalArea",
}

func (cmd Command) String() string {
	if cmd < 0 || cmd >= commandCount {
		return fmt.Sprintf("Command(%d)", int(cmd))
	}
	return commandNames[cmd]
}

// Encode returns the bytes to write for cmd. Parameters are taken from data
// and masked to their field width; missing parameters use the controller
// reset value. Data beyond MaxCommandData bytes is ignored.
func Encode(cmd Command, data ...byte) ([]byte, error) {
	if len(data) > MaxCommandData {
		data = data[:MaxCommandData]
	}

	// param returns data[i] masked, or def if data is too short.
	param := func(i int, mask, def byte) byte {
		if i < len(data) {
			return data[i] & mask
		}
		return def
	}

	// Regular commands interleave a control byte before every byte.
	regular := func(b ...byte) []byte {
		out := make([]byte, 0, 2*len(b))
		for _, v := range b {
			out = append(out, ControlCommand, v)
		}
		return out
	}

	switch cmd {
	case NOP:
		return regular(0xe3), nil
	case PowerOff:
		return regular(0xae), nil
	case PowerOn:
		return regular(0xaf), nil
	case MemAddrHorizontal:
		return regular(0x20, 0x00), nil
	case MemAddrVertical:
		return regular(0x20, 0x01), nil
	case MemAddrPage:
		return regular(0x20, 0x02), nil
	case ColumnAddr:
		if len(data) >= 2 {
			return regular(0x21, data[0]&0x7f, data[1]&0x7f), nil
		}
		return regular(0x21, 0x00, 0x7f), nil
	case PageAddr:
		if len(data) >= 2 {
			return regular(0x22, data[0]&0x07, data[1]&0x07), nil
		}
		return regular(0x22, 0x00, 0x07), nil
	case DisplayStartLine:
		return regular(0x40 | param(0, 0x3f, 0x00)), nil
	case DisplayOffset:
		return regular(0xd3, param(0, 0x3f, 0x00)), nil
	case DisplayClockDivFreq:
		return regular(0xd5, param(0, 0xff, 0x80)), nil
	case DisplayContrast:
		return regular(0x81, param(0, 0xff, 0x7f)), nil
	case DisplayNormal:
		return regular(0xa6), nil
	case DisplayInverted:
		return regular(0xa7), nil
	case DisplayDisableEntireOn:
		return regular(0xa4), nil
	case DisplayEntireOn:
		return regular(0xa5), nil
	case SegmentRemap:
		return regular(0xa0 | param(0, 0x01, 0x00)), nil
	case MuxRatio:
		return regular(0xa8, param(0, 0xff, 0xff)), nil
	case ComScanNormal:
		return regular(0xc0), nil
	case ComScanInverted:
		return regular(0xc8), nil
	case ComPinConfig:
		return regular(0xda, param(0, 0x32, 0x02)), nil
	case PrechargePeriod:
		return regular(0xd9, param(0, 0xff, 0x22)), nil
	case VCOMHDeselect:
		return regular(0xdb, param(0, 0x70, 0x30)), nil
	case EnableChargePump:
		return regular(0x8d, 0x14), nil
	case DisableChargePump:
		return regular(0x8d, 0x10), nil
	case ScrollDeactivate:
		return regular(0x2e), nil
	case ScrollActivate:
		return regular(0x2f), nil

	// Scroll setups are sent as one command stream followed by the
	// activation, all behind a single control byte.
	case ScrollLeftHorizontal, ScrollRightHorizontal:
		op := byte(0x26)
		if cmd == ScrollLeftHorizontal {
			op = 0x27
		}
		start, step, end := scrollPages(param)
		return []byte{ControlCommand, op, op, 0x00, start, step, end, 0x00, 0xff, 0x2f}, nil
	case ScrollVerticalLeftHorizontal, ScrollVerticalRightHorizontal:
		op := byte(0x29)
		if cmd == ScrollVerticalLeftHorizontal {
			op = 0x2a
		}
		start, step, end := scrollPages(param)
		return []byte{ControlCommand, op, op, 0x00, start, step, end, param(3, 0x3f, 0x01), 0x2f}, nil
	case ScrollVerticalArea:
		return []byte{ControlCommand, 0xa3, 0xa3, param(0, 0x3f, 0x00), param(1, 0x7f, 0x40), 0x2f}, nil
	}
	return nil, fmt.Errorf("%w: unknown command %s", diag.ErrInvalidArgument, cmd)
}

// scrollPages returns the start page, step interval and end page of a scroll
// setup. The end page is never before the start page.
func scrollPages(param func(int, byte, byte) byte) (start, step, end byte) {
	start = param(0, 0x07, 0x00)
	step = param(1, 0x07, 0x00)
	end = param(2, 0x07, 0x07)
	if end < start {
		end = start
	}
	return
}
