package ssd1306

import (
	"fmt"

	"github.com/BeatGlow/ssd1306/diag"
)

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of refreshes between
// movement. The lower value, the higher speed.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Left Orientation = iota
	Right
	UpLeft
	UpRight
)

func (o Orientation) command() (Command, error) {
	switch o {
	case Left:
		return ScrollLeftHorizontal, nil
	case Right:
		return ScrollRightHorizontal, nil
	case UpLeft:
		return ScrollVerticalLeftHorizontal, nil
	case UpRight:
		return ScrollVerticalRightHorizontal, nil
	default:
		return NOP, fmt.Errorf("%w: scroll orientation %d", diag.ErrInvalidArgument, o)
	}
}

// Scroll scrolls an horizontal band, one column per step. Diagonal
// orientations also move the display up by one row per step.
//
// Only one scrolling operation can happen at a time; call StopScroll before
// changing scroll settings.
//
// Both startLine and endLine must be multiples of 8.
//
// Use -1 for endLine to extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	return d.ScrollVertical(o, rate, startLine, endLine, 1)
}

// ScrollVertical is like Scroll with a vertical offset in rows per step for
// the diagonal orientations.
func (d *Dev) ScrollVertical(o Orientation, rate FrameRate, startLine, endLine, offset int) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	cmd, err := o.command()
	if err != nil {
		return d.dc.Fail(err)
	}

	h := d.height
	if endLine == -1 {
		endLine = h
	}
	if startLine >= endLine {
		return d.dc.Fail(fmt.Errorf("%w: startLine (%d) must be lower than endLine (%d)", diag.ErrInvalidArgument, startLine, endLine))
	}
	if startLine&7 != 0 || startLine < 0 || startLine >= h {
		return d.dc.Fail(fmt.Errorf("%w: invalid startLine %d", diag.ErrInvalidArgument, startLine))
	}
	if endLine&7 != 0 || endLine < 0 || endLine > h {
		return d.dc.Fail(fmt.Errorf("%w: invalid endLine %d", diag.ErrInvalidArgument, endLine))
	}
	if offset < 0 || offset >= h {
		return d.dc.Fail(fmt.Errorf("%w: invalid vertical offset %d", diag.ErrInvalidArgument, offset))
	}

	startPage := byte(startLine / 8)
	endPage := byte(endLine/8 - 1)
	return d.RunCommand(cmd, startPage, byte(rate), endPage, byte(offset))
}

// SetScrollArea limits vertical scrolling to rows lines below a fixed area of
// top lines.
func (d *Dev) SetScrollArea(top, rows int) error {
	if err := d.closed(); err != nil {
		return d.context().Fail(err)
	}
	if top < 0 || rows < 0 || top+rows > d.height {
		return d.dc.Fail(fmt.Errorf("%w: scroll area of %d rows below %d rows on %d rows", diag.ErrInvalidArgument, rows, top, d.height))
	}
	return d.RunCommand(ScrollVerticalArea, byte(top), byte(rows))
}

// StopScroll stops any scrolling previously set. The display RAM must be
// rewritten afterwards.
func (d *Dev) StopScroll() error {
	return d.RunCommand(ScrollDeactivate)
}
