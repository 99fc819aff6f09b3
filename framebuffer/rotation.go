package framebuffer

import (
	"fmt"

	"github.com/BeatGlow/ssd1306/diag"
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Degrees returns the rotation angle in degrees.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// RotationFromDegrees converts an angle that is a multiple of 90 into a
// Rotation. Negative angles and angles of a full turn or more are normalized.
func RotationFromDegrees(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return NoRotation, fmt.Errorf("%w: pixel rotation %d is not a multiple of 90", diag.ErrUnsupportedOption, deg)
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return Rotation(deg / 90), nil
}
