package draw

// Bresenham calls plot for every point of the line between (x0,y0) and
// (x1,y1), both end points included. Horizontal and vertical lines are
// plotted as straight runs; everything else walks the major axis with an
// integer error term.
func Bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := x1-x0, y1-y0
	sx, sy := sign(dx), sign(dy)
	dx, dy = abs(dx), abs(dy)

	switch {
	case dx == 0:
		for i := 0; i <= dy; i++ {
			plot(x0, y0+i*sy)
		}
		return
	case dy == 0:
		for i := 0; i <= dx; i++ {
			plot(x0+i*sx, y0)
		}
		return
	}

	// Drive along the longer axis.
	major, minor := dx, dy
	x, y := x0, y0
	stepMajor := func() { x += sx }
	stepMinor := func() { y += sy }
	if dy > dx {
		major, minor = dy, dx
		stepMajor, stepMinor = stepMinor, stepMajor
	}

	e := 2*minor - major
	for i := 0; i <= major; i++ {
		plot(x, y)
		if e > 0 {
			stepMinor()
			e += 2*minor - 2*major
		} else {
			e += 2 * minor
		}
		stepMajor()
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
