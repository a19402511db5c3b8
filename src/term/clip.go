package term

// Outcodes returned by ClipPoint
const (
	ClipLeft   = 0x01
	ClipRight  = 0x02
	ClipBottom = 0x04
	ClipTop    = 0x08
)

// ClipPoint returns which sides of the clip area (x, y) lies beyond, or 0
// if it is inside or there is no clip area
func (s *Session) ClipPoint(x, y int) int {
	c := s.clip
	if c == nil {
		return 0
	}
	code := 0
	if x < c.XLeft {
		code |= ClipLeft
	}
	if x > c.XRight {
		code |= ClipRight
	}
	if y < c.YBot {
		code |= ClipBottom
	}
	if y > c.YTop {
		code |= ClipTop
	}
	return code
}

// ClipLine clips a segment to the clip area with Cohen-Sutherland
// outcodes. It returns 0 if the segment is entirely outside, 1 if it is
// entirely inside and -1 if it was shortened. Direction is preserved.
func (s *Session) ClipLine(x1, y1, x2, y2 *int) int {
	pos1 := s.ClipPoint(*x1, *y1)
	pos2 := s.ClipPoint(*x2, *y2)
	if pos1 == 0 && pos2 == 0 {
		return 1
	}
	if pos1&pos2 != 0 {
		return 0
	}
	c := s.clip

	var xi, yi [4]int
	count := 0
	dx := float64(*x2 - *x1)
	dy := float64(*y2 - *y1)

	if dy != 0 {
		x := float64(c.YBot-*y2)*dx/dy + float64(*x2)
		if x >= float64(c.XLeft) && x <= float64(c.XRight) {
			xi[count], yi[count] = int(x), c.YBot
			count++
		}
		x = float64(c.YTop-*y2)*dx/dy + float64(*x2)
		if x >= float64(c.XLeft) && x <= float64(c.XRight) {
			xi[count], yi[count] = int(x), c.YTop
			count++
		}
	}
	if dx != 0 {
		y := float64(c.XLeft-*x2)*dy/dx + float64(*y2)
		if y >= float64(c.YBot) && y <= float64(c.YTop) {
			xi[count], yi[count] = c.XLeft, int(y)
			count++
		}
		y = float64(c.XRight-*x2)*dy/dx + float64(*y2)
		if y >= float64(c.YBot) && y <= float64(c.YTop) {
			xi[count], yi[count] = c.XRight, int(y)
			count++
		}
	}
	if count < 2 {
		return 0
	}

	// A line through a corner hits two boundaries at the same point
	if count > 2 && xi[0] == xi[1] && yi[0] == yi[1] {
		xi[1], yi[1] = xi[2], yi[2]
	}

	xmin, xmax := min(*x1, *x2), max(*x1, *x2)
	ymin, ymax := min(*y1, *y2), max(*y1, *y2)

	switch {
	case pos1 != 0 && pos2 != 0:
		if dx*float64(xi[1]-xi[0]) < 0 || dy*float64(yi[1]-yi[0]) < 0 {
			*x1, *y1, *x2, *y2 = xi[1], yi[1], xi[0], yi[0]
		} else {
			*x1, *y1, *x2, *y2 = xi[0], yi[0], xi[1], yi[1]
		}
	case pos1 != 0:
		if dx*float64(*x2-xi[0])+dy*float64(*y2-yi[0]) > 0 {
			*x1, *y1 = xi[0], yi[0]
		} else {
			*x1, *y1 = xi[1], yi[1]
		}
	default:
		if dx*float64(xi[0]-*x1)+dy*float64(yi[0]-*y1) > 0 {
			*x2, *y2 = xi[0], yi[0]
		} else {
			*x2, *y2 = xi[1], yi[1]
		}
	}

	if *x1 < xmin || *x1 > xmax || *x2 < xmin || *x2 > xmax ||
		*y1 < ymin || *y1 > ymax || *y2 < ymin || *y2 > ymax {
		return 0
	}
	return -1
}

// DrawClipLine draws the visible part of a segment
func (s *Session) DrawClipLine(x1, y1, x2, y2 int) {
	if s.ClipLine(&x1, &y1, &x2, &y2) == 0 {
		return
	}
	s.term.Move(x1, y1)
	s.term.Vector(x2, y2)
}

// DrawClipPolygon draws the visible parts of a connected path, moving
// only where the path re-enters the clip area
func (s *Session) DrawClipPolygon(p []Point) {
	if len(p) <= 1 {
		return
	}
	t := s.term

	x1, y1 := p[0].X, p[0].Y
	pos1 := s.ClipPoint(x1, y1)
	if pos1 == 0 {
		t.Move(x1, y1)
	}

	for i := 1; i < len(p); i++ {
		x2, y2 := p[i].X, p[i].Y
		pos2 := s.ClipPoint(x2, y2)
		ret := s.ClipLine(&x1, &y1, &x2, &y2)

		if ret != 0 {
			if pos1 != 0 {
				t.Move(x1, y1)
			}
			t.Vector(x2, y2)
		}

		x1, y1 = p[i].X, p[i].Y
		// An end point inside a segment judged outside keeps the old state
		if !(ret == 0 && pos2 == 0) {
			pos1 = pos2
		}
	}
}

// DrawClipArrow clips an arrow's shaft and drops heads whose tips are
// outside, then draws it
func (s *Session) DrawClipArrow(sx, sy, ex, ey int, head ArrowHead) {
	if s.ClipPoint(sx, sy) != 0 {
		head &^= BackHead
	}
	if s.ClipPoint(ex, ey) != 0 {
		head &^= EndHead
	}
	s.ClipLine(&sx, &sy, &ex, &ey)
	s.term.Arrow(sx, sy, ex, ey, int(head))
}

// ClipPolygon clips a closed polygon to the clip area with
// Sutherland-Hodgman. The input is returned unchanged when there is no
// clip area.
func (s *Session) ClipPolygon(in []Point) []Point {
	c := s.clip
	if c == nil {
		out := make([]Point, len(in))
		copy(out, in)
		return out
	}

	// Clip window corners counterclockwise from the top left
	boundary := [5]Point{
		{X: c.XLeft, Y: c.YTop},
		{X: c.XLeft, Y: c.YBot},
		{X: c.XRight, Y: c.YBot},
		{X: c.XRight, Y: c.YTop},
		{X: c.XLeft, Y: c.YTop},
	}

	out := append([]Point(nil), in...)
	for i := 0; i < 4; i++ {
		out = clipToBoundary(out, boundary[i], boundary[i+1])
	}
	return out
}

func insideBoundary(v, b0, b1 Point) bool {
	switch {
	case b1.X > b0.X: // bottom
		return v.Y >= b0.Y
	case b1.X < b0.X: // top
		return v.Y <= b0.Y
	case b1.Y > b0.Y: // right
		return v.X <= b1.X
	case b1.Y < b0.Y: // left
		return v.X >= b1.X
	}
	return false
}

func intersectBoundary(first, second, b0, b1 Point) Point {
	p := first
	if b0.Y == b1.Y {
		p.Y = b0.Y
		p.X = first.X + (b0.Y-first.Y)*(second.X-first.X)/(second.Y-first.Y)
	} else {
		p.X = b0.X
		p.Y = first.Y + (b0.X-first.X)*(second.Y-first.Y)/(second.X-first.X)
	}
	return p
}

func clipToBoundary(in []Point, b0, b1 Point) []Point {
	if len(in) == 0 {
		return nil
	}
	out := make([]Point, 0, 2*len(in))
	prev := in[len(in)-1]
	for _, curr := range in {
		if insideBoundary(curr, b0, b1) {
			if !insideBoundary(prev, b0, b1) {
				out = append(out, intersectBoundary(prev, curr, b0, b1))
			}
			out = append(out, curr)
		} else if insideBoundary(prev, b0, b1) {
			out = append(out, intersectBoundary(prev, curr, b0, b1))
		}
		prev = curr
	}
	return out
}
