package term

import (
	"math"
	"strings"
)

// PointTypes is the number of distinct point shapes DoPoint draws
const PointTypes = 6

const deg2rad = math.Pi / 180

// DoPoint draws point symbol number at (x, y) from moves and vectors:
// plus, X, star, box, diamond and triangle, repeating after six. A
// negative number draws a dot.
func (s *Session) DoPoint(x, y, number int) {
	t := s.term

	if t.HasDashtype {
		t.Dashtype(DashSolid, nil)
	}

	if number < 0 {
		t.Move(x, y)
		t.Vector(x, y)
		return
	}
	number %= PointTypes
	htic := int(s.termPointSize * float64(t.HTic) / 2)
	vtic := int(s.termPointSize * float64(t.VTic) / 2)

	switch number {
	case 4: // diamond
		t.Move(x-htic, y)
		t.Vector(x, y-vtic)
		t.Vector(x+htic, y)
		t.Vector(x, y+vtic)
		t.Vector(x-htic, y)
		t.Move(x, y)
		t.Vector(x, y)
	case 0: // plus
		t.Move(x-htic, y)
		t.Vector(x-htic, y)
		t.Vector(x+htic, y)
		t.Move(x, y-vtic)
		t.Vector(x, y-vtic)
		t.Vector(x, y+vtic)
	case 3: // box
		t.Move(x-htic, y-vtic)
		t.Vector(x-htic, y-vtic)
		t.Vector(x+htic, y-vtic)
		t.Vector(x+htic, y+vtic)
		t.Vector(x-htic, y+vtic)
		t.Vector(x-htic, y-vtic)
		t.Move(x, y)
		t.Vector(x, y)
	case 1: // X
		t.Move(x-htic, y-vtic)
		t.Vector(x-htic, y-vtic)
		t.Vector(x+htic, y+vtic)
		t.Move(x-htic, y+vtic)
		t.Vector(x-htic, y+vtic)
		t.Vector(x+htic, y-vtic)
	case 5: // triangle
		t.Move(x, y+4*vtic/3)
		t.Vector(x-4*htic/3, y-2*vtic/3)
		t.Vector(x+4*htic/3, y-2*vtic/3)
		t.Vector(x, y+4*vtic/3)
		t.Move(x, y)
		t.Vector(x, y)
	case 2: // star
		t.Move(x-htic, y)
		t.Vector(x-htic, y)
		t.Vector(x+htic, y)
		t.Move(x, y-vtic)
		t.Vector(x, y-vtic)
		t.Vector(x, y+vtic)
		t.Move(x-htic, y-vtic)
		t.Vector(x-htic, y-vtic)
		t.Vector(x+htic, y+vtic)
		t.Move(x-htic, y+vtic)
		t.Vector(x-htic, y+vtic)
		t.Vector(x+htic, y-vtic)
	}
}

// Arrow head geometry for heads of default size
const (
	cos15          = 0.96593
	sin15          = 0.25882
	headLongLimit  = 2.0
	headShortLimit = 0.3
	headCoeff      = 0.3
	epsilon        = 2.220446049250313e-16
)

// DoArrow draws an arrow from (sx, sy) to (ex, ey) with the session's
// arrow style. A negative head draws the heads without the shaft. Heads
// whose tip is outside the canvas are skipped.
func (s *Session) DoArrow(sx, sy, ex, ey int, headstyle int) {
	t := s.term
	as := s.ArrowStyle

	lenTic := float64(t.HTic+t.VTic) / 2
	// (dx, dy) points from the end back to the start
	dx := float64(sx - ex)
	dy := float64(sy - ey)
	lenArrow := math.Sqrt(dx*dx + dy*dy)

	head := ArrowHead(headstyle)
	if headstyle < 0 {
		head = ArrowHead(-headstyle)
	}

	saved := s.clip
	if t.Has(CanClip) {
		s.clip = nil
	} else {
		c := s.Canvas
		s.clip = &c
	}
	defer func() { s.clip = saved }()

	// no heads on arrows of zero length
	hasLen := lenArrow >= epsilon
	var xm, ym int

	if head != NoHead && hasLen {
		var x1, y1, x2, y2 int
		if as.HeadLength <= 0 {
			shortest := lenTic * headShortLimit / lenArrow
			longest := lenTic * headLongLimit / lenArrow
			coeff := math.Max(shortest, math.Min(headCoeff, longest))
			// heads sit at 15 degrees to the shaft
			x1 = int((cos15*dx - sin15*dy) * coeff)
			y1 = int((sin15*dx + cos15*dy) * coeff)
			x2 = int((cos15*dx + sin15*dy) * coeff)
			y2 = int((-sin15*dx + cos15*dy) * coeff)
			xm = (x1 + x2) / 2
			ym = (y1 + y2) / 2
		} else {
			// An arrow shorter than its head is taken to be foreshortened
			alpha := as.HeadAngle * deg2rad
			beta := as.HeadBackAngle * deg2rad
			phi := math.Atan2(-dy, -dx)

			effective := float64(as.HeadLength)
			if !as.HeadFixedSize && float64(as.HeadLength) > lenArrow/2 {
				effective = lenArrow / 2
				alpha = math.Atan(math.Tan(alpha) * float64(as.HeadLength) / effective)
				beta = math.Atan(math.Tan(beta) * float64(as.HeadLength) / effective)
			}
			backlen := math.Sin(alpha) / math.Sin(beta)

			x1 = -int(effective * math.Cos(alpha-phi))
			y1 = int(effective * math.Sin(alpha-phi))
			dx2 := -effective * math.Cos(phi+alpha)
			dy2 := -effective * math.Sin(phi+alpha)
			x2 = int(dx2)
			y2 = int(dy2)
			xm = int(dx2 + backlen*effective*math.Cos(phi+beta))
			ym = int(dy2 + backlen*effective*math.Sin(phi+beta))
		}

		if head&EndHead != 0 && s.ClipPoint(ex, ey) == 0 {
			s.drawHead([5]Point{
				{X: ex + xm, Y: ey + ym},
				{X: ex + x1, Y: ey + y1},
				{X: ex, Y: ey},
				{X: ex + x2, Y: ey + y2},
				{X: ex + xm, Y: ey + ym},
			})
		}
		if head&BackHead != 0 && s.ClipPoint(sx, sy) == 0 {
			s.drawHead([5]Point{
				{X: sx - xm, Y: sy - ym},
				{X: sx - x1, Y: sy - y1},
				{X: sx, Y: sy},
				{X: sx - x2, Y: sy - y2},
				{X: sx - xm, Y: sy - ym},
			})
		}
	}

	if headstyle >= 0 {
		if head&BackHead != 0 && hasLen && as.HeadFill != HeadNoFill {
			sx -= xm
			sy -= ym
		}
		if head&EndHead != 0 && hasLen && as.HeadFill != HeadNoFill {
			ex += xm
			ey += ym
		}
		s.DrawClipLine(sx, sy, ex, ey)
	}
}

func (s *Session) drawHead(p [5]Point) {
	fill := s.ArrowStyle.HeadFill
	if fill >= HeadFilled {
		p[0].Style = FSOpaque
		s.term.FilledPolygon(p[:])
	}
	switch {
	case fill == HeadNoFill:
		s.DrawClipPolygon(p[1:4])
	case fill != HeadNoBorder:
		s.DrawClipPolygon(p[:])
	}
}

// DoArc draws a circular arc from start to end degrees, counterclockwise.
// A positive style fills the wedge; wedge draws the radii as well.
func (s *Session) DoArc(cx, cy int, radius, start, end float64, style int, wedge bool) {
	s.term.Arc(cx, cy, radius, start, end, style, wedge)
}

func (s *Session) drawArc(cx, cy int, radius, start, end float64, style int, wedge bool) {
	const inc = 3.0
	t := s.term

	for start < 0 {
		start += 360
	}
	for end > 360 {
		end -= 360
	}
	for end < start {
		end += 360
	}

	segments := int((end - start) / inc)
	if segments < 1 {
		segments = 1
	}

	aspect := float64(t.VTic) / float64(t.HTic)
	fcx, fcy := float64(cx), float64(cy)
	vertex := make([]Point, segments+3)
	for i := 0; i < segments; i++ {
		a := deg2rad * (start + float64(i)*inc)
		vertex[i] = Point{
			X: int(fcx + math.Cos(a)*radius),
			Y: int(fcy + math.Sin(a)*radius*aspect),
		}
	}
	vertex[segments] = Point{
		X: int(fcx + math.Cos(deg2rad*end)*radius),
		Y: int(fcy + math.Sin(deg2rad*end)*radius*aspect),
	}

	complete := true
	if span := math.Abs(end - start); span > 0.1 && span < 359.9 {
		segments++
		vertex[segments] = Point{X: cx, Y: cy}
		segments++
		vertex[segments] = vertex[0]
		complete = false
	}

	if style != 0 {
		area := s.ClipPolygon(vertex[:segments])
		if len(area) > 0 {
			area[0].Style = style
		}
		t.FilledPolygon(area)
		return
	}
	if !wedge && !complete {
		segments -= 2
	}
	s.DrawClipPolygon(vertex[:segments+1])
}

// OnPage reports whether (x, y) is strictly inside the terminal area.
// Terminals that clip for themselves accept everything.
func (s *Session) OnPage(x, y int) bool {
	t := s.term
	if t.Has(CanClip) {
		return true
	}
	return 0 < x && x < t.XMax && 0 < y && y < t.YMax
}

// NewPath starts a connected path on terminals that group vectors
func (s *Session) NewPath() {
	s.term.Path(0)
}

// ClosePath closes the current path
func (s *Session) ClosePath() {
	s.term.Path(1)
}

// WriteMultiline draws text split at newlines starting at (x, y). Lines
// run downwards, or sideways for vertical text. When the terminal cannot
// justify, the offset is worked out from the estimated string width.
func (s *Session) WriteMultiline(x, y int, text string, hor Justify, vert VertJustify, angle int, font string) {
	t := s.term

	if font != "" {
		t.SetFont(font)
	}

	if vert != JustTop {
		// one fewer than the number of lines
		lines := strings.Count(text, "\n")
		if angle != 0 {
			x -= int(vert) * lines * t.VChar / 2
		} else {
			y += int(vert) * lines * t.VChar / 2
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if t.Justify(hor) {
			if s.OnPage(x, y) {
				t.PutText(x, y, line)
			}
		} else {
			n := float64(s.EstimateStrlen(line))
			var hfix, vfix int
			if angle == 0 {
				hfix = int(hor) * t.HChar * int(n) / 2
			} else {
				// relies on Left, Centre and Right being 0, 1 and 2
				hfix = int(float64(int(hor)*t.HChar)*n*math.Cos(float64(angle)*deg2rad)/2 + 0.5)
				vfix = int(float64(int(hor)*t.VChar)*n*math.Sin(float64(angle)*deg2rad)/2 + 0.5)
			}
			if s.OnPage(x-hfix, y-vfix) {
				t.PutText(x-hfix, y-vfix, line)
			}
		}

		switch angle {
		case 90, TextVertical:
			x += t.VChar
		case -90, -TextVertical:
			x -= t.VChar
		default:
			y -= t.VChar
		}
	}

	if font != "" {
		t.SetFont("")
	}
}

// DrawImage maps an image to the terminal. Terminals without image support
// get one filled rectangle per pixel, checking for interrupts between
// rows.
func (s *Session) DrawImage(img *Image) error {
	t := s.term
	if t.HasImage {
		t.Image(img)
		return nil
	}
	if !t.HasFilledPolygon || img.Cols <= 0 || img.Rows <= 0 {
		return nil
	}

	stride := 3
	if img.Mode == ImageRGBA {
		stride = 4
	}
	x0, y0 := img.Corners[0].X, img.Corners[0].Y
	x1, y1 := img.Corners[1].X, img.Corners[1].Y
	w := float64(x1-x0) / float64(img.Cols)
	h := float64(y1-y0) / float64(img.Rows)

	for row := 0; row < img.Rows; row++ {
		if s.Interrupted() {
			return ErrInterrupted
		}
		for col := 0; col < img.Cols; col++ {
			i := (row*img.Cols + col) * stride
			if i+2 >= len(img.Values) {
				return nil
			}
			if stride == 4 && img.Values[i+3] == 0 {
				continue
			}
			c := ColorSpec{Type: TCRGB}
			c.RGB.R = uint8(255*img.Values[i] + 0.5)
			c.RGB.G = uint8(255*img.Values[i+1] + 0.5)
			c.RGB.B = uint8(255*img.Values[i+2] + 0.5)
			c.Lt = int(c.RGB.Packed())
			t.SetColor(&c)

			left := x0 + int(float64(col)*w)
			right := x0 + int(float64(col+1)*w)
			top := y0 + int(float64(row)*h)
			bottom := y0 + int(float64(row+1)*h)
			area := s.ClipPolygon([]Point{
				{X: left, Y: top},
				{X: right, Y: top},
				{X: right, Y: bottom},
				{X: left, Y: bottom},
			})
			if len(area) == 0 {
				continue
			}
			area[0].Style = FSOpaque
			t.FilledPolygon(area)
		}
	}
	return nil
}
