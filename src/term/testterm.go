package term

import (
	"fmt"
	"math"
)

// Version is reported on the terminal test page
const Version = "1.0"

// TestTerm draws the terminal test page: border, terminal name, character
// size box, text justification and rotation, tic size, line and point
// types, arrows, line widths, dash types, fill patterns and filled
// polygons. An interrupt stops it between sections; the page is still
// ended.
func (s *Session) TestTerm() (err error) {
	t := s.term

	already := t.Has(EnhancedText)
	if !already && t.HasEnhanced {
		t.Flags |= EnhancedText
		defer func() { t.Flags &^= EnhancedText }()
	}

	if err := s.StartPlot(); err != nil {
		return err
	}
	defer func() {
		if eerr := s.EndPlot(); err == nil {
			err = eerr
		}
	}()

	xsize, ysize, xoffset, yoffset := 1.0, 1.0, 0.0, 0.0
	if s.multiplot && s.Layout != nil {
		xsize, ysize, xoffset, yoffset = s.Layout.Panel()
	}
	xmax := int(float64(t.XMax) * xsize)
	ymax := int(float64(t.YMax) * ysize)
	x0 := int(xoffset * float64(t.XMax))
	y0 := int(yoffset * float64(t.YMax))

	pWidth := int(s.PointSize * float64(t.HTic))
	keyEntryHeight := int(s.PointSize * float64(t.VTic) * 1.25)
	if keyEntryHeight < t.VChar {
		keyEntryHeight = t.VChar
	}

	t.Layer(LayerFrontText)

	// border
	t.LineWidth(1)
	t.Linetype(LTBlack)
	s.NewPath()
	t.Move(x0, y0)
	t.Vector(x0+xmax-1, y0)
	t.Vector(x0+xmax-1, y0+ymax-1)
	t.Vector(x0, y0+ymax-1)
	t.Vector(x0, y0)
	s.ClosePath()

	if t.Name == UnknownName {
		return ErrUnknownTerminalTest
	}
	t.Justify(Left)
	t.PutText(x0+t.HChar*2, y0+ymax-t.VChar, fmt.Sprintf("%s  terminal test", t.Name))
	t.PutText(x0+t.HChar*2, y0+ymax-int(float64(t.VChar)*2.25), fmt.Sprintf("plotterm version %s  ", Version))

	s.testAxesAndText(x0, y0, xmax, ymax)
	if s.Interrupted() {
		return ErrInterrupted
	}

	if t.Has(EnhancedText) {
		t.PutText(x0+int(float64(xmax)*0.5), y0+int(float64(ymax)*0.40),
			"Enhanced text:   {x@_{0}^{n+1}}")
		t.PutText(x0+int(float64(xmax)*0.5), y0+int(float64(ymax)*0.35),
			"&{Enhanced text:  }{/:Bold Bold}{/:Italic  Italic}")
		t.SetFont("")
	}

	s.testJustification(x0, y0, xmax, ymax)
	s.testTics(x0, y0, xmax, ymax)
	if s.Interrupted() {
		return ErrInterrupted
	}

	// line and point types
	x := x0 + xmax - t.HChar*7 - pWidth
	y := y0 + ymax - keyEntryHeight
	t.PointSize(s.PointSize)
	for i := -2; y > y0+keyEntryHeight; i++ {
		ls := DefaultLP()
		ls.LWidth = 1
		s.LoadLinetype(&ls, i+1)
		if err := s.ApplyLP(&ls); err != nil {
			return err
		}

		label := fmt.Sprintf("%d", i+1)
		if t.Justify(Right) {
			t.PutText(x, y, label)
		} else {
			t.PutText(x-len(label)*t.HChar, y, label)
		}
		t.Move(x+t.HChar, y)
		t.Vector(x+t.HChar*5, y)
		if i >= -1 {
			t.Point(x+t.HChar*6+pWidth/2, y, i)
		}
		y -= keyEntryHeight
	}
	if s.Interrupted() {
		return ErrInterrupted
	}

	s.testArrows(x0, y0, xmax, ymax)
	if s.Interrupted() {
		return ErrInterrupted
	}

	// line widths
	t.Justify(Left)
	xl := xmax / 10
	yl := ymax / 25
	x = x0 + int(float64(xmax)*0.075)
	y = y0 + yl
	for i := 1; i < 7; i++ {
		t.LineWidth(float64(i))
		t.Linetype(LTBlack)
		t.Move(x, y)
		t.Vector(x+xl, y)
		t.PutText(x+xl, y, fmt.Sprintf("  lw %1d", i))
		y += yl
	}
	t.PutText(x, y, "linewidth")

	// native dash types
	t.Justify(Left)
	x = x0 + int(float64(xmax)*0.3)
	y = y0 + yl
	black := BlackColorSpec
	for i := 0; i < 5; i++ {
		t.LineWidth(1)
		t.Linetype(LTSolid)
		t.Dashtype(i, nil)
		t.SetColor(&black)
		t.Move(x, y)
		t.Vector(x+xl, y)
		t.PutText(x+xl, y, fmt.Sprintf("  dt %1d", i+1))
		y += yl
	}
	t.PutText(x, y, "dashtype")
	if s.Interrupted() {
		return ErrInterrupted
	}

	s.testFills(x0, y0, xmax, ymax)
	return nil
}

func (s *Session) testAxesAndText(x0, y0, xmax, ymax int) {
	t := s.term

	t.Linetype(LTAxis)
	t.Move(x0+xmax/2, y0)
	t.Vector(x0+xmax/2, y0+ymax-1)
	t.Move(x0, y0+ymax/2)
	t.Vector(x0+xmax-1, y0+ymax/2)

	// character width and height
	t.Linetype(LTSolid)
	s.NewPath()
	cx, cy := x0+xmax/2, y0+ymax/2
	t.Move(cx-t.HChar*10, cy+t.VChar/2)
	t.Vector(cx+t.HChar*10, cy+t.VChar/2)
	t.Vector(cx+t.HChar*10, cy-t.VChar/2)
	t.Vector(cx-t.HChar*10, cy-t.VChar/2)
	t.Vector(cx-t.HChar*10, cy+t.VChar/2)
	s.ClosePath()
	t.PutText(cx-t.HChar*10, cy, "12345678901234567890")
	t.PutText(cx-t.HChar*10, cy+int(float64(t.VChar)*1.4), "test of character width:")
	t.Linetype(LTBlack)
}

func (s *Session) testJustification(x0, y0, xmax, ymax int) {
	t := s.term
	cx, cy := x0+xmax/2, y0+ymax/2

	t.Justify(Left)
	t.PutText(cx, cy+t.VChar*6, "left justified")
	str := "centre+d text"
	if t.Justify(Centre) {
		t.PutText(cx, cy+t.VChar*5, str)
	} else {
		t.PutText(cx-len(str)*t.HChar/2, cy+t.VChar*5, str)
	}
	str = "right justified"
	if t.Justify(Right) {
		t.PutText(cx, cy+t.VChar*4, str)
	} else {
		t.PutText(cx-len(str)*t.HChar, cy+t.VChar*4, str)
	}

	t.Linetype(1)
	str = "rotated ce+ntred text"
	if t.TextAngle(TextVertical) {
		if t.Justify(Centre) {
			t.PutText(x0+t.VChar, cy, str)
		} else {
			t.PutText(x0+t.VChar, cy-len(str)*t.HChar/2, str)
		}
		t.Justify(Left)
		t.TextAngle(45)
		t.PutText(x0+t.VChar*3, cy, " rotated by +45 deg")
		t.Justify(Left)
		t.TextAngle(-45)
		t.PutText(x0+t.VChar*2, cy, " rotated by -45 deg")
	} else {
		t.Justify(Left)
		t.PutText(x0+t.HChar*2, cy-t.VChar*2, "can't rotate text")
	}
	t.Justify(Left)
	t.TextAngle(0)
}

func (s *Session) testTics(x0, y0, xmax, ymax int) {
	const ticscale = 1.0
	t := s.term

	t.Linetype(2)
	tx := x0 + xmax/2 + int(float64(t.HTic)*(1+ticscale))
	t.Move(tx, y0+ymax-1)
	t.Vector(tx, y0+int(float64(ymax)-ticscale*float64(t.VTic)))
	ty := y0 + int(float64(ymax)-float64(t.VTic)*(1+ticscale))
	t.Move(x0+xmax/2, ty)
	t.Vector(x0+xmax/2+int(ticscale*float64(t.HTic)), ty)
	t.Justify(Right)
	t.PutText(x0+xmax/2-t.HChar, y0+ymax-t.VChar, "show ticscale")
	t.Justify(Left)
	t.Linetype(LTBlack)
}

func (s *Session) testArrows(x0, y0, xmax, ymax int) {
	t := s.term

	t.LineWidth(1)
	t.Linetype(0)
	t.Dashtype(DashSolid, nil)
	x := x0 + int(float64(xmax)*0.28)
	y := y0 + int(float64(ymax)*0.5)
	xl := t.HTic * 7
	yl := t.VTic * 7

	saved := s.ArrowStyle.HeadFill
	defer func() { s.ArrowStyle.HeadFill = saved }()

	s.ArrowStyle.HeadFill = HeadNoFill
	t.Arrow(x, y, x+xl, y, int(EndHead))
	s.ArrowStyle.HeadFill = HeadEmpty
	t.Arrow(x, y, x-xl, y, int(EndHead))
	s.ArrowStyle.HeadFill = HeadFilled
	t.Arrow(x, y, x, y+yl, int(EndHead))
	s.ArrowStyle.HeadFill = HeadEmpty
	t.Arrow(x, y, x, y-yl, int(EndHead))
	s.ArrowStyle.HeadFill = HeadNoBorder
	xl = t.HTic * 5
	yl = t.VTic * 5
	t.Arrow(x-xl, y-yl, x+xl, y+yl, int(BothHeads))
	t.Arrow(x-xl, y+yl, x, y, int(NoHead))
	s.ArrowStyle.HeadFill = HeadEmpty
	t.Arrow(x, y, x+xl, y-yl, int(BackHead))
}

func (s *Session) testFills(x0, y0, xmax, ymax int) {
	t := s.term

	// fill patterns
	x := x0 + int(float64(xmax)*0.5)
	y := y0
	xl := xmax / 40
	yl := ymax / 8
	t.LineWidth(1)
	t.Linetype(LTBlack)
	t.Justify(Centre)
	t.PutText(x+xl*7, y+yl+int(float64(t.VChar)*1.5), "pattern fill")
	for i := 0; i < 9; i++ {
		style := i<<4 + FSPattern
		t.FillBox(style, x, y, xl, yl)
		s.NewPath()
		t.Move(x, y)
		t.Vector(x, y+yl)
		t.Vector(x+xl, y+yl)
		t.Vector(x+xl, y)
		t.Vector(x, y)
		s.ClosePath()
		t.PutText(x+xl/2, y+yl+int(float64(t.VChar)*0.5), fmt.Sprintf("%2d", i))
		x += int(float64(xl) * 1.5)
	}

	cenX := x0 + int(0.70*float64(xmax))
	cenY := y0 + int(0.83*float64(ymax))
	radius := xmax / 20

	str := "No filled polygons"
	if t.HasFilledPolygon {
		const n = 6
		for j := 0; j <= 1; j++ {
			ix := cenX + j*radius
			iy := cenY - j*radius/2
			corners := make([]Point, n+1)
			for i := 0; i < n; i++ {
				a := 2 * math.Pi * float64(i) / n
				corners[i] = Point{
					X: int(float64(ix) + float64(radius)*math.Cos(a)),
					Y: int(float64(iy) + float64(radius)*math.Sin(a)),
				}
			}
			corners[n] = corners[0]
			if j == 0 {
				t.Linetype(2)
				corners[0].Style = FSOpaque
			} else {
				t.Linetype(1)
				corners[0].Style = FSTransparentSolid + 50<<4
			}
			t.FilledPolygon(corners)
		}
		str = "filled polygons:"
	}
	t.Linetype(LTBlack)
	off := 0
	if !t.Justify(Centre) {
		off = t.HChar * len(str) / 2
	}
	t.PutText(cenX+off, cenY+radius+int(float64(t.VChar)*0.5), str)
}
