package term

import (
	"math"

	"plotterm/src/palette"
)

// ApplyLP sends a line style to the terminal. Point size goes first, then
// line width, since some terminals derive the linetype from the width.
// Color goes last so linetype and dashtype calls cannot clobber it.
func (s *Session) ApplyLP(lp *LPStyle) error {
	t := s.term
	lt := lp.LType
	dt := lp.DType

	if lp.Flags&LPShowPoints != 0 {
		if lp.PSize < 0 {
			t.PointSize(s.PointSize)
		} else {
			t.PointSize(lp.PSize)
		}
	}

	t.LineWidth(lp.LWidth)

	switch {
	case LTColorFromColumn < lt && lt < 0:
		t.Linetype(lt)
	case t.Has(NullSetColor):
		// The linetype carries both color and dash pattern
		t.Linetype(lt - 1)
		return nil
	default:
		t.Linetype(LTSolid)
	}

	switch {
	case lt == LTAxis:
		// the axis linetype has its own dash pattern
	case dt == DashCustom:
		pattern := lp.CustomDash
		t.Dashtype(dt, &pattern)
	case dt == DashSolid:
		t.Dashtype(dt, nil)
	case dt >= 0:
		t.Dashtype(dt, nil)
	}

	color := lp.Color
	return s.ApplyColorSpec(&color)
}

// ApplyColorSpec sets the terminal color from a color request. Palette
// requests are resolved to RGB before the terminal sees them.
func (s *Session) ApplyColorSpec(tc *ColorSpec) error {
	t := s.term
	black := BlackColorSpec

	if tc.Type == TCLinestyle {
		style := s.LPUseProperties(tc.Lt)
		tc = &style.Color
	}

	switch tc.Type {
	case TCDefault:
		t.SetColor(&black)
		return nil
	case TCLt:
		t.SetColor(tc)
		return nil
	case TCRGB:
		// Monochrome terminals still show "rgb variable" colors
		if s.monochromeTerminal() && tc.Value >= 0 {
			t.SetColor(&black)
		} else {
			c := *tc
			c.RGB = palette.FromPacked(uint32(tc.Lt))
			t.SetColor(&c)
		}
		return nil
	}

	if s.Palette == nil || s.Palette.ColorMode == palette.ModeNone {
		t.SetColor(&black)
		return nil
	}

	switch tc.Type {
	case TCZ, TCCB:
		return s.SetColor(s.CBToGray(tc.Value))
	case TCFrac:
		if s.Palette.Positive {
			return s.SetColor(tc.Value)
		}
		return s.SetColor(1 - tc.Value)
	}
	return nil
}

// SetColor sets a palette color. NaN selects the background.
func (s *Session) SetColor(gray float64) error {
	if math.IsNaN(gray) {
		c := ColorSpec{Type: TCLt, Lt: LTBackground, Value: gray}
		s.term.SetColor(&c)
		return nil
	}
	rgb, err := s.Palette.RGB255MaxColorsFromGray(gray)
	if err != nil {
		return err
	}
	c := ColorSpec{Type: TCFrac, Lt: LTBackground, Value: gray, RGB: rgb}
	s.term.SetColor(&c)
	return nil
}

// SetRGBColor sets an explicit color
func (s *Session) SetRGBColor(c palette.RGB255) error {
	spec := RGBColorSpec(c)
	return s.ApplyColorSpec(&spec)
}

// CBToGray maps a data value onto the palette's gray range
func (s *Session) CBToGray(cb float64) float64 {
	lo, hi := s.CB.Min, s.CB.Max
	pos := s.Palette == nil || s.Palette.Positive
	if cb <= lo {
		if pos {
			return 0
		}
		return 1
	}
	if cb >= hi {
		if pos {
			return 1
		}
		return 0
	}
	if s.CB.Log && lo > 0 {
		base := s.CB.LogBase
		if base <= 0 {
			base = 10
		}
		lb := math.Log(base)
		cb, lo, hi = math.Log(cb)/lb, math.Log(lo)/lb, math.Log(hi)/lb
	}
	g := (cb - lo) / (hi - lo)
	if pos {
		return g
	}
	return 1 - g
}

func (s *Session) monochromeTerminal() bool {
	return s.Monochrome || s.term.Has(Monochrome)
}

// LPUseProperties returns the line style with the given tag, falling back
// to the linetype of the same number
func (s *Session) LPUseProperties(tag int) LPStyle {
	if lp, ok := s.LineStyles[tag]; ok {
		return lp
	}
	lp := DefaultLP()
	s.LoadLinetype(&lp, tag)
	return lp
}

// LoadLinetype fills lp from linetype tag. User-defined linetypes win;
// undefined tags past the recycle count wrap around. Anything else gets
// the terminal's own linetype tag-1.
func (s *Session) LoadLinetype(lp *LPStyle, tag int) {
	recycled := false

	if tag > 0 && s.monochromeTerminal() {
		for {
			if mono, ok := s.MonoLinetypes[tag]; ok {
				*lp = mono
				return
			}
			if tag > s.MonoRecycle && s.MonoRecycle > 0 {
				tag = (tag-1)%s.MonoRecycle + 1
				continue
			}
			return
		}
	}

	for {
		if def, ok := s.Linetypes[tag]; ok {
			lp.LType = def.LType
			lp.LWidth = def.LWidth
			lp.Color = def.Color
			lp.DType = def.DType
			lp.CustomDash = def.CustomDash

			// Terminals without SetColor only understand the tag
			if s.term.Has(NullSetColor) {
				lp.LType = tag
			}

			// Point properties do not recycle
			if !recycled {
				lp.PType = def.PType
				lp.PInterval = def.PInterval
				lp.PSize = def.PSize
			}
			return
		}
		if tag > s.LinetypeRecycle && s.LinetypeRecycle > 0 {
			tag = (tag-1)%s.LinetypeRecycle + 1
			recycled = true
			continue
		}
		break
	}

	lp.LType = tag - 1
	lp.Color = ColorSpec{Type: TCLt, Lt: lp.LType}
	lp.DType = DashSolid
	if tag <= 0 {
		lp.PType = -1
	} else {
		lp.PType = tag - 1
	}
}

// DefaultMonoLinetypes is the monochrome linetype set: solid and dashed
// lines of width 1, then a heavier solid line and a dot-dash pattern
func DefaultMonoLinetypes() []LPStyle {
	base := func(dt int, lw float64) LPStyle {
		lp := DefaultLP()
		lp.LType = LTBlack
		lp.DType = dt
		lp.LWidth = lw
		lp.Color = BlackColorSpec
		return lp
	}
	custom := base(DashCustom, 1.2)
	custom.CustomDash = DashPattern{Segments: [8]float64{16, 8, 2, 5, 2, 5, 2, 8}}
	return []LPStyle{
		base(DashSolid, 1),
		base(1, 1),
		base(2, 1),
		base(3, 1),
		base(0, 2),
		custom,
	}
}

// InitMonochrome installs the default monochrome linetypes if none are
// defined
func (s *Session) InitMonochrome() {
	if len(s.MonoLinetypes) > 0 {
		return
	}
	for i, lp := range DefaultMonoLinetypes() {
		lp.Tag = i + 1
		s.MonoLinetypes[i+1] = lp
	}
}

// DefineLinetype sets user linetype tag
func (s *Session) DefineLinetype(tag int, lp LPStyle) {
	lp.Tag = tag
	s.Linetypes[tag] = lp
}
