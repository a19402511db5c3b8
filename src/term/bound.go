package term

import "plotterm/src/palette"

// Bound is the selected terminal with every operation resolved. Fields
// are never nil: operations the driver lacks are filled with defaults
// when the terminal is bound, so callers never check before calling.
type Bound struct {
	*Entry

	Init     func(env *Env) error
	Reset    func() error
	Graphics func() error
	Text     func() error
	Move     func(x, y int)
	Vector   func(x, y int)
	Linetype func(lt int)
	PutText  func(x, y int, s string)

	Options   func(args []string, e *Entry) error
	Scale     func(x, y float64) bool
	TextAngle func(ang int) bool
	Justify   func(j Justify) bool
	Point     func(x, y, number int)
	Arrow     func(sx, sy, ex, ey int, head int)
	SetFont   func(font string) bool
	PointSize func(size float64)
	Suspend   func()
	Resume    func()
	FillBox   func(style, x, y, w, h int)
	LineWidth func(w float64)

	PaletteSize func() int
	MakePalette func(p *palette.Config)
	SetColor    func(c *ColorSpec)

	FilledPolygon func(points []Point)
	Image         func(img *Image)

	EnhancedOpen   func(font string, size, base float64, widthflag, showflag bool, overprint int)
	EnhancedWriteC func(c byte)
	EnhancedFlush  func()

	Layer    func(l Layer)
	Path     func(p int)
	Dashtype func(t int, pattern *DashPattern)
	Arc      func(cx, cy int, radius, start, end float64, style int, wedge bool)

	HasScale         bool
	HasSuspend       bool
	HasFilledPolygon bool
	HasImage         bool
	HasEnhanced      bool
	HasDashtype      bool
	HasArc           bool
}

// bind resolves e's driver against s. Drawing defaults such as points and
// arrows are built from the bound primitives through s.
func bind(e *Entry, s *Session) *Bound {
	d := e.Driver
	b := &Bound{
		Entry:    e,
		Init:     d.Init,
		Reset:    d.Reset,
		Graphics: d.Graphics,
		Text:     d.Text,
		Move:     d.Move,
		Vector:   d.Vector,
		Linetype: d.Linetype,
		PutText:  d.PutText,

		Options:     nullOptions,
		Scale:       nullScale,
		TextAngle:   nullTextAngle,
		Justify:     nullJustify,
		Point:       s.DoPoint,
		Arrow:       s.DoArrow,
		SetFont:     nullSetFont,
		PointSize:   s.DoPointsize,
		Suspend:     nullSuspend,
		Resume:      nullSuspend,
		FillBox:     func(style, x, y, w, h int) {},
		LineWidth:   nullLineWidth,
		PaletteSize: func() int { return 0 },
		MakePalette: func(*palette.Config) {},

		FilledPolygon: func([]Point) {},
		Image:         func(*Image) {},

		EnhancedOpen:   func(string, float64, float64, bool, bool, int) {},
		EnhancedWriteC: func(byte) {},
		EnhancedFlush:  func() {},

		Layer: nullLayer,
		Path:  nullPath,
	}
	b.SetColor = func(c *ColorSpec) {
		if c.Type == TCLt {
			b.Linetype(c.Lt)
		}
	}
	b.Dashtype = func(t int, _ *DashPattern) {
		if t <= 0 {
			t = LTSolid
		}
		b.Linetype(t)
	}
	b.Arc = func(cx, cy int, radius, start, end float64, style int, wedge bool) {
		s.drawArc(cx, cy, radius, start, end, style, wedge)
	}

	if v, ok := d.(Optioner); ok {
		b.Options = v.Options
	}
	if v, ok := d.(Scaler); ok {
		b.Scale = v.Scale
		b.HasScale = true
	}
	if v, ok := d.(TextAngler); ok {
		b.TextAngle = v.TextAngle
	}
	if v, ok := d.(Justifier); ok {
		b.Justify = v.Justify
	}
	if v, ok := d.(PointDrawer); ok {
		b.Point = v.Point
	}
	if v, ok := d.(ArrowDrawer); ok {
		b.Arrow = v.Arrow
	}
	if v, ok := d.(FontSetter); ok {
		b.SetFont = v.SetFont
	}
	if v, ok := d.(PointSizer); ok {
		b.PointSize = v.PointSize
	}
	if v, ok := d.(Suspender); ok {
		b.Suspend = v.Suspend
		b.Resume = v.Resume
		b.HasSuspend = true
	}
	if v, ok := d.(BoxFiller); ok {
		b.FillBox = v.FillBox
	}
	if v, ok := d.(LineWidther); ok {
		b.LineWidth = v.LineWidth
	}
	if v, ok := d.(PaletteMaker); ok {
		b.PaletteSize = v.PaletteSize
		b.MakePalette = v.MakePalette
	}
	if v, ok := d.(ColorSetter); ok {
		b.SetColor = v.SetColor
		e.Flags &^= NullSetColor
	} else {
		e.Flags |= NullSetColor
	}
	if v, ok := d.(PolygonFiller); ok {
		b.FilledPolygon = v.FilledPolygon
		b.HasFilledPolygon = true
	}
	if v, ok := d.(ImageDrawer); ok {
		b.Image = v.Image
		b.HasImage = true
	}
	if v, ok := d.(EnhancedTexter); ok {
		b.EnhancedOpen = v.EnhancedOpen
		b.EnhancedWriteC = v.EnhancedWriteC
		b.EnhancedFlush = v.EnhancedFlush
		b.HasEnhanced = true
	}
	if v, ok := d.(Layerer); ok {
		b.Layer = v.Layer
	}
	if v, ok := d.(Pather); ok {
		b.Path = v.Path
	}
	if v, ok := d.(Dasher); ok {
		b.Dashtype = v.Dashtype
		b.HasDashtype = true
	}
	if v, ok := d.(ArcDrawer); ok {
		b.Arc = v.Arc
		b.HasArc = true
	}
	if e.TScale <= 0 {
		e.TScale = 1
	}
	return b
}
