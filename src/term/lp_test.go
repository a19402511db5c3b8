package term

import (
	"math"
	"strings"
	"testing"

	"plotterm/src/palette"
)

func TestApplyLP(t *testing.T) {
	withPoints := DefaultLP()
	withPoints.Flags = LPShowPoints
	withPoints.LType = 2
	withPoints.DType = 1
	withPoints.LWidth = 2
	withPoints.Color = ColorSpec{Type: TCLt, Lt: 3}

	sized := withPoints
	sized.PSize = 2.5

	axis := DefaultLP()
	axis.LType = LTAxis
	axis.DType = 3

	custom := DefaultLP()
	custom.LType = 0
	custom.DType = DashCustom

	tests := []struct {
		name string
		lp   LPStyle
		want []string
	}{
		{"points first, color last", withPoints,
			[]string{"pointsize 1", "linewidth 2", "linetype -2", "dashtype 1", "color lt 3"}},
		{"explicit point size", sized,
			[]string{"pointsize 2.5", "linewidth 2", "linetype -2", "dashtype 1", "color lt 3"}},
		{"axis keeps its dash pattern", axis,
			[]string{"linewidth 1", "linetype -1", "color lt -2"}},
		{"custom dash", custom,
			[]string{"linewidth 1", "linetype -2", "dashtype -3", "color lt -2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fullRecorder{}
			s, _ := newTestSession(t, testEntry("rec", d, 0))
			selectTerm(t, s, "rec")

			lp := tt.lp
			if err := s.ApplyLP(&lp); err != nil {
				t.Fatalf("ApplyLP() error = %v", err)
			}
			equalOps(t, d.ops, tt.want)
		})
	}
}

func TestApplyLPWithoutSetColor(t *testing.T) {
	d := &recorder{}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")

	lp := DefaultLP()
	lp.LType = 2
	lp.Color = ColorSpec{Type: TCRGB, Lt: 0xff0000}
	if err := s.ApplyLP(&lp); err != nil {
		t.Fatalf("ApplyLP() error = %v", err)
	}
	equalOps(t, d.ops, []string{"linetype 1"})
}

func TestApplyColorSpec(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		spec  ColorSpec
		want  string
	}{
		{name: "default", spec: ColorSpec{Type: TCDefault}, want: "color lt -2"},
		{name: "linetype", spec: ColorSpec{Type: TCLt, Lt: 4}, want: "color lt 4"},
		{name: "rgb", spec: ColorSpec{Type: TCRGB, Lt: 0x800080}, want: "color rgb 128 0 128"},
		{name: "rgb on monochrome",
			setup: func(s *Session) { s.Monochrome = true },
			spec:  ColorSpec{Type: TCRGB, Lt: 0x800080}, want: "color lt -2"},
		{name: "rgb variable on monochrome",
			setup: func(s *Session) { s.Monochrome = true },
			spec:  ColorSpec{Type: TCRGB, Lt: 0x800080, Value: -1}, want: "color rgb 128 0 128"},
		{name: "frac", spec: ColorSpec{Type: TCFrac, Value: 0.5}, want: "color frac 0.5 128 128 128"},
		{name: "frac negative palette",
			setup: func(s *Session) { s.Palette.Positive = false },
			spec:  ColorSpec{Type: TCFrac, Value: 0.25}, want: "color frac 0.75 191 191 191"},
		{name: "cb", spec: ColorSpec{Type: TCCB, Value: 5}, want: "color frac 0.5 128 128 128"},
		{name: "cb below range", spec: ColorSpec{Type: TCCB, Value: -3}, want: "color frac 0 0 0 0"},
		{name: "z", spec: ColorSpec{Type: TCZ, Value: 10}, want: "color frac 1 255 255 255"},
		{name: "no palette",
			setup: func(s *Session) { s.Palette.ColorMode = palette.ModeNone },
			spec:  ColorSpec{Type: TCFrac, Value: 0.5}, want: "color lt -2"},
		{name: "linestyle",
			setup: func(s *Session) {
				ls := DefaultLP()
				ls.Color = ColorSpec{Type: TCRGB, Lt: 0x00ff00}
				s.LineStyles[5] = ls
			},
			spec: ColorSpec{Type: TCLinestyle, Lt: 5}, want: "color rgb 0 255 0"},
		{name: "undefined linestyle", spec: ColorSpec{Type: TCLinestyle, Lt: 3}, want: "color lt 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fullRecorder{}
			s, _ := newTestSession(t, testEntry("rec", d, 0))
			selectTerm(t, s, "rec")
			s.Palette.ColorMode = palette.ModeGray
			s.Palette.Gamma = 1
			s.CB = CBAxis{Min: 0, Max: 10}
			if tt.setup != nil {
				tt.setup(s)
			}

			spec := tt.spec
			if err := s.ApplyColorSpec(&spec); err != nil {
				t.Fatalf("ApplyColorSpec() error = %v", err)
			}
			equalOps(t, d.ops, []string{tt.want})
		})
	}
}

func TestSetRGBColor(t *testing.T) {
	d := &fullRecorder{}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")

	if err := s.SetRGBColor(palette.RGB255{R: 128, G: 0, B: 128}); err != nil {
		t.Fatalf("SetRGBColor() error = %v", err)
	}
	equalOps(t, d.ops, []string{"color rgb 128 0 128"})
}

func TestSetColorNaN(t *testing.T) {
	d := &fullRecorder{}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")

	if err := s.SetColor(math.NaN()); err != nil {
		t.Fatalf("SetColor(NaN) error = %v", err)
	}
	equalOps(t, d.ops, []string{"color lt -4"})
}

func TestSetColorFunctionsError(t *testing.T) {
	d := &fullRecorder{}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")
	s.Palette.SetFunctions("gray", "gray", "gray")

	if err := s.SetColor(0.5); err == nil {
		t.Fatal("SetColor() without an evaluator succeeded")
	}
	if len(d.ops) != 0 {
		t.Errorf("failed SetColor() sent %v", d.ops)
	}
}

func TestCBToGray(t *testing.T) {
	tests := []struct {
		name     string
		axis     CBAxis
		positive bool
		cb       float64
		want     float64
	}{
		{"middle", CBAxis{Min: 0, Max: 10}, true, 5, 0.5},
		{"below", CBAxis{Min: 0, Max: 10}, true, -1, 0},
		{"above", CBAxis{Min: 0, Max: 10}, true, 11, 1},
		{"negative palette", CBAxis{Min: 0, Max: 10}, false, 2, 0.8},
		{"negative below", CBAxis{Min: 0, Max: 10}, false, -1, 1},
		{"log", CBAxis{Min: 1, Max: 100, Log: true, LogBase: 10}, true, 10, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			s.CB = tt.axis
			s.Palette.Positive = tt.positive
			if got := s.CBToGray(tt.cb); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CBToGray(%v) = %v, want %v", tt.cb, got, tt.want)
			}
		})
	}
}

func TestLoadLinetypeFallback(t *testing.T) {
	s, _ := newTestSession(t, testEntry("rec", &fullRecorder{}, 0))
	selectTerm(t, s, "rec")

	tests := []struct {
		tag       int
		wantLType int
		wantPType int
	}{
		{3, 2, 2},
		{1, 0, 0},
		{0, -1, -1},
		{-1, -2, -1},
	}
	for _, tt := range tests {
		lp := DefaultLP()
		s.LoadLinetype(&lp, tt.tag)
		if lp.LType != tt.wantLType || lp.PType != tt.wantPType {
			t.Errorf("LoadLinetype(%d) = lt %d pt %d, want lt %d pt %d",
				tt.tag, lp.LType, lp.PType, tt.wantLType, tt.wantPType)
		}
		if lp.Color != (ColorSpec{Type: TCLt, Lt: tt.wantLType}) {
			t.Errorf("LoadLinetype(%d) color = %+v", tt.tag, lp.Color)
		}
		if lp.DType != DashSolid {
			t.Errorf("LoadLinetype(%d) dashtype = %d, want solid", tt.tag, lp.DType)
		}
	}
}

func TestLoadLinetypeDefined(t *testing.T) {
	s, _ := newTestSession(t, testEntry("rec", &fullRecorder{}, 0))
	selectTerm(t, s, "rec")

	def := DefaultLP()
	def.LType = 7
	def.LWidth = 3
	def.DType = 2
	def.PType = 4
	def.Color = ColorSpec{Type: TCRGB, Lt: 0x123456}
	s.DefineLinetype(1, def)
	s.LinetypeRecycle = 2

	lp := DefaultLP()
	s.LoadLinetype(&lp, 1)
	if lp.LType != 7 || lp.LWidth != 3 || lp.DType != 2 || lp.PType != 4 || lp.Color.Lt != 0x123456 {
		t.Errorf("LoadLinetype(1) = %+v", lp)
	}

	// tag 3 recycles onto 1 without the point properties
	lp = DefaultLP()
	lp.PType = 9
	s.LoadLinetype(&lp, 3)
	if lp.LType != 7 || lp.DType != 2 || lp.PType != 9 {
		t.Errorf("LoadLinetype(3) = %+v, want recycled line with pt 9", lp)
	}

	// tag 2 is not defined and within the recycle count
	lp = DefaultLP()
	s.LoadLinetype(&lp, 2)
	if lp.LType != 1 {
		t.Errorf("LoadLinetype(2) lt = %d, want 1", lp.LType)
	}
}

func TestLoadLinetypeNullSetColor(t *testing.T) {
	s, _ := newTestSession(t, testEntry("rec", &recorder{}, 0))
	selectTerm(t, s, "rec")
	def := DefaultLP()
	def.LType = 7
	s.DefineLinetype(4, def)

	lp := DefaultLP()
	s.LoadLinetype(&lp, 4)
	if lp.LType != 4 {
		t.Errorf("LoadLinetype(4) lt = %d, want the tag", lp.LType)
	}
}

func TestLoadLinetypeMonochrome(t *testing.T) {
	tests := []struct {
		name    string
		session bool
		flags   Flags
		recycle int
		tag     int
		wantDT  int
		wantLW  float64
	}{
		{name: "session", session: true, tag: 2, wantDT: 1, wantLW: 1},
		{name: "terminal flag", flags: Monochrome, tag: 5, wantDT: 0, wantLW: 2},
		{name: "recycled", session: true, recycle: 6, tag: 8, wantDT: 1, wantLW: 1},
		{name: "custom", session: true, tag: 6, wantDT: DashCustom, wantLW: 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, testEntry("rec", &fullRecorder{}, tt.flags))
			selectTerm(t, s, "rec")
			s.Monochrome = tt.session
			s.MonoRecycle = tt.recycle

			lp := DefaultLP()
			s.LoadLinetype(&lp, tt.tag)
			if lp.DType != tt.wantDT || lp.LWidth != tt.wantLW {
				t.Errorf("LoadLinetype(%d) = dt %d lw %v, want dt %d lw %v",
					tt.tag, lp.DType, lp.LWidth, tt.wantDT, tt.wantLW)
			}
			if lp.Color != BlackColorSpec {
				t.Errorf("LoadLinetype(%d) color = %+v, want black", tt.tag, lp.Color)
			}
		})
	}
}

func TestLoadLinetypeMonochromeUndefined(t *testing.T) {
	s, _ := newTestSession(t, testEntry("rec", &fullRecorder{}, 0))
	selectTerm(t, s, "rec")
	s.Monochrome = true

	lp := DefaultLP()
	lp.LType = 42
	s.LoadLinetype(&lp, 9)
	if lp.LType != 42 {
		t.Errorf("LoadLinetype(9) changed an undefined monochrome style: %+v", lp)
	}
}

func TestStyleFromFill(t *testing.T) {
	tests := []struct {
		fs   FillStyle
		want int
	}{
		{FillStyle{Style: FSSolid, Density: 100}, 100<<4 + FSSolid},
		{FillStyle{Style: FSTransparentSolid, Density: 50}, 50<<4 + FSTransparentSolid},
		{FillStyle{Style: FSPattern, Pattern: 3}, 3<<4 + FSPattern},
		{FillStyle{Style: FSTransparentPattern, Pattern: 2}, 2<<4 + FSTransparentPattern},
		{FillStyle{Style: FSEmpty, Density: 100}, FSEmpty},
		{FillStyle{Style: FSDefault}, FSEmpty},
	}
	for _, tt := range tests {
		if got := StyleFromFill(&tt.fs); got != tt.want {
			t.Errorf("StyleFromFill(%+v) = %d, want %d", tt.fs, got, tt.want)
		}
	}
}

func TestMakePaletteAnalytic(t *testing.T) {
	d := &fullRecorder{}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")

	for i := 0; i < 2; i++ {
		if err := s.MakePalette(); err != nil {
			t.Fatalf("MakePalette() error = %v", err)
		}
	}
	if d.palCalls != 1 {
		t.Errorf("unchanged palette sent %d times, want 1", d.palCalls)
	}

	s.Palette.FormulaR = 3
	s.MakePalette()
	if d.palCalls != 2 {
		t.Errorf("changed palette not resent: %d calls", d.palCalls)
	}

	s.InvalidatePalette()
	s.MakePalette()
	if d.palCalls != 3 {
		t.Errorf("invalidated palette not resent: %d calls", d.palCalls)
	}
}

func TestMakePaletteSampled(t *testing.T) {
	tests := []struct {
		name      string
		mode      palette.ColorMode
		maxColors int
		want      int
	}{
		{"all positions", palette.ModeRGB, 0, 16},
		{"limited", palette.ModeRGB, 8, 8},
		{"limit above size", palette.ModeRGB, 32, 16},
		{"gradient ignores limit", palette.ModeGradient, 8, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fullRecorder{palSize: 16}
			s, logs := newTestSession(t, testEntry("rec", d, 0))
			selectTerm(t, s, "rec")
			s.Interactive = true
			s.Palette.ColorMode = tt.mode
			s.Palette.UseMaxColors = tt.maxColors

			if err := s.MakePalette(); err != nil {
				t.Fatalf("MakePalette() error = %v", err)
			}
			if d.pal == nil || d.pal.Colors != tt.want || len(d.pal.Table) != tt.want {
				t.Fatalf("driver palette = %+v, want %d colors", d.pal, tt.want)
			}
			if !strings.Contains(logs.String(), "available color positions") {
				t.Errorf("log = %q, want palette size message", logs.String())
			}
		})
	}
}

func TestMakePaletteTableEnds(t *testing.T) {
	d := &fullRecorder{palSize: 5}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")
	s.Palette.ColorMode = palette.ModeGray
	s.Palette.Gamma = 1

	s.MakePalette()
	table := d.pal.Table
	if table[0] != (palette.RGB{}) || table[4] != (palette.RGB{R: 1, G: 1, B: 1}) {
		t.Errorf("table ends = %v %v, want black and white", table[0], table[4])
	}
	if table[2].R != 0.5 {
		t.Errorf("table[2] = %v, want 0.5 gray", table[2])
	}
}

func TestMakePaletteWithoutSupport(t *testing.T) {
	d := &recorder{}
	s, _ := newTestSession(t, testEntry("rec", d, 0))
	selectTerm(t, s, "rec")
	if err := s.MakePalette(); err != nil {
		t.Fatalf("MakePalette() error = %v", err)
	}
	if len(d.ops) != 0 {
		t.Errorf("MakePalette() sent %v to a driver without palettes", d.ops)
	}
}

func TestPostScriptPagesResendPalette(t *testing.T) {
	d := &fullRecorder{}
	s, _ := newTestSession(t, testEntry("ps", d, IsPostScript))
	selectTerm(t, s, "ps")

	s.StartPlot()
	s.MakePalette()
	s.EndPlot()
	s.StartPlot()
	s.MakePalette()
	if d.palCalls != 2 {
		t.Errorf("palette sent %d times over two pages, want 2", d.palCalls)
	}
}
