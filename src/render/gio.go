package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"golang.org/x/image/math/fixed"
)

// gioCmd replays one recorded drawing command
type gioCmd func(ops *op.Ops, sh *text.Shaper)

// GioSurface records drawing commands for a gio window. The plotting
// goroutine appends to the queue; the window goroutine replays it into
// its op list on every frame. Both hold mu, which also guards the shaper.
type GioSurface struct {
	mu         sync.Mutex
	size       image.Point
	cmds       []gioCmd
	shaper     *text.Shaper
	invalidate func()
}

// NewGioSurface creates a w x h surface using the Go fonts
func NewGioSurface(w, h int) *GioSurface {
	return &GioSurface{
		size:   image.Pt(w, h),
		shaper: text.NewShaper(text.NoSystemFonts(), text.WithCollection(gofont.Collection())),
	}
}

var (
	windowSurface     *GioSurface
	windowSurfaceOnce sync.Once
)

// WindowSurface returns the surface shown by RunWindow and drawn on by
// the gio terminal
func WindowSurface() *GioSurface {
	windowSurfaceOnce.Do(func() {
		windowSurface = NewGioSurface(640, 480)
	})
	return windowSurface
}

func (g *GioSurface) record(c gioCmd) {
	g.mu.Lock()
	g.cmds = append(g.cmds, c)
	g.mu.Unlock()
}

// Resize changes the page size
func (g *GioSurface) Resize(w, h int) {
	g.mu.Lock()
	g.size = image.Pt(w, h)
	g.mu.Unlock()
}

// Size returns the page size
func (g *GioSurface) Size() image.Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.size
}

// Len returns the number of recorded commands
func (g *GioSurface) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cmds)
}

// Clear drops everything recorded and starts over with a background fill
func (g *GioSurface) Clear(bg color.NRGBA) {
	g.mu.Lock()
	size := g.size
	g.cmds = g.cmds[:0]
	g.mu.Unlock()

	g.record(func(ops *op.Ops, _ *text.Shaper) {
		paint.FillShape(ops, bg, clip.Rect{Max: size}.Op())
	})
}

func gioPath(ops *op.Ops, pts []Pt, closed bool) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(f32.Pt(float32(pts[0].X), float32(pts[0].Y)))
	for _, q := range pts[1:] {
		p.LineTo(f32.Pt(float32(q.X), float32(q.Y)))
	}
	if closed {
		p.Close()
	}
	return p.End()
}

// FillPolygon records a polygon fill. Hatch patterns are shown as a
// half-transparent solid.
func (g *GioSurface) FillPolygon(pts []Pt, f Fill) {
	if len(pts) < 3 {
		return
	}
	pts = append([]Pt(nil), pts...)
	c := f.Color
	if f.Hatch != 0 && f.Hatch%8 != 3 {
		c.A /= 2
	}
	g.record(func(ops *op.Ops, _ *text.Shaper) {
		paint.FillShape(ops, c, clip.Outline{Path: gioPath(ops, pts, true)}.Op())
	})
}

// Stroke records a polyline
func (g *GioSurface) Stroke(pts []Pt, width float64, c color.NRGBA) {
	if len(pts) < 2 || c.A == 0 {
		return
	}
	pts = append([]Pt(nil), pts...)
	w := float32(math.Max(width, 1))
	g.record(func(ops *op.Ops, _ *text.Shaper) {
		paint.FillShape(ops, c, clip.Stroke{Path: gioPath(ops, pts, false), Width: w}.Op())
	})
}

func gioParams(style TextStyle) text.Parameters {
	f := font.Font{Typeface: "Go"}
	if style.Mono {
		f.Typeface = "Go Mono"
	}
	if style.Bold {
		f.Weight = font.Bold
	}
	if style.Italic {
		f.Style = font.Italic
	}
	return text.Parameters{
		Font:     f,
		PxPerEm:  fixed.Int26_6(style.Size * 64),
		MaxLines: 1,
	}
}

func shape(sh *text.Shaper, s string, style TextStyle) []text.Glyph {
	sh.LayoutString(gioParams(style), s)
	var glyphs []text.Glyph
	for g, ok := sh.NextGlyph(); ok; g, ok = sh.NextGlyph() {
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// DrawText records a text run
func (g *GioSurface) DrawText(at Pt, angle float64, s string, style TextStyle, c color.NRGBA) {
	g.record(func(ops *op.Ops, sh *text.Shaper) {
		glyphs := shape(sh, s, style)
		if len(glyphs) == 0 {
			return
		}
		// glyph positions are relative to the top of the line
		base := float32(glyphs[0].Y)
		tr := f32.Affine2D{}.
			Offset(f32.Pt(0, -base)).
			Rotate(f32.Point{}, float32(-angle*math.Pi/180)).
			Offset(f32.Pt(float32(at.X), float32(at.Y)))
		stack := op.Affine(tr).Push(ops)
		outline := clip.Outline{Path: sh.Shape(glyphs)}.Op().Push(ops)
		paint.ColorOp{Color: c}.Add(ops)
		paint.PaintOp{}.Add(ops)
		outline.Pop()
		stack.Pop()
	})
}

// TextWidth shapes s and sums the glyph advances
func (g *GioSurface) TextWidth(s string, style TextStyle) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var w fixed.Int26_6
	for _, gl := range shape(g.shaper, s, style) {
		w += gl.Advance
	}
	return float64(w) / 64
}

// Replay adds the recorded commands to ops in submission order
func (g *GioSurface) Replay(ops *op.Ops) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.cmds {
		c(ops, g.shaper)
	}
}

// SetInvalidate sets the function Present calls to request a redraw
func (g *GioSurface) SetInvalidate(fn func()) {
	g.mu.Lock()
	g.invalidate = fn
	g.mu.Unlock()
}

// Present asks the window showing the surface to redraw
func (g *GioSurface) Present() {
	g.mu.Lock()
	fn := g.invalidate
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
}
