package term

import (
	"io"

	"plotterm/src/logging"
	"plotterm/src/palette"
)

// Env is what a driver sees of the session it is bound to. The session
// keeps it current; drivers hold on to the pointer they get in Init.
type Env struct {
	Out     io.Writer
	Entry   *Entry
	Palette *palette.Config
	Log     *logging.Logger
	// Enhanced runs the shared enhanced-text parser against a driver
	Enhanced *EnhancedParser
}

// Driver is the set of operations every terminal must implement
type Driver interface {
	// Init prepares the driver for output to env.Out
	Init(env *Env) error
	// Reset releases everything Init acquired
	Reset() error
	// Graphics starts a new page
	Graphics() error
	// Text finishes the current page
	Text() error
	Move(x, y int)
	Vector(x, y int)
	Linetype(lt int)
	PutText(x, y int, s string)
}

// The interfaces below are optional. A driver that does not implement
// one gets a default when it is bound.

// Optioner parses "set terminal <name> ..." options and may adjust the
// entry's metrics and flags
type Optioner interface {
	Options(args []string, e *Entry) error
}

// Scaler lets drivers scale a plot themselves
type Scaler interface {
	Scale(x, y float64) bool
}

// TextAngler rotates text; it returns false if it cannot
type TextAngler interface {
	TextAngle(ang int) bool
}

// Justifier aligns text; it returns false if it cannot
type Justifier interface {
	Justify(j Justify) bool
}

// PointDrawer draws point symbols natively
type PointDrawer interface {
	Point(x, y, number int)
}

// ArrowDrawer draws arrows natively. A negative head draws heads only.
type ArrowDrawer interface {
	Arrow(sx, sy, ex, ey int, head int)
}

// FontSetter switches fonts; an empty name restores the default
type FontSetter interface {
	SetFont(font string) bool
}

// PointSizer scales point symbols
type PointSizer interface {
	PointSize(size float64)
}

// Suspender pauses and resumes output between multiplot panels
type Suspender interface {
	Suspend()
	Resume()
}

// BoxFiller fills axis-aligned boxes
type BoxFiller interface {
	FillBox(style, x, y, w, h int)
}

// LineWidther sets the line width
type LineWidther interface {
	LineWidth(w float64)
}

// PaletteMaker receives the active palette. PaletteSize returns the number
// of colors the driver can allocate, or 0 if it maps gray values itself.
type PaletteMaker interface {
	PaletteSize() int
	MakePalette(p *palette.Config)
}

// ColorSetter sets the current color
type ColorSetter interface {
	SetColor(c *ColorSpec)
}

// PolygonFiller fills closed polygons
type PolygonFiller interface {
	FilledPolygon(points []Point)
}

// ImageDrawer draws raster images
type ImageDrawer interface {
	Image(img *Image)
}

// EnhancedTexter is the visitor the enhanced-text parser drives. Open
// starts or continues a run with the given attributes, WriteC appends a
// byte to it and Flush emits it.
type EnhancedTexter interface {
	EnhancedOpen(font string, size, base float64, widthflag, showflag bool, overprint int)
	EnhancedWriteC(c byte)
	EnhancedFlush()
}

// Layerer receives layer synchronization points
type Layerer interface {
	Layer(l Layer)
}

// Pather groups vectors into paths: 0 opens a path, 1 closes it
type Pather interface {
	Path(p int)
}

// Dasher selects dash patterns
type Dasher interface {
	Dashtype(t int, pattern *DashPattern)
}

// ArcDrawer draws circular arcs natively
type ArcDrawer interface {
	Arc(cx, cy int, radius, start, end float64, style int, wedge bool)
}
