package term

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"plotterm/src/logging"
	"plotterm/src/palette"
)

// recorder implements only the required driver operations and logs each
// call
type recorder struct {
	ops     []string
	env     *Env
	options []string
	initErr error
	textErr error
}

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) clear() { r.ops = nil }

func (r *recorder) Init(env *Env) error {
	r.env = env
	r.add("init")
	return r.initErr
}

func (r *recorder) Reset() error { r.add("reset"); return nil }
func (r *recorder) Graphics() error { r.add("graphics"); return nil }
func (r *recorder) Text() error { r.add("text"); return r.textErr }
func (r *recorder) Move(x, y int) { r.add("move %d %d", x, y) }
func (r *recorder) Vector(x, y int) { r.add("vector %d %d", x, y) }
func (r *recorder) Linetype(lt int) { r.add("linetype %d", lt) }
func (r *recorder) PutText(x, y int, s string) { r.add("put %d %d %s", x, y, s) }

func (r *recorder) Options(args []string, e *Entry) error {
	r.options = args
	return nil
}

// fullRecorder implements every optional operation except native points,
// arrows, arcs and images, so the session defaults for those are used
type fullRecorder struct {
	recorder
	palSize  int
	pal      *palette.Config
	palCalls int
	polygons [][]Point
}

func (r *fullRecorder) Justify(j Justify) bool { r.add("justify %d", j); return true }
func (r *fullRecorder) TextAngle(a int) bool { r.add("angle %d", a); return true }
func (r *fullRecorder) SetFont(f string) bool { r.add("font %s", f); return true }
func (r *fullRecorder) PointSize(size float64) { r.add("pointsize %g", size) }
func (r *fullRecorder) LineWidth(w float64) { r.add("linewidth %g", w) }
func (r *fullRecorder) Layer(l Layer) { r.add("layer %d", l) }
func (r *fullRecorder) Path(p int) { r.add("path %d", p) }
func (r *fullRecorder) Suspend() { r.add("suspend") }
func (r *fullRecorder) Resume() { r.add("resume") }
func (r *fullRecorder) FillBox(style, x, y, w, h int) { r.add("fillbox %d", style) }

func (r *fullRecorder) Dashtype(t int, p *DashPattern) { r.add("dashtype %d", t) }

func (r *fullRecorder) SetColor(c *ColorSpec) {
	switch c.Type {
	case TCLt:
		r.add("color lt %d", c.Lt)
	case TCRGB:
		r.add("color rgb %d %d %d", c.RGB.R, c.RGB.G, c.RGB.B)
	default:
		r.add("color frac %g %d %d %d", c.Value, c.RGB.R, c.RGB.G, c.RGB.B)
	}
}

func (r *fullRecorder) FilledPolygon(points []Point) {
	r.polygons = append(r.polygons, append([]Point(nil), points...))
	style := 0
	if len(points) > 0 {
		style = points[0].Style
	}
	r.add("polygon %d %d", len(points), style)
}

func (r *fullRecorder) PaletteSize() int { return r.palSize }

func (r *fullRecorder) MakePalette(p *palette.Config) {
	r.palCalls++
	r.pal = p.Clone()
	r.add("palette %d", p.Colors)
}

// nativeRecorder draws arrows, arcs and images itself
type nativeRecorder struct {
	fullRecorder
}

func (r *nativeRecorder) Arrow(sx, sy, ex, ey int, head int) {
	r.add("arrow %d %d %d %d %d", sx, sy, ex, ey, head)
}

func (r *nativeRecorder) Arc(cx, cy int, radius, start, end float64, style int, wedge bool) {
	r.add("arc %d %d %g %g %g", cx, cy, radius, start, end)
}

func (r *nativeRecorder) Image(img *Image) { r.add("image %dx%d", img.Cols, img.Rows) }

// textRecorder collects the runs the enhanced-text parser produces
type textRecorder struct {
	opened bool
	cur    textRun
	runs   []textRun
	marks  []string
}

type textRun struct {
	font      string
	size      float64
	base      float64
	widthflag bool
	showflag  bool
	overprint int
	text      string
}

func (r *textRecorder) EnhancedOpen(font string, size, base float64, widthflag, showflag bool, overprint int) {
	switch overprint {
	case 3:
		r.marks = append(r.marks, fmt.Sprintf("save@%d", len(r.runs)))
		return
	case 4:
		r.marks = append(r.marks, fmt.Sprintf("restore@%d", len(r.runs)))
		return
	}
	if r.opened {
		return
	}
	r.opened = true
	r.cur = textRun{font: font, size: size, base: base, widthflag: widthflag,
		showflag: showflag, overprint: overprint}
}

func (r *textRecorder) EnhancedWriteC(c byte) {
	if r.opened {
		r.cur.text += string([]byte{c})
	}
}

func (r *textRecorder) EnhancedFlush() {
	if !r.opened {
		return
	}
	r.opened = false
	if r.cur.text != "" {
		r.runs = append(r.runs, r.cur)
	}
}

func (r *textRecorder) texts() []string {
	out := make([]string, len(r.runs))
	for i, run := range r.runs {
		out[i] = run.text
	}
	return out
}

func testEntry(name string, d Driver, flags Flags) *Entry {
	return &Entry{
		Name:        name,
		Description: name + " test terminal",
		XMax:        1000,
		YMax:        1000,
		VChar:       20,
		HChar:       10,
		VTic:        10,
		HTic:        10,
		Flags:       flags,
		Driver:      d,
	}
}

// newTestSession returns a session over a fresh registry holding entries,
// logging into the returned buffer. Stdout counts as a screen.
func newTestSession(t *testing.T, entries ...*Entry) (*Session, *bytes.Buffer) {
	t.Helper()
	reg := NewRegistry()
	for _, e := range entries {
		reg.Register(e)
	}
	logs := &bytes.Buffer{}
	s := NewSession(reg, &bytes.Buffer{})
	s.SetLogger(logging.New(logs))
	s.ttyCheck = func(io.Writer) bool { return true }
	s.lookupEnv = func(string) (string, bool) { return "", false }
	return s, logs
}

// selectTerm switches s to name and fails the test if that does not work
func selectTerm(t *testing.T, s *Session, name string) {
	t.Helper()
	if err := s.SetTerm(name); err != nil {
		t.Fatalf("SetTerm(%q) error = %v", name, err)
	}
}

func equalOps(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("ops =\n  %s\nwant\n  %s", strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

func containsOp(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
