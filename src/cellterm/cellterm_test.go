package cellterm

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"plotterm/src/logging"
	"plotterm/src/term"
)

func newSession(t *testing.T, e *term.Entry, args ...string) (*term.Session, *bytes.Buffer) {
	t.Helper()
	reg := term.NewRegistry()
	reg.Register(e)
	out := &bytes.Buffer{}
	s := term.NewSession(reg, out)
	s.SetLogger(logging.New(io.Discard))
	if err := s.SetTerm(e.Name, args...); err != nil {
		t.Fatalf("SetTerm() error = %v", err)
	}
	return s, out
}

// draw runs fn on one page and returns what was written
func draw(t *testing.T, e *term.Entry, fn func(tm *term.Bound), args ...string) string {
	t.Helper()
	s, out := newSession(t, e, args...)
	if err := s.StartPlot(); err != nil {
		t.Fatalf("StartPlot() error = %v", err)
	}
	fn(s.Term())
	if err := s.EndPlot(); err != nil {
		t.Fatalf("EndPlot() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return out.String()
}

func readScreenLine(screen tcell.SimulationScreen, x, y, width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		r, _, _, _ := screen.GetContent(x+i, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestCanvasText(t *testing.T) {
	c, err := newCanvas(10, 2)
	if err != nil {
		t.Fatalf("newCanvas() error = %v", err)
	}
	defer c.close()

	if used := c.text(1, 0, "a世b", tcell.StyleDefault); used != 4 {
		t.Errorf("text() = %d, want 4", used)
	}
	if got := c.get(2, 0); got != '世' {
		t.Errorf("get(2, 0) = %q, want '世'", got)
	}
	c.set(-1, 0, 'x', tcell.StyleDefault)
	c.set(0, 5, 'x', tcell.StyleDefault)
	if got := readScreenLine(c.screen, 0, 1, 10); got != "" {
		t.Errorf("row 1 = %q, want empty", got)
	}

	var out bytes.Buffer
	if err := c.write(&out, colorMono); err != nil {
		t.Fatalf("write() error = %v", err)
	}
	if got, want := out.String(), " a世b\n\n"; got != want {
		t.Errorf("write() = %q, want %q", got, want)
	}
}

func TestSGR(t *testing.T) {
	tests := []struct {
		name string
		c    tcell.Color
		mode colorMode
		want string
	}{
		{"mono", tcell.ColorRed, colorMono, ""},
		{"default", tcell.ColorDefault, colorRGB, ""},
		{"rgb", tcell.NewRGBColor(1, 2, 3), colorRGB, "\x1b[38;2;1;2;3m"},
		{"ansi dark", tcell.ColorGreen, colorANSI, "\x1b[32m"},
		{"ansi bright", tcell.ColorRed, colorANSI, "\x1b[91m"},
		{"ansi256", tcell.NewRGBColor(255, 0, 0), colorANSI256, "\x1b[38;5;196m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sgr(tt.c, tt.mode); got != tt.want {
				t.Errorf("sgr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFillPolygon(t *testing.T) {
	got := map[[2]int]bool{}
	fillPolygon([]term.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}, func(x, y int) {
		got[[2]int{x, y}] = true
	})
	for y := 0; y < 2; y++ {
		for x := 0; x <= 4; x++ {
			if !got[[2]int{x, y}] {
				t.Errorf("point %d,%d not filled", x, y)
			}
		}
	}
	if got[[2]int{5, 0}] || got[[2]int{0, 3}] {
		t.Errorf("filled outside the polygon: %v", got)
	}
}

func TestDumbLines(t *testing.T) {
	out := draw(t, NewDumbEntry(), func(tm *term.Bound) {
		tm.Move(1, 1)
		tm.Vector(6, 1)
		tm.Vector(6, 3)
	}, "size", "12,4")

	want := "      |\n      |\n -----+\n\n"
	if out != want {
		t.Errorf("page = %q, want %q", out, want)
	}
}

func TestSlopeChar(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   rune
	}{
		{5, 0, '-'},
		{0, -3, '|'},
		{3, 3, '/'},
		{-3, -3, '/'},
		{3, -3, '\\'},
		{10, 1, '-'},
		{1, 10, '|'},
	}
	for _, tt := range tests {
		if got := slopeChar(tt.dx, tt.dy); got != tt.want {
			t.Errorf("slopeChar(%d, %d) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestDumbLinetypes(t *testing.T) {
	out := draw(t, NewDumbEntry(), func(tm *term.Bound) {
		tm.Linetype(term.LTAxis)
		tm.Move(0, 3)
		tm.Vector(2, 3)
		tm.Linetype(1)
		tm.Move(0, 2)
		tm.Vector(2, 2)
		tm.Linetype(term.LTNoDraw)
		tm.Move(0, 1)
		tm.Vector(2, 1)
		tm.Linetype(term.LTBackground)
		tm.Move(1, 3)
		tm.Vector(1, 2)
	}, "size", "4,4", "ansi")

	want := ". .\n\x1b[32m#\x1b[0m \x1b[32m#\x1b[0m\n\n\n"
	if out != want {
		t.Errorf("page = %q, want %q", out, want)
	}
}

func TestDumbPointsAndText(t *testing.T) {
	out := draw(t, NewDumbEntry(), func(tm *term.Bound) {
		tm.Point(2, 1, 0)
		tm.Point(3, 1, 27)
		tm.Point(4, 1, -1)
		tm.Justify(term.Right)
		tm.PutText(9, 0, "abc")
		tm.Justify(term.Centre)
		tm.PutText(5, 2, "xyz")
	}, "size", "10,3")

	want := "    xyz\n  AB.\n      abc\n"
	if out != want {
		t.Errorf("page = %q, want %q", out, want)
	}
}

func TestDumbEnhancedText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"subscript", "x_{0}", "x0"},
		{"hidden", "a&{bc}d", "a  d"},
		{"overprint", "~a{.5b}c", "ac"},
		{"font", "{/:Bold B}", "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := draw(t, NewDumbEntry(), func(tm *term.Bound) {
				tm.PutText(0, 0, tt.text)
			}, "size", "10,1", "enhanced")
			if got := strings.TrimSuffix(out, "\n"); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}

	out := draw(t, NewDumbEntry(), func(tm *term.Bound) {
		tm.PutText(0, 0, "x_{0}")
	}, "size", "10,1")
	if out != "x_{0}\n" {
		t.Errorf("noenhanced text = %q, want %q", out, "x_{0}\n")
	}
}

func TestDumbFills(t *testing.T) {
	tests := []struct {
		name  string
		style int
		want  rune
	}{
		{"empty", term.FSEmpty, ' '},
		{"solid full", term.FSSolid + 100<<4, '@'},
		{"solid half", term.FSSolid + 50<<4, '='},
		{"pattern", term.FSPattern + 1<<4, '/'},
		{"default", term.FSDefault, '#'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fillChar(tt.style); got != tt.want {
				t.Errorf("fillChar() = %q, want %q", got, tt.want)
			}
		})
	}

	out := draw(t, NewDumbEntry(), func(tm *term.Bound) {
		tm.FillBox(term.FSSolid+100<<4, 1, 0, 3, 2)
	}, "size", "5,2")
	if want := " @@@\n @@@\n"; out != want {
		t.Errorf("FillBox page = %q, want %q", out, want)
	}
}

func TestDumbOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		x, y    int
		wantErr bool
	}{
		{"defaults", nil, 79, 24, false},
		{"size", []string{"size", "40,10"}, 40, 10, false},
		{"feed", []string{"feed", "mono"}, 79, 24, false},
		{"bad size", []string{"size", "40"}, 0, 0, true},
		{"unknown", []string{"sixel"}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewDumbEntry()
			err := e.Driver.(*Dumb).Options(tt.args, e)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Options() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (e.XMax != tt.x || e.YMax != tt.y) {
				t.Errorf("size = %dx%d, want %dx%d", e.XMax, e.YMax, tt.x, tt.y)
			}
		})
	}
}

func TestDumbFeed(t *testing.T) {
	out := draw(t, NewDumbEntry(), func(tm *term.Bound) {}, "size", "3,1", "feed")
	if out != "\f\n" {
		t.Errorf("page = %q, want %q", out, "\f\n")
	}
}

func TestBlockModes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		draw func(tm *term.Bound)
		want string
	}{
		{"quadrants top row", []string{"quadrants", "size", "3,2"}, func(tm *term.Bound) {
			tm.Move(0, 3)
			tm.Vector(5, 3)
		}, "▀▀▀\n\n"},
		{"braille column", []string{"braille", "size", "1,1"}, func(tm *term.Bound) {
			tm.Move(0, 0)
			tm.Vector(0, 3)
		}, "⡇\n"},
		{"half bottom", []string{"half", "size", "2,1"}, func(tm *term.Bound) {
			tm.Move(0, 0)
			tm.Vector(1, 0)
		}, "▄▄\n"},
		{"erase", []string{"quadrants", "size", "1,1"}, func(tm *term.Bound) {
			tm.FillBox(term.FSSolid+100<<4, 0, 0, 2, 2)
			tm.Linetype(term.LTBackground)
			tm.Move(0, 0)
			tm.Vector(1, 0)
		}, "▀\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := draw(t, NewBlockEntry(), tt.draw, tt.args...)
			if out != tt.want {
				t.Errorf("page = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestBlockMetrics(t *testing.T) {
	e := NewBlockEntry()
	if e.XMax != 158 || e.YMax != 96 {
		t.Errorf("braille size = %dx%d, want 158x96", e.XMax, e.YMax)
	}
	if err := e.Driver.(*Block).Options([]string{"half", "size", "10,5"}, e); err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if e.XMax != 10 || e.YMax != 10 || e.VChar != 2 || e.HChar != 1 {
		t.Errorf("half metrics = %+v", e)
	}
}

func TestBlockTextHidesPixels(t *testing.T) {
	out := draw(t, NewBlockEntry(), func(tm *term.Bound) {
		tm.FillBox(term.FSSolid+100<<4, 0, 0, 8, 2)
		tm.PutText(2, 0, "hi")
	}, "quadrants", "size", "4,1", "mono")

	if want := "█hi█\n"; out != want {
		t.Errorf("page = %q, want %q", out, want)
	}
}

func TestBlockColor(t *testing.T) {
	out := draw(t, NewBlockEntry(), func(tm *term.Bound) {
		tm.Linetype(0)
		tm.Move(0, 0)
		tm.Vector(1, 0)
	}, "half", "size", "2,1", "ansirgb")

	if want := "\x1b[38;2;255;0;0m▄▄\x1b[0m\n"; out != want {
		t.Errorf("page = %q, want %q", out, want)
	}
}

func TestTestPage(t *testing.T) {
	for _, e := range []*term.Entry{NewDumbEntry(), NewBlockEntry()} {
		t.Run(e.Name, func(t *testing.T) {
			s, out := newSession(t, e, "mono")
			if err := s.TestTerm(); err != nil {
				t.Fatalf("TestTerm() error = %v", err)
			}
			if got := strings.Count(out.String(), "\n"); got != defaultRows {
				t.Errorf("page has %d lines, want %d", got, defaultRows)
			}
			if !strings.Contains(out.String(), "terminal test") {
				t.Errorf("page does not contain the terminal name:\n%s", out)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"dumb", "block"} {
		if _, ok := term.DefaultRegistry().Lookup(name); !ok {
			t.Errorf("terminal %q is not registered", name)
		}
	}
}
