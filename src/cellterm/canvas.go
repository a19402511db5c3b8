// Package cellterm implements character-cell terminals: dumb, which
// draws with ASCII characters, and block, which packs several pixels
// into each cell with Unicode block and braille characters. Pages are
// composed on an off-screen tcell screen and written out as text.
package cellterm

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// colorMode selects how cell colors are written
type colorMode int

const (
	colorMono colorMode = iota
	colorANSI
	colorANSI256
	colorRGB
)

var colorModes = map[string]colorMode{
	"mono":    colorMono,
	"ansi":    colorANSI,
	"ansi256": colorANSI256,
	"ansirgb": colorRGB,
}

// canvas is a grid of cells kept on a simulation screen. Row 0 is the
// top of the page.
type canvas struct {
	screen tcell.SimulationScreen
	w, h   int
}

func newCanvas(w, h int) (*canvas, error) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init cell screen: %w", err)
	}
	s.SetSize(w, h)
	c := &canvas{screen: s, w: w, h: h}
	c.clear()
	return c, nil
}

func (c *canvas) clear() {
	c.screen.SetStyle(tcell.StyleDefault)
	c.screen.Clear()
}

func (c *canvas) close() {
	c.screen.Fini()
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && col < c.w && row >= 0 && row < c.h
}

func (c *canvas) set(col, row int, r rune, st tcell.Style) {
	if c.inside(col, row) {
		c.screen.SetContent(col, row, r, nil, st)
	}
}

func (c *canvas) get(col, row int) rune {
	if !c.inside(col, row) {
		return 0
	}
	r, _, _, _ := c.screen.GetContent(col, row)
	return r
}

// text writes s from col and returns the number of columns used
func (c *canvas) text(col, row int, s string, st tcell.Style) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(col+used, row, r, st)
		used += w
	}
	return used
}

// write dumps the page, one line per row with trailing blanks removed.
// Colors are written as SGR sequences unless mode is colorMono.
func (c *canvas) write(w io.Writer, mode colorMode) error {
	type cell struct {
		r    rune
		code string
	}
	bw := bufio.NewWriter(w)
	cells := make([]cell, 0, c.w)
	for row := 0; row < c.h; row++ {
		cells = cells[:0]
		last := -1
		for col := 0; col < c.w; {
			r, _, st, width := c.screen.GetContent(col, row)
			if r == 0 {
				r = ' '
			}
			fg, _, _ := st.Decompose()
			cells = append(cells, cell{r, sgr(fg, mode)})
			if r != ' ' {
				last = len(cells) - 1
			}
			col += max(width, 1)
		}

		cur := ""
		for _, cl := range cells[:last+1] {
			if cl.code != cur {
				if cl.code == "" {
					bw.WriteString(sgrReset)
				} else {
					bw.WriteString(cl.code)
				}
				cur = cl.code
			}
			bw.WriteRune(cl.r)
		}
		if cur != "" {
			bw.WriteString(sgrReset)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

const sgrReset = "\x1b[0m"

// sgr returns the escape sequence selecting foreground c
func sgr(c tcell.Color, mode colorMode) string {
	if mode == colorMono || c == tcell.ColorDefault || !c.Valid() {
		return ""
	}
	r, g, b := c.RGB()
	if r < 0 {
		return ""
	}
	switch mode {
	case colorRGB:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
	case colorANSI256:
		return fmt.Sprintf("\x1b[38;5;%dm", nearest(r, g, b, 16, 256))
	}
	i := nearest(r, g, b, 0, 16)
	if i < 8 {
		return fmt.Sprintf("\x1b[%dm", 30+i)
	}
	return fmt.Sprintf("\x1b[%dm", 90+i-8)
}

// nearest returns the palette index in [lo,hi) closest to r,g,b in Lab
func nearest(r, g, b int32, lo, hi int) int {
	want := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestD := lo, math.Inf(1)
	for i := lo; i < hi; i++ {
		pr, pg, pb := tcell.PaletteColor(i).RGB()
		d := want.DistanceLab(colorful.Color{R: float64(pr) / 255, G: float64(pg) / 255, B: float64(pb) / 255})
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
