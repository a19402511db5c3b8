package cellterm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"plotterm/src/palette"
	"plotterm/src/term"
)

const (
	defaultCols = 79
	defaultRows = 24
)

// lineColors are the colors of linetypes 0..
var lineColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
	tcell.ColorOlive,
	tcell.ColorDefault,
	tcell.ColorOrange,
	tcell.ColorGray,
}

func init() {
	term.Register(NewDumbEntry())
	term.Register(NewBlockEntry())
}

// base holds what the cell terminals share: the page, the text state and
// the options common to both
type base struct {
	env        *term.Env
	cols, rows int
	colors     colorMode
	feed       bool

	canvas  *canvas
	style   tcell.Style
	justify term.Justify

	// shown text collected from the enhanced-text parser
	plain  []byte
	open   bool
	hidden bool
	skip   bool
}

func (b *base) Init(env *term.Env) error {
	b.env = env
	return nil
}

// Reset releases the page
func (b *base) Reset() error {
	if b.canvas != nil {
		b.canvas.close()
		b.canvas = nil
	}
	return nil
}

// page starts a blank w x h page
func (b *base) page() error {
	if b.canvas == nil || b.canvas.w != b.cols || b.canvas.h != b.rows {
		if b.canvas != nil {
			b.canvas.close()
		}
		c, err := newCanvas(b.cols, b.rows)
		if err != nil {
			return err
		}
		b.canvas = c
	}
	b.canvas.clear()
	b.style = tcell.StyleDefault
	b.justify = term.Left
	return nil
}

// emit writes the finished page to the output
func (b *base) emit() error {
	if b.feed {
		if _, err := b.env.Out.Write([]byte{'\f'}); err != nil {
			return err
		}
	}
	return b.canvas.write(b.env.Out, b.colors)
}

// row converts a device y in cells to a canvas row
func (b *base) row(y int) int {
	return b.rows - 1 - y
}

func (b *base) Justify(j term.Justify) bool {
	b.justify = j
	return true
}

// TextAngle only accepts horizontal text
func (b *base) TextAngle(ang int) bool {
	return ang == 0
}

func ltColor(lt int) tcell.Color {
	if lt < 0 {
		return tcell.ColorDefault
	}
	return lineColors[lt%len(lineColors)]
}

func rgbColor(c palette.RGB255) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// colorFor returns the foreground a color spec selects; linetype specs
// are left to the caller
func (b *base) colorFor(c *term.ColorSpec) tcell.Color {
	if c.Type == term.TCLt {
		return ltColor(c.Lt)
	}
	return rgbColor(c.RGB)
}

// plainText returns the text an enhanced string shows, markup removed
func (b *base) plainText(s string) string {
	if !b.env.Entry.Has(term.EnhancedText) || b.env.Enhanced == nil {
		return s
	}
	b.plain = b.plain[:0]
	b.env.Enhanced.Parse(b, term.EnhancedStyle{}, s, "", 1)
	b.EnhancedFlush()
	return string(b.plain)
}

// EnhancedOpen starts a run. Cells have no sizes or baselines, so
// scripts are written inline; hidden text keeps its width as blanks and
// the second half of an overprint is dropped.
func (b *base) EnhancedOpen(font string, size, base float64, widthflag, showflag bool, overprint int) {
	if overprint == 3 || overprint == 4 {
		b.EnhancedFlush()
		return
	}
	if b.open {
		return
	}
	b.open = true
	b.hidden = !showflag
	b.skip = overprint == 2
}

func (b *base) EnhancedWriteC(c byte) {
	if !b.open || b.skip {
		return
	}
	if b.hidden {
		// one blank per rune
		if c&0xc0 == 0x80 {
			return
		}
		c = ' '
	}
	b.plain = append(b.plain, c)
}

func (b *base) EnhancedFlush() {
	b.open = false
}

// putText writes s on row y, justified about column x
func (b *base) putText(x, y int, s string) {
	s = b.plainText(s)
	col := x
	switch b.justify {
	case term.Centre:
		col -= runewidth.StringWidth(s) / 2
	case term.Right:
		col -= runewidth.StringWidth(s)
	}
	b.canvas.text(col, b.row(y), s, b.style)
}

// commonOption handles an option both terminals take. It reports how
// many arguments it used, 0 if opt is not one of them.
func (b *base) commonOption(args []string, i int, e *term.Entry) (int, error) {
	opt := args[i]
	if m, ok := colorModes[opt]; ok {
		b.colors = m
		return 1, nil
	}
	switch opt {
	case "feed":
		b.feed = true
	case "nofeed":
		b.feed = false
	case "enhanced":
		e.Flags |= term.EnhancedText
	case "noenhanced":
		e.Flags &^= term.EnhancedText
	case "size":
		if i+1 >= len(args) {
			return 0, fmt.Errorf("size expects a value")
		}
		v := args[i+1]
		cs, rs, ok := strings.Cut(v, ",")
		if !ok {
			return 0, fmt.Errorf("size expects <columns>,<rows>, got %q", v)
		}
		cols, err := strconv.Atoi(strings.TrimSpace(cs))
		if err != nil || cols < 1 {
			return 0, fmt.Errorf("size: bad columns %q", cs)
		}
		rows, err := strconv.Atoi(strings.TrimSpace(rs))
		if err != nil || rows < 1 {
			return 0, fmt.Errorf("size: bad rows %q", rs)
		}
		b.cols, b.rows = cols, rows
		return 2, nil
	default:
		return 0, nil
	}
	return 1, nil
}
