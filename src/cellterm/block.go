package cellterm

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"plotterm/src/term"
)

// blockMode is how the block terminal packs pixels into a cell
type blockMode struct {
	name string
	w, h int
	// glyph returns the character showing the set bits of a cell
	glyph func(bits uint8) rune
	// bit returns the bit for the pixel at x, y within a cell, y from the
	// top
	bit func(x, y int) uint8
}

var quadrantGlyphs = [16]rune{
	' ', '▘', '▝', '▀', '▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜', '▄', '▙', '▟', '█',
}

var halfGlyphs = [4]rune{' ', '▀', '▄', '█'}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

var blockModes = map[string]blockMode{
	"braille": {
		name:  "braille",
		w:     2,
		h:     4,
		glyph: func(bits uint8) rune { return 0x2800 + rune(bits) },
		bit:   func(x, y int) uint8 { return brailleBits[x][y] },
	},
	"quadrants": {
		name:  "quadrants",
		w:     2,
		h:     2,
		glyph: func(bits uint8) rune { return quadrantGlyphs[bits&0xf] },
		bit:   func(x, y int) uint8 { return 1 << (y*2 + x) },
	},
	"half": {
		name:  "half",
		w:     1,
		h:     2,
		glyph: func(bits uint8) rune { return halfGlyphs[bits&3] },
		bit:   func(x, y int) uint8 { return 1 << y },
	},
}

// Block draws with several pixels per character cell. Device units are
// pixels; text is placed on whole cells and hides the pixels under it.
type Block struct {
	base
	mode blockMode

	bits   []uint8
	color  []tcell.Color
	isText []bool

	pen    tcell.Color
	erase  bool
	nodraw bool
	dotted bool
	x, y   int
}

// NewBlockEntry returns the block terminal entry, drawing braille by
// default
func NewBlockEntry() *term.Entry {
	b := &Block{
		base: base{cols: defaultCols, rows: defaultRows, colors: colorANSI},
		mode: blockModes["braille"],
	}
	e := &term.Entry{
		Name:        "block",
		Description: "pseudo-graphics with Unicode block or braille characters",
		VTic:        1,
		HTic:        1,
		Flags:       term.CanMultiplot,
		Driver:      b,
	}
	b.metrics(e)
	return e
}

// metrics sizes e for the current mode and page
func (b *Block) metrics(e *term.Entry) {
	e.XMax, e.YMax = b.cols*b.mode.w, b.rows*b.mode.h
	e.HChar, e.VChar = b.mode.w, b.mode.h
	e.HTic, e.VTic = b.mode.w, b.mode.h
}

func (b *Block) Options(args []string, e *term.Entry) error {
	for i := 0; i < len(args); {
		if m, ok := blockModes[args[i]]; ok {
			b.mode = m
			i++
			continue
		}
		n, err := b.commonOption(args, i, e)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("block: unrecognized option %q", args[i])
		}
		i += n
	}
	b.metrics(e)
	return nil
}

func (b *Block) Graphics() error {
	if err := b.page(); err != nil {
		return err
	}
	n := b.cols * b.rows
	b.bits = make([]uint8, n)
	b.color = make([]tcell.Color, n)
	b.isText = make([]bool, n)
	b.x, b.y = 0, 0
	b.Linetype(term.LTBlack)
	return nil
}

// Text renders the pixels into the cells not taken by text, then writes
// the page
func (b *Block) Text() error {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			i := row*b.cols + col
			if b.isText[i] || b.bits[i] == 0 {
				continue
			}
			b.canvas.set(col, row, b.mode.glyph(b.bits[i]), tcell.StyleDefault.Foreground(b.color[i]))
		}
	}
	return b.emit()
}

// pixel sets or clears the pixel at device x, y
func (b *Block) pixel(x, y int) {
	if x < 0 || y < 0 || x >= b.cols*b.mode.w || y >= b.rows*b.mode.h {
		return
	}
	col, row := x/b.mode.w, b.row(y/b.mode.h)
	bit := b.mode.bit(x%b.mode.w, b.mode.h-1-y%b.mode.h)
	i := row*b.cols + col
	if b.erase {
		b.bits[i] &^= bit
		return
	}
	b.bits[i] |= bit
	b.color[i] = b.pen
}

func (b *Block) Move(x, y int) {
	b.x, b.y = x, y
}

func (b *Block) Vector(x, y int) {
	if !b.nodraw {
		n := 0
		line(b.x, b.y, x, y, func(px, py int) {
			if !b.dotted || n%2 == 0 {
				b.pixel(px, py)
			}
			n++
		})
	}
	b.x, b.y = x, y
}

func (b *Block) Linetype(lt int) {
	b.erase = lt == term.LTBackground
	b.nodraw = lt == term.LTNoDraw
	b.dotted = lt == term.LTAxis
	b.pen = ltColor(lt)
	b.style = tcell.StyleDefault.Foreground(b.pen)
}

func (b *Block) SetColor(c *term.ColorSpec) {
	if c.Type == term.TCLt && c.Lt == term.LTBackground {
		b.erase = true
		return
	}
	b.erase = false
	b.pen = b.colorFor(c)
	b.style = tcell.StyleDefault.Foreground(b.pen)
}

func (b *Block) PutText(x, y int, s string) {
	s = b.plainText(s)
	col := x / b.mode.w
	row := y / b.mode.h
	switch b.justify {
	case term.Centre:
		col -= runewidth.StringWidth(s) / 2
	case term.Right:
		col -= runewidth.StringWidth(s)
	}
	r := b.row(row)
	used := b.canvas.text(col, r, s, b.style)
	for c := max(col, 0); c < min(col+used, b.cols); c++ {
		if r >= 0 && r < b.rows {
			b.isText[r*b.cols+c] = true
		}
	}
}

// fillPixel reports whether a fill style covers pixel x, y
func fillPixel(style, x, y int) bool {
	density := style >> 4
	switch style & 0xf {
	case term.FSEmpty:
		return false
	case term.FSSolid, term.FSTransparentSolid:
		if density >= 75 {
			return true
		}
		if density >= 25 {
			return (x+y)%2 == 0
		}
		return x%2 == 0 && y%2 == 0
	case term.FSPattern, term.FSTransparentPattern:
		switch abs(density) % 4 {
		case 0:
			return true
		case 1:
			return (x+y)%4 == 0
		case 2:
			return (x-y)%4 == 0
		default:
			return (x+y)%2 == 0
		}
	}
	return true
}

func (b *Block) fill(style int) func(x, y int) {
	erase := b.erase
	return func(x, y int) {
		covered := fillPixel(style, x, y)
		if style&0xf == term.FSEmpty {
			b.erase, covered = true, true
		}
		if covered {
			b.pixel(x, y)
		}
		b.erase = erase
	}
}

func (b *Block) FillBox(style, x, y, w, h int) {
	fillBox(x, y, w, h, b.fill(style))
}

func (b *Block) FilledPolygon(points []term.Point) {
	if len(points) < 3 {
		return
	}
	fillPolygon(points, b.fill(points[0].Style))
}
