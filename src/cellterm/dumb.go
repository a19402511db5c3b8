package cellterm

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"plotterm/src/term"
)

// penChars mark linetypes 0.. on the dumb terminal
const penChars = "*#$%@&=+"

// lineChars are the characters solid lines are drawn with
const lineChars = "-|/\\"

// densityChars shade solid fills from light to full
const densityChars = " .:-=+*#%@"

// patternChars stand in for the fill patterns
const patternChars = "#/\\x+-|."

// penDirectional draws solid lines with characters following their slope
const penDirectional = -1

// Dumb draws on a grid of character cells, one device unit per cell
type Dumb struct {
	base
	pen      rune
	x, y     int
	penStyle tcell.Style
}

// NewDumbEntry returns the dumb terminal entry
func NewDumbEntry() *term.Entry {
	d := &Dumb{base: base{cols: defaultCols, rows: defaultRows}}
	return &term.Entry{
		Name:        "dumb",
		Description: "ascii art for anything that prints text",
		XMax:        defaultCols,
		YMax:        defaultRows,
		VChar:       1,
		HChar:       1,
		VTic:        1,
		HTic:        1,
		Flags:       term.CanMultiplot,
		Driver:      d,
	}
}

func (d *Dumb) Options(args []string, e *term.Entry) error {
	for i := 0; i < len(args); {
		n, err := d.commonOption(args, i, e)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("dumb: unrecognized option %q", args[i])
		}
		i += n
	}
	e.XMax, e.YMax = d.cols, d.rows
	return nil
}

func (d *Dumb) Graphics() error {
	if err := d.page(); err != nil {
		return err
	}
	d.x, d.y = 0, 0
	d.Linetype(term.LTBlack)
	return nil
}

func (d *Dumb) Text() error {
	return d.emit()
}

func (d *Dumb) Move(x, y int) {
	d.x, d.y = x, y
}

func (d *Dumb) Vector(x, y int) {
	if d.pen != 0 {
		ch := d.pen
		if ch == penDirectional {
			ch = slopeChar(x-d.x, y-d.y)
		}
		line(d.x, d.y, x, y, func(px, py int) { d.plot(px, py, ch) })
	}
	d.x, d.y = x, y
}

// slopeChar picks the character for a line going dx, dy
func slopeChar(dx, dy int) rune {
	switch {
	case dy == 0:
		return '-'
	case dx == 0:
		return '|'
	case (dx > 0) == (dy > 0):
		if abs(dy) > 2*abs(dx) {
			return '|'
		}
		if abs(dx) > 2*abs(dy) {
			return '-'
		}
		return '/'
	default:
		if abs(dy) > 2*abs(dx) {
			return '|'
		}
		if abs(dx) > 2*abs(dy) {
			return '-'
		}
		return '\\'
	}
}

// plot sets one cell, marking crossings of solid lines with '+'
func (d *Dumb) plot(x, y int, ch rune) {
	row := d.row(y)
	if old := d.canvas.get(x, row); old != ch &&
		strings.ContainsRune(lineChars, old) && strings.ContainsRune(lineChars, ch) {
		ch = '+'
	}
	d.canvas.set(x, row, ch, d.penStyle)
}

func (d *Dumb) Linetype(lt int) {
	d.penStyle = tcell.StyleDefault
	switch {
	case lt == term.LTNoDraw:
		d.pen = 0
	case lt == term.LTBackground:
		d.pen = ' '
	case lt == term.LTAxis:
		d.pen = '.'
	case lt < 0:
		d.pen = penDirectional
	default:
		d.pen = rune(penChars[lt%len(penChars)])
		d.penStyle = d.penStyle.Foreground(ltColor(lt))
	}
	d.style = d.penStyle
}

// SetColor changes the color of what follows but keeps the pen
func (d *Dumb) SetColor(c *term.ColorSpec) {
	if c.Type == term.TCLt {
		if c.Lt == term.LTBackground {
			d.pen = ' '
		}
		d.penStyle = tcell.StyleDefault.Foreground(ltColor(c.Lt))
	} else {
		d.penStyle = tcell.StyleDefault.Foreground(d.colorFor(c))
	}
	d.style = d.penStyle
}

func (d *Dumb) Point(x, y, number int) {
	ch := '.'
	if number >= 0 {
		ch = rune('A' + number%26)
	}
	d.canvas.set(x, d.row(y), ch, d.penStyle)
}

func (d *Dumb) PutText(x, y int, s string) {
	d.putText(x, y, s)
}

// fillChar returns the character a fill style shades with
func fillChar(style int) rune {
	density := style >> 4
	switch style & 0xf {
	case term.FSEmpty:
		return ' '
	case term.FSSolid, term.FSTransparentSolid:
		density = min(max(density, 0), 100)
		return rune(densityChars[density*(len(densityChars)-1)/100])
	case term.FSPattern, term.FSTransparentPattern:
		return rune(patternChars[abs(density)%len(patternChars)])
	}
	return '#'
}

func (d *Dumb) FillBox(style, x, y, w, h int) {
	ch := fillChar(style)
	fillBox(x, y, w, h, func(px, py int) {
		d.canvas.set(px, d.row(py), ch, d.penStyle)
	})
}

func (d *Dumb) FilledPolygon(points []term.Point) {
	if len(points) < 3 {
		return
	}
	ch := fillChar(points[0].Style)
	fillPolygon(points, func(px, py int) {
		d.canvas.set(px, d.row(py), ch, d.penStyle)
	})
}
