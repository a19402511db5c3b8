package postscript

import (
	"fmt"
	"strings"

	"plotterm/src/term"
)

// enhancedMarkup are the bytes that make a string worth parsing as
// enhanced text
const enhancedMarkup = "{}^_@&~\\"

var showOps = [...]string{term.Left: "Lshow", term.Centre: "Cshow", term.Right: "Rshow"}
var mfShowOps = [...]string{term.Left: "MLshow", term.Centre: "MCshow", term.Right: "MRshow"}

// escape makes s safe inside a PostScript string literal
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c >= 0x80 || c < ' ':
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeHigh octal-escapes bytes outside printable ASCII. Enhanced runs
// already have their parentheses and backslashes escaped.
func escapeHigh(text []byte) string {
	var b strings.Builder
	for _, c := range text {
		if c >= 0x80 || c < ' ' {
			fmt.Fprintf(&b, "\\%03o", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (d *Driver) PutText(x, y int, s string) {
	d.stroke()
	if s == "" {
		return
	}

	j := d.justify
	if j < term.Left || j > term.Right {
		j = term.Left
	}
	if d.angle != 0 {
		d.printf("gsave %d %d translate %d rotate 0 0 M\n", x, y, d.angle)
	} else {
		d.printf("%d %d M\n", x, y)
	}

	if d.env.Entry.Has(term.EnhancedText) && strings.ContainsAny(s, enhancedMarkup) {
		d.putEnhanced(s, mfShowOps[j])
	} else {
		d.printf("(%s) %s\n", escape(s), showOps[j])
	}

	if d.angle != 0 {
		d.printf("grestore\n")
	}
}

// putEnhanced lays out s as runs for MFshow
func (d *Driver) putEnhanced(s, show string) {
	d.runs = d.runs[:0]
	style := term.EnhancedStyle{PostScript: true, EscapeFormat: `\%03o`}
	d.env.Enhanced.Parse(d, style, s, d.curFont, d.curSize)
	d.EnhancedFlush()

	d.printf("[")
	for i, r := range d.runs {
		if i > 0 {
			d.printf("\n ")
		}
		font := psFontName(r.font)
		if r.overprint != 3 && r.overprint != 4 {
			d.fonts[font] = true
		}
		d.printf("[(%s) (%s) %.1f %.1f %t %t %d]",
			escapeHigh(r.text), font, r.size*psSC, r.base*psSC, r.showflag, r.widthflag, r.overprint)
	}
	d.printf("] %s\n", show)

	// MFshow leaves the font of the last run selected
	cur, size := d.curFont, d.curSize
	d.curFont, d.curSize = "", 0
	d.selectFont(cur, size)
}

func (d *Driver) EnhancedOpen(font string, size, base float64, widthflag, showflag bool, overprint int) {
	// 3 and 4 save and restore the position; they carry no text
	if overprint == 3 || overprint == 4 {
		d.EnhancedFlush()
		d.runs = append(d.runs, run{font: font, size: size, overprint: overprint})
		return
	}
	if d.open {
		return
	}
	d.open = true
	d.cur = run{font: font, size: size, base: base,
		widthflag: widthflag, showflag: showflag, overprint: overprint}
}

func (d *Driver) EnhancedWriteC(c byte) {
	if d.open {
		d.cur.text = append(d.cur.text, c)
	}
}

func (d *Driver) EnhancedFlush() {
	if !d.open {
		return
	}
	d.open = false
	if len(d.cur.text) > 0 {
		d.runs = append(d.runs, d.cur)
	}
}
