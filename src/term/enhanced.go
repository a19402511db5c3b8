package term

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"plotterm/src/logging"
)

// EnhancedStyle holds the per-terminal settings of the enhanced-text parser
type EnhancedStyle struct {
	// PostScript escapes parentheses and backslashes for PostScript strings
	PostScript bool
	// FontScale multiplies explicit {/Font=size} sizes
	FontScale float64
	// EscapeFormat renders \ooo octal escapes; the default writes the byte
	EscapeFormat string
}

// EnhancedExtent is the vertical extent reached while parsing, relative
// to the baseline
type EnhancedExtent struct {
	MaxHeight, MinHeight float64
}

// EnhancedParser interprets enhanced-text markup and drives an
// EnhancedTexter with the resulting runs:
//
//	a_b a^b        subscript and superscript of one character or group
//	{/Font=12 x}   font, size (=abs, *rel) and :Bold/:Italic/:Normal style
//	@x             phantom: draw x, then return to where it started
//	&x             skip the width of x without drawing it
//	~a{.5b}        overprint b centered on a, raised by .5 font heights
//	\ooo           octal character code
//
// Malformed markup is reported as a warning and parsing carries on.
type EnhancedParser struct {
	Log *logging.Logger
}

// NewEnhancedParser returns a parser that warns through log
func NewEnhancedParser(log *logging.Logger) *EnhancedParser {
	return &EnhancedParser{Log: log}
}

type enhancedRun struct {
	v      EnhancedTexter
	style  EnhancedStyle
	text   []byte
	log    *logging.Logger
	extent EnhancedExtent
}

// Parse runs text through v starting with font at size
func (ep *EnhancedParser) Parse(v EnhancedTexter, style EnhancedStyle, text, font string, size float64) EnhancedExtent {
	log := ep.Log
	if log == nil {
		log = logging.Default()
	}
	if style.FontScale == 0 {
		style.FontScale = 1
	}
	r := &enhancedRun{v: v, style: style, text: []byte(text), log: log}

	p := 0
	for {
		p = r.recurse(p, true, font, size, 0, true, true, 0)
		if r.at(p) == 0 {
			break
		}
		// only a stray } stops the top level early
		v.EnhancedFlush()
		r.errCheck(p)
		p++
		if r.at(p) == 0 {
			break
		}
	}
	return r.extent
}

// at returns the byte at i, or 0 past the end
func (r *enhancedRun) at(i int) byte {
	if i < 0 || i >= len(r.text) {
		return 0
	}
	return r.text[i]
}

func (r *enhancedRun) warn(msg string) {
	r.log.Warn("enhanced", "%s", msg)
}

func (r *enhancedRun) errCheck(p int) {
	if r.at(p) == '}' {
		r.warn("enhanced text mode parser - ignoring spurious }")
	} else {
		r.warn("enhanced text mode parsing error")
	}
}

// recurse processes text from p and returns the index of the last byte it
// used. With brace set it runs to the matching }, otherwise it handles a
// single character or group.
func (r *enhancedRun) recurse(p int, brace bool, font string, size, base float64,
	widthflag, showflag bool, overprint int) int {
	v := r.v
	wasItalic := strings.Contains(font, ":Italic")
	wasBold := strings.Contains(font, ":Bold")

	v.EnhancedFlush()

	if base+size > r.extent.MaxHeight {
		r.extent.MaxHeight = base + size
	}
	if base < r.extent.MinHeight {
		r.extent.MinHeight = base
	}

	open := func() {
		v.EnhancedOpen(font, size, base, widthflag, showflag, overprint)
	}

	for r.at(p) != 0 {
		c := r.at(p)

		if c&0x80 != 0 {
			// copy a whole UTF-8 sequence, or a single stray byte
			open()
			_, n := utf8.DecodeRune(r.text[p:])
			for i := 0; i < n; i++ {
				v.EnhancedWriteC(r.text[p+i])
			}
			p += n - 1
		} else {
			switch c {
			case '}':
				if brace {
					return p
				}
				r.warn("enhanced text parser - spurious }")

			case '_', '^':
				shift := -0.3
				if c == '^' {
					shift = 0.5
				}
				v.EnhancedFlush()
				p = r.recurse(p+1, false, font, size*0.8, base+shift*size,
					widthflag, showflag, overprint)

			case '{':
				p = r.group(p, font, size, base, widthflag, showflag, overprint, wasBold, wasItalic)

			case '@':
				// phantom box: draw, then restore the current point
				v.EnhancedFlush()
				v.EnhancedOpen(font, size, base, widthflag, showflag, 3)
				p = r.recurse(p+1, false, font, size, base, widthflag, showflag, overprint)
				v.EnhancedOpen(font, size, base, widthflag, showflag, 4)

			case '&':
				v.EnhancedFlush()
				p = r.recurse(p+1, false, font, size, base, widthflag, false, overprint)

			case '~':
				// underprinted text, then overprinted text centered on it
				v.EnhancedFlush()
				p = r.recurse(p+1, false, font, size, base, widthflag, showflag, 1)
				v.EnhancedFlush()
				if r.at(p) == 0 {
					break
				}
				p = r.recurse(p+1, false, font, size, base, false, showflag, 2)
				overprint = 0

			case '(', ')':
				open()
				if r.style.PostScript {
					v.EnhancedWriteC('\\')
				}
				v.EnhancedWriteC(c)

			case '\\':
				p = r.escape(p, open)

			default:
				open()
				v.EnhancedWriteC(c)
			}
		}

		// like TeX, one character per recursion unless in braces
		if !brace {
			v.EnhancedFlush()
			return p
		}

		if r.at(p) != 0 {
			p++
		}
	}

	v.EnhancedFlush()
	return p
}

// group handles {...} with an optional overprint offset and font spec,
// returning the index of the closing brace
func (r *enhancedRun) group(p int, font string, size, base float64,
	widthflag, showflag bool, overprint int, wasBold, wasItalic bool) int {
	isBold, isItalic, isNormal := false, false, false
	f := size
	localFont := ""

	p++
	for r.at(p) == ' ' {
		p++
	}
	if overprint == 2 {
		ovp, n := parseFloatPrefix(r.text[p:])
		p += n
		if r.style.PostScript {
			base = ovp * f
		} else {
			base += ovp * f
		}
	}

	if r.at(p) == '/' {
		p++
		for r.at(p) == ' ' {
			p++
		}
		if r.at(p) == '-' {
			p++
			for r.at(p) == ' ' {
				p++
			}
		}
		start := p
		ch := r.at(p)
		for ch > ' ' && ch != '=' && ch != '*' && ch != '}' && ch != ':' {
			p++
			ch = r.at(p)
		}
		end := p

		for {
			switch ch {
			case '=':
				p++
				val, n := parseFloatPrefix(r.text[p:])
				p += n
				if val == 0 {
					f = size
				} else {
					f = val * r.style.FontScale
				}
			case '*':
				p++
				val, n := parseFloatPrefix(r.text[p:])
				p += n
				if val != 0 {
					f = val * size
				} else {
					f = size
				}
			case ':':
				p++
				rest := r.text[p:]
				if hasPrefix(rest, "Bold") {
					isBold = true
				}
				if hasPrefix(rest, "Italic") {
					isItalic = true
				}
				if hasPrefix(rest, "Normal") {
					isNormal = true
				}
				for isAlpha(r.at(p)) {
					p++
				}
			}
			ch = r.at(p)
			if ch != '=' && ch != ':' && ch != '*' {
				break
			}
		}

		if ch == '}' {
			r.warn("bad syntax in enhanced text string")
		}
		// a single space after a font spec is eaten
		if r.at(p) == ' ' {
			p++
		}
		if end > start {
			localFont = string(r.text[start:end])
		}
	}

	isItalic = (wasItalic || isItalic) && !isNormal
	isBold = (wasBold || isBold) && !isNormal

	name := font
	if localFont != "" {
		name = localFont
	}
	styled := StyleFont(name, isBold, isItalic)

	p = r.recurse(p, true, styled, f, base, widthflag, showflag, overprint)
	r.v.EnhancedFlush()
	return p
}

// escape handles a backslash at p and returns the index of the last byte
// used
func (r *enhancedRun) escape(p int, open func()) int {
	v := r.v
	next := r.at(p + 1)

	if isOctal(next) {
		open()
		start := p + 1
		p++
		if isOctal(r.at(p + 1)) {
			p++
			if isOctal(r.at(p + 1)) {
				p++
			}
		}
		code, _ := strconv.ParseInt(string(r.text[start:p+1]), 8, 32)
		for _, b := range []byte(r.formatEscape(code)) {
			v.EnhancedWriteC(b)
		}
		return p
	}

	if r.style.PostScript {
		if next == '\\' || next == '(' || next == ')' {
			open()
			v.EnhancedWriteC('\\')
		} else if next != 0 && strings.IndexByte("^_@&~{}", next) < 0 {
			open()
			v.EnhancedWriteC('\\')
			v.EnhancedWriteC('\\')
			return p
		}
	}

	p++
	if r.at(p) == 0 {
		r.warn("enhanced text parser -- spurious backslash")
		return p
	}
	open()
	v.EnhancedWriteC(r.at(p))
	return p
}

func (r *enhancedRun) formatEscape(code int64) string {
	format := r.style.EscapeFormat
	if format == "" || format == "%c" {
		return string([]byte{byte(code)})
	}
	return fmt.Sprintf(format, code)
}

// StyleFont strips any style suffix from fontname and appends the
// requested ones
func StyleFont(fontname string, bold, italic bool) string {
	if i := strings.IndexByte(fontname, ':'); i >= 0 {
		fontname = fontname[:i]
	}
	if bold {
		fontname += ":Bold"
	}
	if italic {
		fontname += ":Italic"
	}
	return fontname
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func hasPrefix(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

// parseFloatPrefix reads the longest decimal number at the start of b,
// after optional spaces, and returns it with the number of bytes used.
// Nothing is used if there is no number.
func parseFloatPrefix(b []byte) (float64, int) {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	start := i
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	digits := 0
	for i < len(b) && isDigit(b[i]) {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for i < len(b) && isDigit(b[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, 0
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}
		if j < len(b) && isDigit(b[j]) {
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(string(b[start:i]), 64)
	if err != nil {
		return 0, 0
	}
	return v, i
}
