package term

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// estimateBaseSize is the nominal font size widths are measured against
const estimateBaseSize = 10.0

// estimator is an EnhancedTexter that measures instead of drawing. Width
// is counted in character cells of the base font size.
type estimator struct {
	opened    bool
	size      float64
	widthflag bool
	showflag  bool
	overprint int
	run       []byte

	width float64
	plain strings.Builder
}

func (e *estimator) EnhancedOpen(font string, size, base float64, widthflag, showflag bool, overprint int) {
	if e.opened {
		return
	}
	e.opened = true
	e.size = size
	e.widthflag = widthflag
	e.showflag = showflag
	e.overprint = overprint
	e.run = e.run[:0]
}

func (e *estimator) EnhancedWriteC(c byte) {
	if e.opened {
		e.run = append(e.run, c)
	}
}

func (e *estimator) EnhancedFlush() {
	if !e.opened {
		return
	}
	e.opened = false
	s := string(e.run)
	w := runewidth.StringWidth(s)

	if e.widthflag && e.overprint != 2 {
		e.width += float64(w) * e.size / estimateBaseSize
	}
	switch {
	case e.overprint == 2:
	case e.showflag:
		e.plain.WriteString(s)
	default:
		e.plain.WriteString(strings.Repeat(" ", w))
	}
}

func (s *Session) estimate(text string) *estimator {
	e := &estimator{}
	style := EnhancedStyle{PostScript: false, FontScale: 1}
	s.enhanced.Parse(e, style, text, "", estimateBaseSize)
	return e
}

// EstimateStrlen guesses how many character cells text will occupy once
// drawn. Enhanced-text markup and newlines are taken into account; TeX
// strings get a rough count that ignores control sequences.
func (s *Session) EstimateStrlen(text string) int {
	if s.term.Has(IsLaTeX) {
		return StrlenTeX(text)
	}
	if strings.Contains(text, "\n") || s.term.Has(EnhancedText) {
		return int(s.estimate(text).width + 0.5)
	}
	return runewidth.StringWidth(text)
}

// EstimatePlaintext returns text with enhanced-text markup removed
func (s *Session) EstimatePlaintext(text string) string {
	return s.estimate(text).plain.String()
}

// StrlenTeX estimates the printed length of a TeX string: anything in
// square brackets is skipped, a control word counts as one character and
// {}$_^ count as nothing
func StrlenTeX(str string) int {
	if !strings.ContainsAny(str, "{}$[]\\") {
		return runewidth.StringWidth(str)
	}

	n := 0
	for i := 0; i < len(str); {
		switch str[i] {
		case '[':
			for i < len(str) && str[i] != ']' {
				i++
			}
			i++
		case '\\':
			i++
			for i < len(str) && isAlpha(str[i]) {
				i++
			}
			n++
		case '{', '}', '$', '_', '^':
			i++
		default:
			_, size := utf8.DecodeRuneInString(str[i:])
			i += size
			n++
		}
	}
	return n
}
