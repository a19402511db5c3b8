package term

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"plotterm/src/logging"
)

func parseEnhanced(t *testing.T, style EnhancedStyle, text, font string) (*textRecorder, EnhancedExtent, string) {
	t.Helper()
	var logs bytes.Buffer
	p := NewEnhancedParser(logging.New(&logs))
	r := &textRecorder{}
	ext := p.Parse(r, style, text, font, 10)
	return r, ext, logs.String()
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEnhancedRuns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "abc", []string{"abc"}},
		{"subscript", "a_b", []string{"a", "b"}},
		{"subscript takes one character", "a_bc", []string{"a", "b", "c"}},
		{"superscript group", "x^{n+1}", []string{"x", "n+1"}},
		{"nested", "x_{i^2}", []string{"x", "i", "2"}},
		{"octal escape", `\101B`, []string{"AB"}},
		{"escaped brace", `\{x\}`, []string{"{x}"}},
		{"utf-8", "é_ü", []string{"é", "ü"}},
		{"font spec", "{/Times=20 big}", []string{"big"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, logs := parseEnhanced(t, EnhancedStyle{}, tt.text, "")
			if got := r.texts(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) runs = %q, want %q", tt.text, got, tt.want)
			}
			if logs != "" {
				t.Errorf("Parse(%q) warned: %s", tt.text, logs)
			}
		})
	}
}

func TestEnhancedScriptGeometry(t *testing.T) {
	r, ext, _ := parseEnhanced(t, EnhancedStyle{}, "x^2_3", "")
	if len(r.runs) != 3 {
		t.Fatalf("runs = %q, want 3", r.texts())
	}
	sup, sub := r.runs[1], r.runs[2]
	if !near(sup.size, 8) || !near(sup.base, 5) {
		t.Errorf("superscript size %v base %v, want 8 and 5", sup.size, sup.base)
	}
	if !near(sub.size, 8) || !near(sub.base, -3) {
		t.Errorf("subscript size %v base %v, want 8 and -3", sub.size, sub.base)
	}
	if !near(ext.MaxHeight, 13) || !near(ext.MinHeight, -3) {
		t.Errorf("extent = %+v, want max 13 min -3", ext)
	}
}

func TestEnhancedFonts(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		font     string
		wantFont string
		wantSize float64
	}{
		{"absolute size", "{/Times=20 x}", "", "Times", 20},
		{"relative size", "{/*2 x}", "Sans", "Sans", 20},
		{"bold", "{/:Bold x}", "Helvetica", "Helvetica:Bold", 10},
		{"italic inherits bold", "{/:Bold {/:Italic x}}", "Sans", "Sans:Bold:Italic", 10},
		{"normal clears style", "{/:Bold {/:Normal x}}", "Sans", "Sans", 10},
		{"new face keeps style", "{/:Italic {/Courier x}}", "Sans", "Courier:Italic", 10},
		{"zero size keeps size", "{/=0 x}", "Sans", "Sans", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := parseEnhanced(t, EnhancedStyle{}, tt.text, tt.font)
			if len(r.runs) != 1 {
				t.Fatalf("runs = %q, want one", r.texts())
			}
			run := r.runs[0]
			if run.font != tt.wantFont || !near(run.size, tt.wantSize) {
				t.Errorf("Parse(%q) font %q size %v, want %q %v",
					tt.text, run.font, run.size, tt.wantFont, tt.wantSize)
			}
		})
	}
}

func TestEnhancedFontScale(t *testing.T) {
	r, _, _ := parseEnhanced(t, EnhancedStyle{FontScale: 0.5}, "{/=20 x}", "")
	if !near(r.runs[0].size, 10) {
		t.Errorf("scaled size = %v, want 10", r.runs[0].size)
	}
}

func TestEnhancedHiddenText(t *testing.T) {
	r, _, _ := parseEnhanced(t, EnhancedStyle{}, "&{ab}c", "")
	if got := r.texts(); !reflect.DeepEqual(got, []string{"ab", "c"}) {
		t.Fatalf("runs = %q", got)
	}
	if r.runs[0].showflag || !r.runs[0].widthflag {
		t.Errorf("hidden run = %+v, want width without showing", r.runs[0])
	}
	if !r.runs[1].showflag {
		t.Error("text after a hidden run is not shown")
	}
}

func TestEnhancedPhantom(t *testing.T) {
	r, _, _ := parseEnhanced(t, EnhancedStyle{}, "@{x}y", "")
	if got := r.texts(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("runs = %q", got)
	}
	if want := []string{"save@0", "restore@1"}; !reflect.DeepEqual(r.marks, want) {
		t.Errorf("marks = %v, want %v", r.marks, want)
	}
}

func TestEnhancedOverprint(t *testing.T) {
	r, _, _ := parseEnhanced(t, EnhancedStyle{}, "~a{.5b}c", "")
	if got := r.texts(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("runs = %q", got)
	}
	under, over, after := r.runs[0], r.runs[1], r.runs[2]
	if under.overprint != 1 {
		t.Errorf("underprint overprint = %d, want 1", under.overprint)
	}
	if over.overprint != 2 || over.widthflag || !near(over.base, 5) {
		t.Errorf("overprint run = %+v, want overprint 2 raised by 5 without width", over)
	}
	if after.overprint != 0 {
		t.Errorf("text after overprint has overprint %d", after.overprint)
	}
}

func TestEnhancedPostScriptEscapes(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"(a)", `\(a\)`},
		{`a\\b`, `a\\b`},
		{`\q`, `\\q`},
		{`\101`, "A"},
	}
	for _, tt := range tests {
		r, _, _ := parseEnhanced(t, EnhancedStyle{PostScript: true}, tt.text, "")
		if got := strings.Join(r.texts(), ""); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestEnhancedEscapeFormat(t *testing.T) {
	r, _, _ := parseEnhanced(t, EnhancedStyle{EscapeFormat: "&#%d;"}, `\101`, "")
	if got := strings.Join(r.texts(), ""); got != "&#65;" {
		t.Errorf("escaped = %q, want %q", got, "&#65;")
	}
}

func TestEnhancedWarnings(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
		warn string
	}{
		{"spurious brace", "a}b", []string{"a", "b"}, "ignoring spurious }"},
		{"trailing backslash", `a\`, []string{"a"}, "spurious backslash"},
		{"font without text", "{/Times}", nil, "bad syntax in enhanced text string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, logs := parseEnhanced(t, EnhancedStyle{}, tt.text, "")
			if got := r.texts(); len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("Parse(%q) runs = %q, want %q", tt.text, got, tt.want)
			}
			if !strings.Contains(logs, tt.warn) {
				t.Errorf("Parse(%q) log = %q, want %q", tt.text, logs, tt.warn)
			}
		})
	}
}

func TestStyleFont(t *testing.T) {
	tests := []struct {
		font         string
		bold, italic bool
		want         string
	}{
		{"Sans", false, false, "Sans"},
		{"Sans", true, false, "Sans:Bold"},
		{"Sans:Bold", false, true, "Sans:Italic"},
		{"Sans:Bold:Italic", true, true, "Sans:Bold:Italic"},
		{"", true, false, ":Bold"},
	}
	for _, tt := range tests {
		if got := StyleFont(tt.font, tt.bold, tt.italic); got != tt.want {
			t.Errorf("StyleFont(%q, %v, %v) = %q, want %q", tt.font, tt.bold, tt.italic, got, tt.want)
		}
	}
}

func TestParseFloatPrefix(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		wantN int
	}{
		{"12 x", 12, 2},
		{" .5b", 0.5, 3},
		{"-1.5e2}", -150, 6},
		{"3e}", 3, 1},
		{"x", 0, 0},
		{"-", 0, 0},
	}
	for _, tt := range tests {
		got, n := parseFloatPrefix([]byte(tt.in))
		if got != tt.want || n != tt.wantN {
			t.Errorf("parseFloatPrefix(%q) = %v, %d, want %v, %d", tt.in, got, n, tt.want, tt.wantN)
		}
	}
}
