package term

import "testing"

func TestEstimateStrlen(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		text  string
		want  int
	}{
		{"plain", 0, "hello", 5},
		{"wide runes", 0, "日本", 4},
		{"multiline", 0, "ab\ncd", 4},
		{"markup on a plain terminal", 0, "x_2", 3},
		{"subscript", EnhancedText, "x_2", 2},
		{"font size", EnhancedText, "{/=20 ab}", 4},
		{"hidden text keeps width", EnhancedText, "&{ab}c", 3},
		{"overprint adds nothing", EnhancedText, "~a{.5b}", 1},
		{"tex", IsLaTeX, "$x^2$", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, testEntry("rec", &recorder{}, tt.flags))
			selectTerm(t, s, "rec")
			if got := s.EstimateStrlen(tt.text); got != tt.want {
				t.Errorf("EstimateStrlen(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimatePlaintext(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"x_2", "x2"},
		{"{/Times=20 big} deal", "big deal"},
		{"&{ab}c", "  c"},
		{"~a{.5b}", "a"},
		{`\101`, "A"},
	}

	s, _ := newTestSession(t)
	for _, tt := range tests {
		if got := s.EstimatePlaintext(tt.text); got != tt.want {
			t.Errorf("EstimatePlaintext(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestStrlenTeX(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"abc", 3},
		{"$x^2$", 2},
		{`\alpha + b`, 5},
		{"[t]abc", 3},
		{`{\bf x}`, 3},
		{"$ü_i$", 2},
		{"日本", 4},
	}
	for _, tt := range tests {
		if got := StrlenTeX(tt.text); got != tt.want {
			t.Errorf("StrlenTeX(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
