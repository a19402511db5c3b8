package render

import (
	"image/color"
	"testing"
)

func TestLuminance(t *testing.T) {
	black := color.NRGBA{R: 0, G: 0, B: 0, A: 255}

	if l := Luminance(black); l != 0 {
		t.Errorf("Luminance(black) = %f, want 0", l)
	}
	if l := Luminance(white); l < 0.99 || l > 1.01 {
		t.Errorf("Luminance(white) = %f, want ~1.0", l)
	}
}

func TestAdjustForContrast(t *testing.T) {
	lightBg := color.NRGBA{R: 200, G: 220, B: 150, A: 255}
	darkBg := color.NRGBA{R: 30, G: 40, B: 20, A: 255}
	nearWhite := color.NRGBA{R: 229, G: 229, B: 229, A: 255}
	black := color.NRGBA{A: 255}

	if got := AdjustForContrast(nearWhite, lightBg); got.R >= nearWhite.R {
		t.Errorf("white on light bg should be darkened: got R=%d, was R=%d", got.R, nearWhite.R)
	}
	if got := AdjustForContrast(black, lightBg); got != black {
		t.Errorf("black on light bg should not change: got %v", got)
	}
	if got := AdjustForContrast(black, darkBg); got.R <= black.R {
		t.Errorf("black on dark bg should be lightened: got R=%d", got.R)
	}
	if got := AdjustForContrast(nearWhite, darkBg); got != nearWhite {
		t.Errorf("white on dark bg should not change: got %v", got)
	}
}

func TestLinetypeColor(t *testing.T) {
	if LinetypeColor(0) == LinetypeColor(1) {
		t.Error("linetypes 0 and 1 share a color")
	}
	if got, want := LinetypeColor(len(linetypeColors)), LinetypeColor(0); got != want {
		t.Errorf("LinetypeColor(%d) = %v, want it to wrap to %v", len(linetypeColors), got, want)
	}
	for i, c := range linetypeColors {
		if c.A != 255 {
			t.Errorf("linetype color %d is not opaque", i)
		}
	}
}

func TestMix(t *testing.T) {
	tests := []struct {
		frac float64
		want color.NRGBA
	}{
		{1, red},
		{0, white},
		{0.5, color.NRGBA{R: 255, G: 128, B: 128, A: 255}},
		{2, red},
		{-1, white},
	}
	for _, tt := range tests {
		if got := mix(red, white, tt.frac); got != tt.want {
			t.Errorf("mix(red, white, %v) = %v, want %v", tt.frac, got, tt.want)
		}
	}
}
