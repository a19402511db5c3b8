package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/tiff"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func newSurface(t *testing.T, w, h int) *ImageSurface {
	t.Helper()
	s, err := NewImageSurface(w, h)
	if err != nil {
		t.Fatalf("NewImageSurface() error = %v", err)
	}
	s.Clear(white)
	return s
}

// inked returns the bounds of the pixels that are not white
func inked(img *image.RGBA) (image.Rectangle, int) {
	var r image.Rectangle
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				r = r.Union(image.Rect(x, y, x+1, y+1))
				n++
			}
		}
	}
	return r, n
}

func TestLoadFonts(t *testing.T) {
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts() error = %v", err)
	}
	for name, f := range map[string]*opentype.Font{
		"Regular":    fonts.Regular,
		"Bold":       fonts.Bold,
		"Italic":     fonts.Italic,
		"BoldItalic": fonts.BoldItalic,
		"Mono":       fonts.Mono,
	} {
		if f == nil {
			t.Errorf("%s font not loaded", name)
		}
	}
}

func TestImageSurfaceClear(t *testing.T) {
	s := newSurface(t, 10, 5)
	if got := s.Size(); got != image.Pt(10, 5) {
		t.Errorf("Size() = %v, want (10,5)", got)
	}

	s.Clear(red)
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			if got := s.Image().RGBAAt(x, y); got != (color.RGBA{R: 255, A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want red", x, y, got)
			}
		}
	}
}

func TestImageSurfaceFillPolygon(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.FillPolygon([]Pt{{2, 2}, {8, 2}, {8, 8}, {2, 8}}, Fill{Color: red})

	img := s.Image()
	if got := img.RGBAAt(5, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestImageSurfaceHatchFill(t *testing.T) {
	s := newSurface(t, 16, 16)
	s.FillPolygon([]Pt{{0, 0}, {16, 0}, {16, 16}, {0, 16}}, Fill{Color: red, Hatch: 4})

	img := s.Image()
	if got := img.RGBAAt(4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("hatch line pixel = %v, want red", got)
	}
	if got := img.RGBAAt(5, 4); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("between hatch lines = %v, want white", got)
	}
}

func TestHatch(t *testing.T) {
	tests := []struct {
		kind int
		x, y int
		want bool
	}{
		{0, 0, 0, false},
		{3, 5, 7, true},
		{4, 0, 0, true},
		{4, 1, 0, false},
		{4, 7, 1, true},
		{5, 3, 3, true},
		{5, -3, 5, true},
		{1, 4, 4, true},
		{1, 4, -4, true},
		{2, 1, 1, true},
		{12, 0, 0, true},
	}
	for _, tt := range tests {
		h := hatch{c: red, kind: tt.kind}
		if got := h.on(tt.x, tt.y); got != tt.want {
			t.Errorf("hatch %d at (%d,%d) = %v, want %v", tt.kind, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageSurfaceStroke(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.Stroke([]Pt{{0, 5}, {10, 5}}, 2, red)

	img := s.Image()
	for _, y := range []int{4, 5} {
		if got := img.RGBAAt(5, y); got != (color.RGBA{R: 255, A: 255}) {
			t.Errorf("pixel (5,%d) = %v, want red", y, got)
		}
	}
	if got := img.RGBAAt(5, 8); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel (5,8) = %v, want white", got)
	}
}

func TestImageSurfaceStrokeTransparent(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.Stroke([]Pt{{0, 5}, {10, 5}}, 2, color.NRGBA{R: 255})
	if _, n := inked(s.Image()); n != 0 {
		t.Errorf("transparent stroke inked %d pixels", n)
	}
}

func TestImageSurfaceDrawText(t *testing.T) {
	s := newSurface(t, 60, 30)
	s.DrawText(Pt{2, 20}, 0, "Hi", TextStyle{Size: 16}, red)

	box, n := inked(s.Image())
	if n == 0 {
		t.Fatal("DrawText() drew nothing")
	}
	if box.Max.Y > 22 {
		t.Errorf("text bottom = %d, want above the baseline at 20", box.Max.Y)
	}
}

func TestImageSurfaceDrawRotatedText(t *testing.T) {
	s := newSurface(t, 60, 60)
	s.DrawText(Pt{30, 55}, 90, "Hello", TextStyle{Size: 16}, red)

	box, n := inked(s.Image())
	if n == 0 {
		t.Fatal("DrawText() drew nothing")
	}
	if box.Dy() <= box.Dx() {
		t.Errorf("rotated text box = %v, want taller than wide", box)
	}
	if box.Max.X > 33 || box.Max.Y > 58 {
		t.Errorf("rotated text box = %v, want it left of x=30 and above y=55", box)
	}
}

func TestImageSurfaceTextWidth(t *testing.T) {
	s := newSurface(t, 10, 10)
	plain := TextStyle{Size: 12}
	if a, ab := s.TextWidth("a", plain), s.TextWidth("ab", plain); a <= 0 || ab <= a {
		t.Errorf("TextWidth(a) = %v, TextWidth(ab) = %v", a, ab)
	}

	mono := TextStyle{Mono: true, Size: 12}
	if i, m := s.TextWidth("iii", mono), s.TextWidth("mmm", mono); i != m {
		t.Errorf("mono widths differ: %v and %v", i, m)
	}
}

func TestImageSurfaceEncode(t *testing.T) {
	decoders := map[Format]func(io.Reader) (image.Image, error){
		FormatPNG:  png.Decode,
		FormatBMP:  bmp.Decode,
		FormatTIFF: tiff.Decode,
	}

	s := newSurface(t, 12, 7)
	for f, decode := range decoders {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := s.Encode(&buf, f); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			img, err := decode(&buf)
			if err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if got := img.Bounds().Size(); got != image.Pt(12, 7) {
				t.Errorf("decoded size = %v, want (12,7)", got)
			}
		})
	}

	if err := s.Encode(io.Discard, FormatWindow); err == nil {
		t.Error("Encode(gio) error = nil, want an error")
	}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		font string
		want TextStyle
	}{
		{"Sans", TextStyle{Size: 10}},
		{"Courier:Bold", TextStyle{Mono: true, Bold: true, Size: 10}},
		{"Sans:Bold:Italic", TextStyle{Bold: true, Italic: true, Size: 10}},
		{"DejaVu Sans Mono", TextStyle{Mono: true, Size: 10}},
		{"", TextStyle{Size: 10}},
	}
	for _, tt := range tests {
		if got := StyleFor(tt.font, 10); got != tt.want {
			t.Errorf("StyleFor(%q) = %+v, want %+v", tt.font, got, tt.want)
		}
	}
}
