package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
	"golang.org/x/image/vector"
)

// FontSet holds the loaded fonts
type FontSet struct {
	Regular    *opentype.Font
	Bold       *opentype.Font
	Italic     *opentype.Font
	BoldItalic *opentype.Font
	Mono       *opentype.Font
}

var (
	defaultFonts *FontSet
	fontsOnce    sync.Once
	fontsErr     error
)

// LoadFonts parses the Go fonts once
func LoadFonts() (*FontSet, error) {
	fontsOnce.Do(func() {
		fs := &FontSet{}
		for _, f := range []struct {
			dst  **opentype.Font
			data []byte
		}{
			{&fs.Regular, goregular.TTF},
			{&fs.Bold, gobold.TTF},
			{&fs.Italic, goitalic.TTF},
			{&fs.BoldItalic, gobolditalic.TTF},
			{&fs.Mono, gomono.TTF},
		} {
			*f.dst, fontsErr = opentype.Parse(f.data)
			if fontsErr != nil {
				return
			}
		}
		defaultFonts = fs
	})

	return defaultFonts, fontsErr
}

func (fs *FontSet) pick(style TextStyle) *opentype.Font {
	switch {
	case style.Mono:
		return fs.Mono
	case style.Bold && style.Italic:
		return fs.BoldItalic
	case style.Bold:
		return fs.Bold
	case style.Italic:
		return fs.Italic
	}
	return fs.Regular
}

// ImageSurface rasterizes onto an in-memory RGBA image
type ImageSurface struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	fonts *FontSet
	faces map[TextStyle]font.Face
}

// NewImageSurface creates a w x h surface
func NewImageSurface(w, h int) (*ImageSurface, error) {
	fonts, err := LoadFonts()
	if err != nil {
		return nil, err
	}
	return &ImageSurface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		z:     vector.NewRasterizer(w, h),
		fonts: fonts,
		faces: make(map[TextStyle]font.Face),
	}, nil
}

func (s *ImageSurface) face(style TextStyle) font.Face {
	style.Size = math.Round(style.Size*4) / 4
	if style.Size <= 0 {
		style.Size = 1
	}
	if face, ok := s.faces[style]; ok {
		return face
	}

	face, err := opentype.NewFace(s.fonts.pick(style), &opentype.FaceOptions{
		Size:    style.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// only a bad size gets here; fall back to the plain face
		face, _ = opentype.NewFace(s.fonts.Regular, &opentype.FaceOptions{Size: 12, DPI: 72})
	}
	s.faces[style] = face
	return face
}

// Size returns the image dimensions
func (s *ImageSurface) Size() image.Point {
	return s.img.Bounds().Size()
}

// Clear fills the image with a background color
func (s *ImageSurface) Clear(bg color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// fill paints the union of polys with src
func (s *ImageSurface) fill(polys [][]Pt, src image.Image) {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	s.z.DrawOp = draw.Over
	for _, p := range polys {
		if len(p) < 3 {
			continue
		}
		s.z.MoveTo(float32(p[0].X), float32(p[0].Y))
		for _, q := range p[1:] {
			s.z.LineTo(float32(q.X), float32(q.Y))
		}
		s.z.ClosePath()
	}
	s.z.Draw(s.img, b, src, image.Point{})
}

// FillPolygon fills a polygon solid or with a hatch pattern
func (s *ImageSurface) FillPolygon(pts []Pt, f Fill) {
	var src image.Image = image.NewUniform(f.Color)
	if f.Hatch != 0 {
		src = hatch{c: f.Color, kind: f.Hatch}
	}
	s.fill([][]Pt{pts}, src)
}

// Stroke draws each segment as a quad extended by half the width at both
// ends, so consecutive segments overlap at the joins
func (s *ImageSurface) Stroke(pts []Pt, width float64, c color.NRGBA) {
	if len(pts) < 2 || c.A == 0 {
		return
	}
	hw := math.Max(width, 1) / 2
	quads := make([][]Pt, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			dx, dy, l = 1, 0, 1
		}
		ux, uy := dx/l*hw, dy/l*hw
		nx, ny := -uy, ux
		a = Pt{X: a.X - ux, Y: a.Y - uy}
		b = Pt{X: b.X + ux, Y: b.Y + uy}
		quads = append(quads, []Pt{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
	s.fill(quads, image.NewUniform(c))
}

// DrawText draws s with its baseline starting at at. Rotated text is
// drawn upright into a scratch image and transformed onto the page.
func (s *ImageSurface) DrawText(at Pt, angle float64, str string, style TextStyle, c color.NRGBA) {
	face := s.face(style)
	if angle == 0 {
		d := &font.Drawer{
			Dst:  s.img,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.Int26_6(at.X * 64), Y: fixed.Int26_6(at.Y * 64)},
		}
		d.DrawString(str)
		return
	}

	bounds, _ := font.BoundString(face, str)
	ox := -bounds.Min.X.Floor() + 1
	oy := -bounds.Min.Y.Floor() + 1
	w := bounds.Max.X.Ceil() + ox + 1
	h := bounds.Max.Y.Ceil() + oy + 1
	if w <= 0 || h <= 0 {
		return
	}
	scratch := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  scratch,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(ox, oy),
	}
	d.DrawString(str)

	sin, cos := math.Sincos(angle * math.Pi / 180)
	fx, fy := float64(ox), float64(oy)
	m := f64.Aff3{
		cos, sin, at.X - cos*fx - sin*fy,
		-sin, cos, at.Y + sin*fx - cos*fy,
	}
	draw.BiLinear.Transform(s.img, m, scratch, scratch.Bounds(), draw.Over, nil)
}

// TextWidth returns the advance of s
func (s *ImageSurface) TextWidth(str string, style TextStyle) float64 {
	return float64(font.MeasureString(s.face(style), str)) / 64
}

// Image returns the underlying image
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Encode writes the image in format f
func (s *ImageSurface) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, s.img)
	case FormatBMP:
		return bmp.Encode(w, s.img)
	case FormatTIFF:
		return tiff.Encode(w, s.img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("cannot encode %s images", f)
}

// hatch is an unbounded image of diagonal or crossed lines
type hatch struct {
	c    color.NRGBA
	kind int
}

func (h hatch) ColorModel() color.Model { return color.NRGBAModel }

func (h hatch) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (h hatch) At(x, y int) color.Color {
	if h.on(x, y) {
		return h.c
	}
	return color.NRGBA{}
}

func (h hatch) on(x, y int) bool {
	switch h.kind % 8 {
	case 1:
		return mod(x+y, 8) == 0 || mod(x-y, 8) == 0
	case 2:
		return mod(x+y, 4) == 0 || mod(x-y, 4) == 0
	case 3:
		return true
	case 4:
		return mod(x+y, 8) == 0
	case 5:
		return mod(x-y, 8) == 0
	case 6:
		return mod(2*x+y, 12) == 0
	case 7:
		return mod(2*x-y, 12) == 0
	}
	return false
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
