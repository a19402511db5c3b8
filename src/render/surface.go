package render

import (
	"image"
	"image/color"
	"strings"
)

// Pt is a position in surface pixels, y growing downwards
type Pt struct {
	X, Y float64
}

// TextStyle selects a face and size for text
type TextStyle struct {
	Mono   bool
	Bold   bool
	Italic bool
	// Size is the em size in pixels
	Size float64
}

// StyleFor maps a font name such as "Courier:Bold" onto a TextStyle
func StyleFor(fontname string, size float64) TextStyle {
	family, _, _ := strings.Cut(fontname, ":")
	family = strings.ToLower(family)
	return TextStyle{
		Mono:   strings.Contains(family, "mono") || strings.Contains(family, "courier"),
		Bold:   strings.Contains(fontname, ":Bold"),
		Italic: strings.Contains(fontname, ":Italic"),
		Size:   size,
	}
}

// Fill says how a polygon is painted. Hatch 0 fills solid; other values
// select a hatch pattern drawn in Color over whatever is underneath.
type Fill struct {
	Color color.NRGBA
	Hatch int
}

// Surface is what the plot driver draws on
type Surface interface {
	// Size returns the pixel dimensions
	Size() image.Point

	// Clear fills the whole surface with bg
	Clear(bg color.NRGBA)

	// FillPolygon fills the closed polygon pts
	FillPolygon(pts []Pt, f Fill)

	// Stroke draws the open polyline pts
	Stroke(pts []Pt, width float64, c color.NRGBA)

	// DrawText draws s with its baseline starting at at, rotated
	// anticlockwise by angle degrees
	DrawText(at Pt, angle float64, s string, style TextStyle, c color.NRGBA)

	// TextWidth returns the advance of s in pixels
	TextWidth(s string, style TextStyle) float64
}

// Colors are the page colors
type Colors struct {
	Foreground color.NRGBA
	Background color.NRGBA
}

// DefaultColors returns black on white
func DefaultColors() Colors {
	return Colors{
		Foreground: color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}
