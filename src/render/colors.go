package render

import (
	"image/color"
	"math"
)

// linetypeColors cycle over linetypes 0, 1, 2...
var linetypeColors = []color.NRGBA{
	{R: 0x94, G: 0x00, B: 0xd3, A: 255},
	{R: 0x00, G: 0x9e, B: 0x73, A: 255},
	{R: 0x56, G: 0xb4, B: 0xe9, A: 255},
	{R: 0xe6, G: 0x9f, B: 0x00, A: 255},
	{R: 0xf0, G: 0xe4, B: 0x42, A: 255},
	{R: 0x00, G: 0x72, B: 0xb2, A: 255},
	{R: 0xe5, G: 0x1e, B: 0x10, A: 255},
	{R: 0x00, G: 0x00, B: 0x00, A: 255},
}

// LinetypeColor returns the color of linetype lt >= 0
func LinetypeColor(lt int) color.NRGBA {
	return linetypeColors[lt%len(linetypeColors)]
}

// axisColor draws the zero axes
var axisColor = color.NRGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 255}

// Luminance computes the perceptual luminance of a color (0-1 range)
func Luminance(c color.NRGBA) float64 {
	return 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
}

// AdjustForContrast shifts fg towards readability when its luminance is
// within 0.5 of bg: lighter on dark backgrounds, darker on light ones.
func AdjustForContrast(fg, bg color.NRGBA) color.NRGBA {
	fgLum := Luminance(fg)
	bgLum := Luminance(bg)

	if math.Abs(fgLum-bgLum) >= 0.5 {
		return fg
	}

	if bgLum < 0.5 {
		return color.NRGBA{
			R: clampAdd(fg.R, 77),
			G: clampAdd(fg.G, 77),
			B: clampAdd(fg.B, 77),
			A: fg.A,
		}
	}
	return color.NRGBA{
		R: clampSub(fg.R, 77),
		G: clampSub(fg.G, 77),
		B: clampSub(fg.B, 77),
		A: fg.A,
	}
}

// mix blends c over bg with weight frac in [0,1]
func mix(c, bg color.NRGBA, frac float64) color.NRGBA {
	frac = math.Max(0, math.Min(1, frac))
	blend := func(a, b uint8) uint8 {
		return uint8(float64(a)*frac + float64(b)*(1-frac) + 0.5)
	}
	return color.NRGBA{R: blend(c.R, bg.R), G: blend(c.G, bg.G), B: blend(c.B, bg.B), A: 255}
}

func clampAdd(v, delta uint8) uint8 {
	sum := int(v) + int(delta)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

func clampSub(v, delta uint8) uint8 {
	diff := int(v) - int(delta)
	if diff < 0 {
		return 0
	}
	return uint8(diff)
}
