package palette

import (
	"math"
	"strings"
)

// ColorModel selects how raw palette triples are interpreted
type ColorModel byte

const (
	ModelRGB ColorModel = 'r'
	ModelHSV ColorModel = 'h'
	ModelCMY ColorModel = 'c'
	ModelYIQ ColorModel = 'y'
	ModelXYZ ColorModel = 'x'
)

// String returns the keyword used by "set palette model"
func (m ColorModel) String() string {
	switch m {
	case ModelRGB:
		return "RGB"
	case ModelHSV:
		return "HSV"
	case ModelCMY:
		return "CMY"
	case ModelYIQ:
		return "YIQ"
	case ModelXYZ:
		return "XYZ"
	}
	return string(rune(m))
}

// ParseColorModel parses a model keyword such as "HSV"
func ParseColorModel(s string) (ColorModel, bool) {
	for _, m := range []ColorModel{ModelRGB, ModelHSV, ModelCMY, ModelYIQ, ModelXYZ} {
		if strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return 0, false
}

// ToRGB converts a raw triple in model m into RGB. Unknown models log a
// diagnostic and pass the triple through.
func (m ColorModel) ToRGB(c RGB) RGB {
	switch m {
	case ModelRGB:
		return c
	case ModelHSV:
		return HSVToRGB(c)
	case ModelCMY:
		return CMYToRGB(c)
	case ModelYIQ:
		return YIQToRGB(c)
	case ModelXYZ:
		return XYZToRGB(c)
	}
	logger().Error("palette", "Unknown color model '%c'", byte(m))
	return c
}

// CMYToRGB converts cyan/magenta/yellow into RGB
func CMYToRGB(c RGB) RGB {
	return RGB{
		R: constrain(1 - c.R),
		G: constrain(1 - c.G),
		B: constrain(1 - c.B),
	}
}

// XYZToRGB converts CIE XYZ into RGB
func XYZToRGB(c RGB) RGB {
	x, y, z := c.R, c.G, c.B
	return RGB{
		R: constrain(1.9100*x - 0.5338*y - 0.2891*z),
		G: constrain(-0.9844*x + 1.9990*y - 0.0279*z),
		B: constrain(0.0585*x - 0.1187*y - 0.9017*z),
	}
}

// YIQToRGB converts NTSC YIQ into RGB
func YIQToRGB(c RGB) RGB {
	y, i, q := c.R, c.G, c.B
	return RGB{
		R: constrain(y - 0.956*i + 0.621*q),
		G: constrain(y - 0.272*i - 0.647*q),
		B: constrain(y - 1.105*i - 1.702*q),
	}
}

// HSVToRGB converts hue/saturation/value into RGB. Hue is in [0,1] and
// wraps around.
func HSVToRGB(c RGB) RGB {
	h, s, v := c.R, c.G, c.B
	if s == 0 {
		return RGB{R: v, G: v, B: v}
	}

	h *= 6
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	sector := int(i) % 6
	if sector < 0 {
		sector += 6
	}

	var r, g, b float64
	switch sector {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return RGB{R: r, G: g, B: b}.Clamp()
}

// HSV2RGBPacked converts an HSV triple and packs it as 0xRRGGBB
func HSV2RGBPacked(c RGB) uint32 {
	return HSVToRGB(c.Clamp()).To255().Packed()
}
