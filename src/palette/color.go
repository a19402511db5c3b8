package palette

import (
	"fmt"
	"image/color"
)

// RGB is a color triple with channels in [0,1]. Depending on context the
// channels may hold a raw HSV, CMY, YIQ or XYZ triple rather than RGB.
type RGB struct {
	R, G, B float64
}

// RGB255 is a device-ready 8-bit color
type RGB255 struct {
	R, G, B uint8
}

// constrain clamps v into [0,1]
func constrain(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp returns c with every channel clamped into [0,1]
func (c RGB) Clamp() RGB {
	return RGB{R: constrain(c.R), G: constrain(c.G), B: constrain(c.B)}
}

// To255 scales each channel to 0..255, truncating 255*c+0.5
func (c RGB) To255() RGB255 {
	return RGB255{
		R: uint8(255*c.R + 0.5),
		G: uint8(255*c.G + 0.5),
		B: uint8(255*c.B + 0.5),
	}
}

// RGB255FromRGB1 converts a [0,1] color into its 8-bit form
func RGB255FromRGB1(c RGB) RGB255 {
	return c.To255()
}

// NRGBA returns the opaque image/color value of c
func (c RGB255) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Packed returns c as 0xRRGGBB
func (c RGB255) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns c formatted as #rrggbb
func (c RGB255) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromPacked unpacks a 0xRRGGBB value
func FromPacked(v uint32) RGB255 {
	return RGB255{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// RGB1 returns the [0,1] form of c
func (c RGB255) RGB1() RGB {
	return RGB{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
