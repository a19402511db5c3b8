package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientPoint is one control point of a piecewise-linear palette
type GradientPoint struct {
	Pos float64
	Col RGB
}

// Gradient is an ordered list of control points. Positions are expected to
// be non-decreasing, starting at 0 and ending at 1.
type Gradient []GradientPoint

// ErrUnsortedGradient is returned when control point positions decrease
var ErrUnsortedGradient = errors.New("palette gradient positions must be non-decreasing")

// Interpolate returns the color for gray. Out-of-range gray values return
// the nearest end color with ok set to false.
func (g Gradient) Interpolate(gray float64) (RGB, bool) {
	if gray < 0 {
		return g[0].Col, false
	}
	n := len(g)
	if gray > 1 {
		return g[n-1].Col, false
	}

	// bisect for the smallest idx with g[idx].Pos >= gray
	idx := 0
	if n > 1 {
		top := n - 1
		for idx != top {
			mid := (idx + top) / 2
			if g[mid].Pos < gray {
				idx = mid + 1
			} else {
				top = mid
			}
		}
	}

	hi := g[idx]
	if gray == hi.Pos || idx == 0 {
		return hi.Col, true
	}
	lo := g[idx-1]
	f := (gray - lo.Pos) / (hi.Pos - lo.Pos)
	return RGB{
		R: lo.Col.R + f*(hi.Col.R-lo.Col.R),
		G: lo.Col.G + f*(hi.Col.G-lo.Col.G),
		B: lo.Col.B + f*(hi.Col.B-lo.Col.B),
	}, true
}

// Clone returns an independent copy of g
func (g Gradient) Clone() Gradient {
	if g == nil {
		return nil
	}
	out := make(Gradient, len(g))
	copy(out, g)
	return out
}

// Equal reports whether both gradients hold exactly the same points
func (g Gradient) Equal(o Gradient) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// SmallestInterval returns the smallest positive gap between consecutive
// positions, or 1 when there is none
func (g Gradient) SmallestInterval() float64 {
	smallest := 1.0
	for i := 1; i < len(g); i++ {
		d := g[i].Pos - g[i-1].Pos
		if d > 0 && d < smallest {
			smallest = d
		}
	}
	return smallest
}

// Normalize checks the ordering of points and rescales their positions so
// that the first lands on 0 and the last on 1.
func Normalize(points []GradientPoint) (Gradient, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("palette gradient needs at least 2 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Pos < points[i-1].Pos {
			return nil, fmt.Errorf("point %d at %g: %w", i, points[i].Pos, ErrUnsortedGradient)
		}
	}
	lo := points[0].Pos
	hi := points[len(points)-1].Pos
	if hi == lo {
		return nil, fmt.Errorf("palette gradient has zero width at %g", lo)
	}

	g := make(Gradient, len(points))
	for i, p := range points {
		g[i] = GradientPoint{Pos: (p.Pos - lo) / (hi - lo), Col: p.Col.Clamp()}
	}
	g[0].Pos = 0
	g[len(g)-1].Pos = 1
	return g, nil
}

// DefaultGradient returns the built-in gradient used by a bare
// "set palette defined"
func DefaultGradient() Gradient {
	return Gradient{
		{0, RGB{0.05, 0.05, 0.2}},
		{0.1, RGB{0, 0, 1}},
		{0.25, RGB{0.7, 0.85, 0.9}},
		{0.4, RGB{0, 0.75, 0}},
		{0.5, RGB{1, 1, 0}},
		{0.7, RGB{1, 0, 0}},
		{0.9, RGB{0.6, 0.6, 0.6}},
		{1, RGB{0.95, 0.95, 0.95}},
	}
}

// MarshalText encodes p as "pos r g b"
func (p GradientPoint) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes "pos r g b" or "pos #rrggbb"
func (p *GradientPoint) UnmarshalText(text []byte) error {
	pt, err := parsePoint(string(text))
	if err != nil {
		return err
	}
	*p = pt
	return nil
}

// String formats p as "pos r g b"
func (p GradientPoint) String() string {
	return fmt.Sprintf("%.4g %.4g %.4g %.4g", p.Pos, p.Col.R, p.Col.G, p.Col.B)
}

// String formats g as comma-separated "pos r g b" points
func (g Gradient) String() string {
	parts := make([]string, len(g))
	for i, p := range g {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// ParseGradient parses comma-separated points in the form produced by
// Gradient.String. A point may give its color as #rrggbb instead of three
// channel values. Positions are not rescaled; see Normalize.
func ParseGradient(s string) (Gradient, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	var g Gradient
	for i, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := parsePoint(part)
		if err != nil {
			return nil, fmt.Errorf("gradient point %d: %w", i, err)
		}
		g = append(g, p)
	}
	if len(g) == 0 {
		return nil, errors.New("empty gradient")
	}
	return g, nil
}

func parsePoint(s string) (GradientPoint, error) {
	fields := strings.Fields(s)
	var p GradientPoint
	switch len(fields) {
	case 2:
		pos, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return p, err
		}
		c, err := colorful.Hex(fields[1])
		if err != nil {
			return p, fmt.Errorf("color %q: %w", fields[1], err)
		}
		return GradientPoint{Pos: pos, Col: RGB{R: c.R, G: c.G, B: c.B}}, nil
	case 4:
		var v [4]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return p, err
			}
			v[i] = x
		}
		return GradientPoint{Pos: v[0], Col: RGB{R: v[1], G: v[2], B: v[3]}}, nil
	}
	return p, fmt.Errorf("expected \"pos r g b\" or \"pos #rrggbb\", got %q", strings.TrimSpace(s))
}
