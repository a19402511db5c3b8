package render

import "math"

// builtinDashes are the dash patterns for dashtypes 1..4, in units of
// the line width
var builtinDashes = [][]float64{
	{5, 8},
	{1, 4},
	{8, 4, 2, 4},
	{9, 4, 1, 4, 1, 4},
}

// dashPolyline cuts a polyline into the visible pieces of a dash
// pattern. The pattern alternates on and off lengths starting with on.
// An empty pattern returns the polyline whole.
func dashPolyline(pts []Pt, pattern []float64) [][]Pt {
	total := 0.0
	for _, p := range pattern {
		total += p
	}
	if total <= 0 || len(pts) < 2 {
		return [][]Pt{pts}
	}

	var out [][]Pt
	idx := 0
	left := pattern[0]
	on := true
	cur := []Pt{pts[0]}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for seg-pos > left {
			pos += left
			t := pos / seg
			p := Pt{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
			if on {
				out = append(out, append(cur, p))
				cur = nil
			} else {
				cur = []Pt{p}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			left = pattern[idx]
		}
		left -= seg - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}
