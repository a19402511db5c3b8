package cellterm

import (
	"slices"

	"plotterm/src/term"
)

// line calls plot for every point of the segment from (x0,y0) to (x1,y1)
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// fillPolygon calls plot for every grid point inside the polygon, using
// the even-odd rule sampled at point centres
func fillPolygon(points []term.Point, plot func(x, y int)) {
	if len(points) < 3 {
		return
	}
	lo, hi := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		lo, hi = min(lo, p.Y), max(hi, p.Y)
	}
	var xs []float64
	for y := lo; y <= hi; y++ {
		cy := float64(y)
		xs = xs[:0]
		for i, a := range points {
			b := points[(i+1)%len(points)]
			ay, by := float64(a.Y), float64(b.Y)
			if (ay <= cy) == (by <= cy) {
				continue
			}
			t := (cy - ay) / (by - ay)
			xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := ceil(xs[i]); float64(x) <= xs[i+1]; x++ {
				plot(x, y)
			}
		}
	}
}

// fillBox calls plot for every point of a w x h box
func fillBox(x, y, w, h int, plot func(x, y int)) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			plot(i, j)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func ceil(v float64) int {
	i := int(v)
	if float64(i) < v {
		i++
	}
	return i
}
