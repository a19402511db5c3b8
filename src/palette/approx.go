package palette

import "math"

const (
	defaultSamples   = 2000
	defaultDeviation = 0.003
)

// ApproximatePalette reduces c to a gradient that reproduces the palette
// within allowedDeviation per channel by linear interpolation. The palette
// is sampled at samples+1 evenly spaced gray values. Non-positive samples
// and allowedDeviation select 2000 and 0.003. Colors are raw components,
// so the color model is still to be applied by the consumer.
//
// The returned gradient belongs to the caller.
func ApproximatePalette(c *Config, samples int, allowedDeviation float64) (Gradient, error) {
	if samples <= 0 {
		samples = defaultSamples
	}
	if allowedDeviation <= 0 {
		allowedDeviation = defaultDeviation
	}

	sample := func(i int) (RGB, error) {
		return c.Components(float64(i) / float64(samples))
	}

	first, err := sample(0)
	if err != nil {
		return nil, err
	}
	gradient := make(Gradient, 0, 50)
	gradient = append(gradient, GradientPoint{Pos: 0, Col: first})

	// run holds the samples from the current anchor onwards
	run := make([]RGB, 0, 100)
	next, err := sample(1)
	if err != nil {
		return nil, err
	}
	run = append(run, first, next)

	for anchor := 0; anchor < samples; {
		j := 2
		for ; anchor+j <= samples; j++ {
			col, err := sample(anchor + j)
			if err != nil {
				return nil, err
			}
			run = append(run, col)

			if isExtremum(run[j-2], run[j-1], run[j]) {
				break
			}
			if maxDeviation(run, j, allowedDeviation) > allowedDeviation {
				break
			}
		}
		if anchor+j > samples {
			// the run reached gray=1 without breaking
			break
		}

		end := anchor + j - 1
		gradient = append(gradient, GradientPoint{
			Pos: float64(end) / float64(samples),
			Col: run[j-1],
		})

		run = append(run[:0], run[j-1], run[j])
		anchor = end
	}

	last, err := sample(samples)
	if err != nil {
		return nil, err
	}
	gradient = append(gradient, GradientPoint{Pos: 1, Col: last})
	return gradient, nil
}

// maxDeviation returns the largest channel distance between colors[1:j]
// and the straight line from colors[0] to colors[j]. It stops early once
// limit is reached.
func maxDeviation(colors []RGB, j int, limit float64) float64 {
	c0 := colors[0]
	n := float64(j)
	sr := (colors[j].R - c0.R) / n
	sg := (colors[j].G - c0.G) / n
	sb := (colors[j].B - c0.B) / n

	dev := 0.0
	for i := 1; i < j; i++ {
		dx := float64(i)
		dev = math.Max(dev, math.Abs(sr*dx+c0.R-colors[i].R))
		dev = math.Max(dev, math.Abs(sg*dx+c0.G-colors[i].G))
		dev = math.Max(dev, math.Abs(sb*dx+c0.B-colors[i].B))
		if dev >= limit {
			break
		}
	}
	return dev
}

// isExtremum reports whether any channel of mid is strictly above, or
// strictly below, both neighbors
func isExtremum(left, mid, right RGB) bool {
	peak := func(l, m, r float64) bool {
		return (l < m && m > r) || (l > m && m < r)
	}
	return peak(left.R, mid.R, right.R) ||
		peak(left.G, mid.G, right.G) ||
		peak(left.B, mid.B, right.B)
}
