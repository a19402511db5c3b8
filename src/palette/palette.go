package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"plotterm/src/logging"
)

// ColorMode selects how gray values are mapped to color
type ColorMode byte

const (
	ModeNone      ColorMode = 0
	ModeGray      ColorMode = 'g'
	ModeRGB       ColorMode = 'r'
	ModeFunctions ColorMode = 'f'
	ModeGradient  ColorMode = 'd'
	ModeCubehelix ColorMode = 'c'
)

// String returns a readable name for the mode
func (m ColorMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeGray:
		return "gray"
	case ModeRGB:
		return "rgbformulae"
	case ModeFunctions:
		return "functions"
	case ModeGradient:
		return "defined"
	case ModeCubehelix:
		return "cubehelix"
	}
	return string(rune(m))
}

// ParseColorMode parses a mode name as returned by ColorMode.String
func ParseColorMode(s string) (ColorMode, bool) {
	for _, m := range []ColorMode{ModeNone, ModeGray, ModeRGB, ModeFunctions, ModeGradient, ModeCubehelix} {
		if strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return 0, false
}

// ErrUndefinedValue is returned when a palette function cannot be
// evaluated at the requested gray value
var ErrUndefinedValue = errors.New("undefined value during function evaluation")

// Func is a user-defined palette function. Definition is the text the
// user typed; it is what palettes compare on.
type Func struct {
	Definition string
}

// Evaluator computes a user-defined palette function at x. Returning an
// error aborts the color lookup.
type Evaluator interface {
	Evaluate(f Func, x float64) (float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface
type EvaluatorFunc func(f Func, x float64) (float64, error)

// Evaluate calls fn(f, x)
func (fn EvaluatorFunc) Evaluate(f Func, x float64) (float64, error) {
	return fn(f, x)
}

// Config is the active palette state
type Config struct {
	ColorMode ColorMode
	Model     ColorModel
	Positive  bool
	Gamma     float64

	FormulaR, FormulaG, FormulaB int

	// UseMaxColors limits sampling to N discrete levels; 0 means unlimited
	UseMaxColors int
	// Colors is the number of palette entries the terminal allocated
	Colors int
	// Table holds Colors evenly spaced samples for terminals that keep a
	// fixed color table
	Table []RGB

	Gradient                 Gradient
	SmallestGradientInterval float64

	Funcs     [3]Func
	Evaluator Evaluator

	CubehelixStart      float64
	CubehelixCycles     float64
	CubehelixSaturation float64

	// PSAllCF makes PostScript output define every rgbformula
	PSAllCF bool
}

func logger() *logging.Logger {
	return logging.Default()
}

// Default returns the startup palette
func Default() *Config {
	g := DefaultGradient()
	return &Config{
		ColorMode:                ModeRGB,
		Model:                    ModelRGB,
		Positive:                 true,
		Gamma:                    1.5,
		FormulaR:                 7,
		FormulaG:                 5,
		FormulaB:                 15,
		Gradient:                 g,
		SmallestGradientInterval: g.SmallestInterval(),
		CubehelixStart:           0.5,
		CubehelixCycles:          -1.5,
		CubehelixSaturation:      1,
	}
}

// Clone returns a deep copy of c
func (c *Config) Clone() *Config {
	out := *c
	out.Gradient = c.Gradient.Clone()
	if c.Table != nil {
		out.Table = append([]RGB(nil), c.Table...)
	}
	return &out
}

// SetGradient switches to gradient mode with the given control points,
// rescaled into [0,1]
func (c *Config) SetGradient(points []GradientPoint) error {
	g, err := Normalize(points)
	if err != nil {
		return err
	}
	c.ColorMode = ModeGradient
	c.Gradient = g
	c.SmallestGradientInterval = g.SmallestInterval()
	return nil
}

// SetRGBFormulae switches to rgbformulae mode
func (c *Config) SetRGBFormulae(r, g, b int) error {
	for _, i := range []int{r, g, b} {
		if !ValidFormula(i) {
			return fmt.Errorf("color formula out of range (use `show palette rgbformulae' to display the range): %d", i)
		}
	}
	c.ColorMode = ModeRGB
	c.FormulaR, c.FormulaG, c.FormulaB = r, g, b
	return nil
}

// SetFunctions switches to functions mode
func (c *Config) SetFunctions(a, b, d string) {
	c.ColorMode = ModeFunctions
	c.Funcs = [3]Func{{a}, {b}, {d}}
}

// SetCubehelix switches to cubehelix mode
func (c *Config) SetCubehelix(start, cycles, saturation float64) {
	c.ColorMode = ModeCubehelix
	c.CubehelixStart = start
	c.CubehelixCycles = cycles
	c.CubehelixSaturation = saturation
}

// Components maps gray to the raw color triple of the current mode,
// before any color model conversion. Gray is clamped into [0,1].
func (c *Config) Components(gray float64) (RGB, error) {
	gray = constrain(gray)

	switch c.ColorMode {
	case ModeGray:
		v := math.Pow(gray, 1/c.Gamma)
		return RGB{v, v, v}, nil
	case ModeRGB:
		return RGB{
			R: EvaluateFormula(c.FormulaR, gray),
			G: EvaluateFormula(c.FormulaG, gray),
			B: EvaluateFormula(c.FormulaB, gray),
		}, nil
	case ModeGradient:
		col, _ := c.Gradient.Interpolate(gray)
		return col, nil
	case ModeFunctions:
		return c.functions(gray)
	case ModeCubehelix:
		return c.cubehelix(gray), nil
	}
	logger().Error("palette", "Unknown colorMode '%c'", byte(c.ColorMode))
	return RGB{}, nil
}

var ordinals = [3]string{"first", "second", "third"}

func (c *Config) functions(gray float64) (RGB, error) {
	var v [3]float64
	for i, f := range c.Funcs {
		if c.Evaluator == nil {
			return RGB{}, fmt.Errorf("%s color: %w", ordinals[i], ErrUndefinedValue)
		}
		x, err := c.Evaluator.Evaluate(f, gray)
		if err != nil {
			if errors.Is(err, ErrUndefinedValue) {
				return RGB{}, fmt.Errorf("%s color: %w", ordinals[i], err)
			}
			return RGB{}, fmt.Errorf("%s color: %w: %w", ordinals[i], ErrUndefinedValue, err)
		}
		if math.IsNaN(x) {
			return RGB{}, fmt.Errorf("%s color: %w", ordinals[i], ErrUndefinedValue)
		}
		v[i] = constrain(x)
	}
	return RGB{v[0], v[1], v[2]}, nil
}

func (c *Config) cubehelix(gray float64) RGB {
	phi := 2 * math.Pi * (c.CubehelixStart/3 + gray*c.CubehelixCycles)
	if c.Gamma != 1 {
		gray = math.Pow(gray, 1/c.Gamma)
	}
	a := c.CubehelixSaturation * gray * (1 - gray) / 2
	cos, sin := math.Cos(phi), math.Sin(phi)
	return RGB{
		R: gray + a*(-0.14861*cos+1.78277*sin),
		G: gray + a*(-0.29227*cos-0.90649*sin),
		B: gray + a*(1.97294*cos),
	}.Clamp()
}

// RGB1FromGray maps gray in [0,1] to an RGB color under the current mode
// and color model
func (c *Config) RGB1FromGray(gray float64) (RGB, error) {
	col, err := c.Components(gray)
	if err != nil {
		return RGB{}, err
	}
	if c.ColorMode == ModeGray {
		return col, nil
	}
	return c.Model.ToRGB(col), nil
}

// QuantizeGray limits gray to UseMaxColors discrete levels. For gradients
// with segments narrower than the sampling interval, a gray value inside
// such a segment maps to the segment midpoint so the band is not skipped.
// The converse case, where the truncated value lands in a narrow segment
// the true value is outside of, is not handled.
func (c *Config) QuantizeGray(gray float64) float64 {
	n := c.UseMaxColors
	if n == 0 {
		return gray
	}
	if n == 1 {
		return 0
	}
	qgray := math.Floor(gray*float64(n)) / float64(n-1)

	if c.ColorMode != ModeGradient {
		return qgray
	}

	g := c.Gradient
	small := 1 / float64(n)
	switch {
	case len(g) <= 2 && qgray == 0:
	case c.SmallestGradientInterval > small:
	default:
		for j := 0; j+1 < len(g); j++ {
			if gray >= g[j].Pos && gray < g[j+1].Pos {
				if g[j+1].Pos-g[j].Pos < small {
					qgray = (g[j].Pos + g[j+1].Pos) / 2
				}
				break
			}
		}
	}
	return qgray
}

// Sample fills Table with n colors spread evenly over the gray range
func (c *Config) Sample(n int) error {
	c.Colors = n
	c.Table = make([]RGB, n)
	for i := range c.Table {
		gray := 0.0
		if n > 1 {
			gray = float64(i) / float64(n-1)
		}
		col, err := c.RGB1FromGray(gray)
		if err != nil {
			return err
		}
		c.Table[i] = col
	}
	return nil
}

// RGB1MaxColorsFromGray quantizes gray when UseMaxColors is set, then maps
// it to RGB
func (c *Config) RGB1MaxColorsFromGray(gray float64) (RGB, error) {
	if c.UseMaxColors != 0 {
		gray = c.QuantizeGray(gray)
	}
	return c.RGB1FromGray(gray)
}

// RGB255MaxColorsFromGray is RGB1MaxColorsFromGray scaled to 8 bits
func (c *Config) RGB255MaxColorsFromGray(gray float64) (RGB255, error) {
	col, err := c.RGB1MaxColorsFromGray(gray)
	if err != nil {
		return RGB255{}, err
	}
	return col.To255(), nil
}

// Differ reports whether two palettes would render differently. The test
// is structural: functions compare by definition text, and cubehelix
// palettes always differ.
func Differ(p1, p2 *Config) bool {
	if p1 == nil || p2 == nil {
		return p1 != p2
	}
	if p1.ColorMode != p2.ColorMode ||
		p1.Positive != p2.Positive ||
		p1.Model != p2.Model ||
		p1.UseMaxColors != p2.UseMaxColors {
		return true
	}

	switch p1.ColorMode {
	case ModeNone:
		return false
	case ModeGray:
		return math.Abs(p1.Gamma-p2.Gamma) > 1e-3
	case ModeRGB:
		return p1.FormulaR != p2.FormulaR ||
			p1.FormulaG != p2.FormulaG ||
			p1.FormulaB != p2.FormulaB
	case ModeFunctions:
		return p1.Funcs != p2.Funcs
	case ModeGradient:
		return !p1.Gradient.Equal(p2.Gradient)
	case ModeCubehelix:
		return true
	}
	return false
}
