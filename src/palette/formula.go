package palette

import (
	"fmt"
	"io"
	"math"
)

// FormulaCount is the number of built-in rgbformulae
const FormulaCount = 37

const deg2rad = math.Pi / 180

// Formula is one entry of the rgbformulae table. Eval receives x in [0,1]
// and returns the raw channel value; early reports whether that value is
// final and skips the trailing clamp.
type Formula struct {
	Index       int
	Eval        func(x float64) (v float64, early bool)
	PSExpr      string
	Description string
}

func value(v float64) (float64, bool) { return v, false }
func final(v float64) (float64, bool) { return v, true }

var formulae = [FormulaCount]Formula{
	{0, func(x float64) (float64, bool) { return final(0) }, "pop 0", "0"},
	{1, func(x float64) (float64, bool) { return final(0.5) }, "pop 0.5", "0.5"},
	{2, func(x float64) (float64, bool) { return final(1) }, "pop 1", "1"},
	{3, func(x float64) (float64, bool) { return value(x) }, " ", "x"},
	{4, func(x float64) (float64, bool) { return value(x * x) }, "dup mul", "x^2"},
	{5, func(x float64) (float64, bool) { return value(x * x * x) }, "dup dup mul mul", "x^3"},
	{6, func(x float64) (float64, bool) { return value(x * x * x * x) }, "dup mul dup mul", "x^4"},
	{7, func(x float64) (float64, bool) { return value(math.Sqrt(x)) }, "sqrt", "sqrt(x)"},
	{8, func(x float64) (float64, bool) { return value(math.Sqrt(math.Sqrt(x))) }, "sqrt sqrt", "sqrt(sqrt(x))"},
	{9, func(x float64) (float64, bool) { return value(math.Sin(90 * x * deg2rad)) }, "90 mul sin", "sin(90x)"},
	{10, func(x float64) (float64, bool) { return value(math.Cos(90 * x * deg2rad)) }, "90 mul cos", "cos(90x)"},
	{11, func(x float64) (float64, bool) { return value(math.Abs(x - 0.5)) }, "0.5 sub abs", "|x-0.5|"},
	{12, func(x float64) (float64, bool) { return value((2*x - 1) * (2*x - 1)) }, "2 mul 1 sub dup mul", "(2x-1)^2"},
	{13, func(x float64) (float64, bool) { return value(math.Sin(180 * x * deg2rad)) }, "180 mul sin", "sin(180x)"},
	{14, func(x float64) (float64, bool) { return value(math.Abs(math.Cos(180 * x * deg2rad))) }, "180 mul cos abs", "|cos(180x)|"},
	{15, func(x float64) (float64, bool) { return value(math.Sin(360 * x * deg2rad)) }, "360 mul sin", "sin(360x)"},
	{16, func(x float64) (float64, bool) { return value(math.Cos(360 * x * deg2rad)) }, "360 mul cos", "cos(360x)"},
	{17, func(x float64) (float64, bool) { return value(math.Abs(math.Sin(360 * x * deg2rad))) }, "360 mul sin abs", "|sin(360x)|"},
	{18, func(x float64) (float64, bool) { return value(math.Abs(math.Cos(360 * x * deg2rad))) }, "360 mul cos abs", "|cos(360x)|"},
	{19, func(x float64) (float64, bool) { return value(math.Abs(math.Sin(720 * x * deg2rad))) }, "720 mul sin abs", "|sin(720x)|"},
	{20, func(x float64) (float64, bool) { return value(math.Abs(math.Cos(720 * x * deg2rad))) }, "720 mul cos abs", "|cos(720x)|"},
	{21, func(x float64) (float64, bool) { return value(3 * x) }, "3 mul", "3x"},
	{22, func(x float64) (float64, bool) { return value(3*x - 1) }, "3 mul 1 sub", "3x-1"},
	{23, func(x float64) (float64, bool) { return value(3*x - 2) }, "3 mul 2 sub", "3x-2"},
	{24, func(x float64) (float64, bool) { return value(math.Abs(3*x - 1)) }, "3 mul 1 sub abs", "|3x-1|"},
	{25, func(x float64) (float64, bool) { return value(math.Abs(3*x - 2)) }, "3 mul 2 sub abs", "|3x-2|"},
	{26, func(x float64) (float64, bool) { return value(1.5*x - 0.5) }, "1.5 mul .5 sub", "(3x-1)/2"},
	{27, func(x float64) (float64, bool) { return value(1.5*x - 1) }, "1.5 mul 1 sub", "(3x-2)/2"},
	{28, func(x float64) (float64, bool) { return value(math.Abs(1.5*x - 0.5)) }, "1.5 mul .5 sub abs", "|(3x-1)/2|"},
	{29, func(x float64) (float64, bool) { return value(math.Abs(1.5*x - 1)) }, "1.5 mul 1 sub abs", "|(3x-2)/2|"},
	{30, func(x float64) (float64, bool) {
		if x <= 0.25 {
			return final(0)
		}
		if x >= 0.57 {
			return final(1)
		}
		return value(x/0.32 - 0.78125)
	}, "0.32 div 0.78125 sub", "x/0.32-0.78125"},
	{31, func(x float64) (float64, bool) {
		if x <= 0.42 {
			return final(0)
		}
		if x >= 0.92 {
			return final(1)
		}
		return value(2*x - 0.84)
	}, "2 mul 0.84 sub", "2*x-0.84"},
	{32, func(x float64) (float64, bool) {
		switch {
		case x <= 0.42:
			return value(4 * x)
		case x <= 0.92:
			return value(-2*x + 1.84)
		default:
			return value(x/0.08 - 11.5)
		}
	}, "dup 0.42 le {4 mul} {dup 0.92 le {-2 mul 1.84 add} {0.08 div 11.5 sub} ifelse} ifelse", "4x;1;-2x+1.84;x/0.08-11.5"},
	{33, func(x float64) (float64, bool) { return value(math.Abs(2*x - 0.5)) }, "2 mul 0.5 sub abs", "|2*x - 0.5|"},
	{34, func(x float64) (float64, bool) { return value(2 * x) }, "2 mul", "2*x"},
	{35, func(x float64) (float64, bool) { return value(2*x - 0.5) }, "2 mul 0.5 sub", "2*x - 0.5"},
	{36, func(x float64) (float64, bool) { return value(2*x - 1) }, "2 mul 1 sub", "2*x - 1"},
}

// Formulae returns the rgbformulae table
func Formulae() []Formula {
	return formulae[:]
}

// ValidFormula reports whether i (or its negation) names a table entry
func ValidFormula(i int) bool {
	if i < 0 {
		i = -i
	}
	return i < FormulaCount
}

// EvaluateFormula maps x through rgbformula number formula. A negative
// formula evaluates abs(formula) at 1-x. The result is clamped into [0,1].
func EvaluateFormula(formula int, x float64) float64 {
	if formula < 0 {
		x = 1 - x
		formula = -formula
	}
	if formula >= FormulaCount {
		logger().Warn("palette", "invalid palette rgbformula %d", formula)
		return 0
	}
	v, early := formulae[formula].Eval(x)
	if early {
		return v
	}
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}

// WritePostScriptFormulae writes the /cFn procedure definitions used by
// PostScript output. With all set every formula is emitted, otherwise only
// the three in use.
func WritePostScriptFormulae(w io.Writer, all bool, r, g, b int) error {
	emit := func(i int) error {
		f := formulae[i]
		_, err := fmt.Fprintf(w, "/cF%d {%s} bind def\t%% %s\n", f.Index, f.PSExpr, f.Description)
		return err
	}
	if all {
		for i := range formulae {
			if err := emit(i); err != nil {
				return err
			}
		}
		return nil
	}
	seen := make(map[int]bool, 3)
	for _, i := range []int{r, g, b} {
		if i < 0 {
			i = -i
		}
		if i >= FormulaCount || seen[i] {
			continue
		}
		seen[i] = true
		if err := emit(i); err != nil {
			return err
		}
	}
	return nil
}
