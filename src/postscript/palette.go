package postscript

import (
	"bufio"
	"fmt"
	"io"

	"plotterm/src/palette"
)

// WritePalette writes the procedures mapping a gray value to a color:
// PaletteFunc (gray -- r g b) and g (gray --), which also sets it.
// rgbformulae in the RGB model are written as formulae; every other
// palette is approximated by a gradient in RGB.
func WritePalette(w io.Writer, p *palette.Config) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%% palette: %s, model %s\n", p.ColorMode, p.Model)

	switch {
	case p.ColorMode == palette.ModeNone:
		bw.WriteString("/PaletteFunc {dup dup} bind def\n")

	case p.ColorMode == palette.ModeGray:
		fmt.Fprintf(bw, "/Gamma %g def\n", p.Gamma)
		bw.WriteString("/PaletteFunc {1 Gamma div exp dup dup} bind def\n")

	case p.ColorMode == palette.ModeRGB && p.Model == palette.ModelRGB:
		if err := palette.WritePostScriptFormulae(bw, p.PSAllCF, p.FormulaR, p.FormulaG, p.FormulaB); err != nil {
			return err
		}
		fmt.Fprintf(bw, "/PaletteFunc {dup %s Constrain exch dup %s Constrain exch %s Constrain} bind def\n",
			formulaCall(p.FormulaR), formulaCall(p.FormulaG), formulaCall(p.FormulaB))

	default:
		g, err := rgbGradient(p)
		if err != nil {
			return fmt.Errorf("export palette: %w", err)
		}
		bw.WriteString("/pm3dPalette [\n")
		for _, pt := range g {
			fmt.Fprintf(bw, " %.4g %.4f %.4f %.4f\n", pt.Pos, pt.Col.R, pt.Col.G, pt.Col.B)
		}
		bw.WriteString("] def\n/PaletteFunc {Interpolate} bind def\n")
	}

	bw.WriteString("/g {PaletteFunc C} bind def\n")
	return bw.Flush()
}

// formulaCall calls cFn, flipping the argument for a negative formula
func formulaCall(f int) string {
	if f < 0 {
		return fmt.Sprintf("1 exch sub cF%d", -f)
	}
	return fmt.Sprintf("cF%d", f)
}

// rgbGradient returns p as control points already converted to RGB
func rgbGradient(p *palette.Config) (palette.Gradient, error) {
	var g palette.Gradient
	if p.ColorMode == palette.ModeGradient {
		g = p.Gradient.Clone()
	} else {
		var err error
		if g, err = palette.ApproximatePalette(p, 0, 0); err != nil {
			return nil, err
		}
	}
	for i := range g {
		g[i].Col = p.Model.ToRGB(g[i].Col).Clamp()
	}
	return g, nil
}
