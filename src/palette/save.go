package palette

import (
	"bufio"
	"fmt"
	"io"
)

// WriteSettings writes c as the "set palette" commands that recreate it
func (c *Config) WriteSettings(w io.Writer) error {
	bw := bufio.NewWriter(w)

	sign := "positive"
	if !c.Positive {
		sign = "negative"
	}
	allcf := "nops_allcF"
	if c.PSAllCF {
		allcf = "ps_allcF"
	}
	fmt.Fprintf(bw, "set palette %s %s maxcolors %d ", sign, allcf, c.UseMaxColors)
	fmt.Fprintf(bw, "gamma %g ", c.Gamma)

	if c.ColorMode == ModeGray {
		bw.WriteString("gray\n")
		return bw.Flush()
	}

	fmt.Fprintf(bw, "color model %s \nset palette ", c.Model)
	switch c.ColorMode {
	case ModeRGB:
		fmt.Fprintf(bw, "rgbformulae %d, %d, %d\n", c.FormulaR, c.FormulaG, c.FormulaB)
	case ModeGradient:
		bw.WriteString("defined (")
		for i, p := range c.Gradient {
			fmt.Fprintf(bw, " %s", p)
			if i < len(c.Gradient)-1 {
				bw.WriteString(",")
				if i%4 == 2 {
					bw.WriteString("\\\n    ")
				}
			}
		}
		bw.WriteString(" )\n")
	case ModeFunctions:
		fmt.Fprintf(bw, "functions %s, %s, %s\n",
			c.Funcs[0].Definition, c.Funcs[1].Definition, c.Funcs[2].Definition)
	case ModeCubehelix:
		fmt.Fprintf(bw, "cubehelix start %.2g cycles %.2g saturation %.2g\n",
			c.CubehelixStart, c.CubehelixCycles, c.CubehelixSaturation)
	default:
		logger().Error("palette", "Unknown color mode '%c'", byte(c.ColorMode))
	}
	return bw.Flush()
}
