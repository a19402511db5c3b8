package postscript

import (
	"fmt"
	"io"
	"strings"
)

// psDashes are the dash patterns of linetypes 1.. when dashed lines are
// on, in units of dl
var psDashes = [][]float64{
	{4, 2},
	{2, 3},
	{1, 1.5},
	{6, 2, 1, 2},
	{3, 2, 1, 2},
	{3, 2, 1, 2, 1, 2},
	{8, 2},
	{2, 2, 2, 4},
}

// lineColors are the rgb triples of LC0..LC8
var lineColors = []string{
	"1 0 0",
	"0 1 0",
	"0 0 1",
	"1 0 1",
	"0 1 1",
	"0.5 0.5 0",
	"0 0 0",
	"1 0.3 0",
	"0.5 0.5 0.5",
}

// procedures common to every document. Text runs for MFshow are
// [(text) (font) size base show advance overprint].
const procedures = `/M {moveto} bind def
/L {lineto} bind def
/R {rmoveto} bind def
/V {rlineto} bind def
/N {newpath moveto} bind def
/C {setrgbcolor} bind def
/UL {gnulinewidth mul setlinewidth} bind def
/dl {10 mul Dashlength mul} bind def
/DL {Color {setrgbcolor} {pop pop pop 0 setgray} ifelse} bind def
/Constrain {dup 0 lt {pop 0} if dup 1 gt {pop 1} if} bind def
/Rec {newpath 4 2 roll M 1 index 0 rlineto 0 exch rlineto neg 0 rlineto closepath} bind def
/Density {/Fillden exch def currentrgbcolor
  /ColB exch def /ColG exch def /ColR exch def
  /ColR ColR Fillden mul Fillden sub 1 add def
  /ColG ColG Fillden mul Fillden sub 1 add def
  /ColB ColB Fillden mul Fillden sub 1 add def
  ColR ColG ColB setrgbcolor} def
/Hatch {gsave clip newpath rotate
  -20000 80 20000 {dup -20000 M 20000 L} for
  stroke grestore} bind def
/Lshow {currentpoint stroke M 0 vshift R show} def
/Rshow {currentpoint stroke M dup stringwidth pop neg vshift R show} def
/Cshow {currentpoint stroke M dup stringwidth pop -2 div vshift R show} def
/RunFont {dup 1 get findfont exch 2 get scalefont setfont} bind def
/MFrun {currentpoint 3 -1 roll
  dup 3 get 0 exch R
  dup 4 get {dup 0 get show} if
  dup 5 get {0 get stringwidth pop 3 -1 roll add exch M} {pop M} ifelse} bind def
/MFwidth {0 exch {dup 6 get dup 3 ge exch 2 eq or {pop}
  {dup 5 get {dup RunFont 0 get stringwidth pop add} {pop} ifelse} ifelse} forall} bind def
/MFshow {{dup 6 get
  dup 3 eq {pop pop currentpoint /MFy exch def /MFx exch def} {
  dup 4 eq {pop pop MFx MFy M} {
  dup 1 eq {pop dup RunFont currentpoint /MUy exch def /MUx exch def
    dup 0 get stringwidth pop /MUw exch def MFrun} {
  2 eq {dup RunFont currentpoint 3 -1 roll
    MUx MUw 2 index 0 get stringwidth pop sub 2 div add MUy M
    dup 3 get 0 exch R dup 4 get {0 get show} {pop} ifelse M}
    {dup RunFont MFrun} ifelse} ifelse} ifelse} ifelse} forall} bind def
/MLshow {currentpoint stroke M 0 vshift R MFshow} def
/MRshow {currentpoint stroke M dup MFwidth neg vshift R MFshow} def
/MCshow {currentpoint stroke M dup MFwidth -2 div vshift R MFshow} def
/Interpolate {/gv exch def /ix 0 def
  {ix 8 add pm3dPalette length ge {exit} if
   pm3dPalette ix 4 add get gv ge {exit} if
   /ix ix 4 add def} loop
  /p0 pm3dPalette ix get def
  pm3dPalette length ix 4 add le {
    pm3dPalette ix 1 add get pm3dPalette ix 2 add get pm3dPalette ix 3 add get
  }{
    /p1 pm3dPalette ix 4 add get def
    /t p1 p0 sub dup 0 eq {pop 0} {gv p0 sub exch div} ifelse def
    0 1 2 {/k exch def
      pm3dPalette ix 1 add k add get dup
      pm3dPalette ix 5 add k add get exch sub t mul add} for
  } ifelse} bind def
`

// writeProlog writes the document prolog: settings first, then the
// linetype definitions that depend on them, then the procedures
func (d *Driver) writeProlog(w io.Writer) error {
	var b strings.Builder
	b.WriteString("%%BeginProlog\n/gnudict 256 dict def\ngnudict begin\n")
	fmt.Fprintf(&b, "/Color %t def\n/Solid %t def\n", d.color, d.solid)
	fmt.Fprintf(&b, "/gnulinewidth %.3f def\n", gnuLineWidth*d.lwScale)
	fmt.Fprintf(&b, "/Dashlength %.3f def\n", d.dlScale)
	fmt.Fprintf(&b, "/vshift %d def\n", d.vshift(d.fontSize))

	bg := "1 1 1"
	if d.background != nil {
		bg = fmt.Sprintf("%.3f %.3f %.3f", d.background.R, d.background.G, d.background.B)
	}
	fmt.Fprintf(&b, "/LCw {%s} def\n/LCb {0 0 0} def\n/LCa {0 0 0} def\n", bg)
	for i, c := range lineColors {
		fmt.Fprintf(&b, "/LC%d {%s} def\n", i, c)
	}
	b.WriteString("/LTw {[] 0 setdash LCw DL} def\n")
	b.WriteString("/LTb {[] 0 setdash LCb DL} def\n")
	b.WriteString("/LTa {[1 dl 2 dl] 0 setdash LCa DL} def\n")
	for i := range lineColors {
		dash := "[]"
		if !d.solid && i > 0 {
			dash = dashArray(psDashes[(i-1)%len(psDashes)])
		}
		fmt.Fprintf(&b, "/LT%d {%s 0 setdash LC%d DL} def\n", i, dash, i)
	}
	b.WriteString(procedures)
	b.WriteString("end\n%%EndProlog\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// dashArray renders segment lengths as a setdash array in dl units
func dashArray(segments []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g dl", l)
	}
	b.WriteByte(']')
	return b.String()
}
