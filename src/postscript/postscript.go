// Package postscript implements the postscript terminal. Device units
// are tenths of a point; palettes are exported as PostScript procedures
// so gray values are mapped to color by the interpreter.
package postscript

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"plotterm/src/palette"
	"plotterm/src/term"
)

const (
	// psSC is the number of device units per point
	psSC = 10
	// margin is the offset of the plot from the page corner, in points
	margin = 50

	defaultFont     = "Helvetica"
	defaultFontSize = 14.0
	defaultWidth    = 10.0 // inches
	defaultHeight   = 7.0

	gnuLineWidth = 5.0
	// maxPath is the number of vectors after which a path is stroked
	maxPath = 400
	ticSize = 63
)

// Driver writes PostScript to the session output
type Driver struct {
	env *term.Env
	err error

	// options
	eps        bool
	color      bool
	solid      bool
	font       string
	fontSize   float64
	lwScale    float64
	dlScale    float64
	background *colorful.Color

	// document state
	page      int
	fonts     map[string]bool
	pathLen   int
	justify   term.Justify
	angle     int
	curFont   string
	curSize   float64
	paletteOK bool

	// enhanced text runs being collected
	open bool
	cur  run
	runs []run
}

type run struct {
	text      []byte
	font      string
	size      float64
	base      float64
	widthflag bool
	showflag  bool
	overprint int
}

// NewDriver returns a driver with the default options
func NewDriver() *Driver {
	return &Driver{
		color:    true,
		solid:    true,
		font:     defaultFont,
		fontSize: defaultFontSize,
		lwScale:  1,
		dlScale:  1,
		fonts:    make(map[string]bool),
	}
}

// NewEntry returns the postscript terminal
func NewEntry() *term.Entry {
	d := NewDriver()
	e := &term.Entry{
		Name:        "postscript",
		Description: "PostScript graphics, including EPSF embedded files (*.eps)",
		Flags: term.IsPostScript | term.EnhancedText | term.CanMultiplot | term.CanDash |
			term.LineWidth | term.FontScale,
		Driver: d,
	}
	d.setSize(e, defaultWidth, defaultHeight)
	d.setMetrics(e)
	return e
}

func init() {
	term.Register(NewEntry())
}

func (d *Driver) setSize(e *term.Entry, w, h float64) {
	e.XMax = int(w * 72 * psSC)
	e.YMax = int(h * 72 * psSC)
}

func (d *Driver) setMetrics(e *term.Entry) {
	e.VChar = int(d.fontSize*psSC + 0.5)
	e.HChar = int(d.fontSize*psSC*0.6 + 0.5)
	e.VTic = ticSize
	e.HTic = ticSize
}

// vshift is how far text is lowered to centre it on the reference point
func (d *Driver) vshift(size float64) int {
	return -int(size*psSC/3 + 0.5)
}

// printf writes to the output, keeping the first error for Text
func (d *Driver) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.env.Out, format, args...)
}

// stroke draws any open path
func (d *Driver) stroke() {
	if d.pathLen > 0 {
		d.printf("stroke\n")
		d.pathLen = 0
	}
}

func (d *Driver) Init(env *term.Env) error {
	d.env = env
	return nil
}

// Reset writes the document trailer
func (d *Driver) Reset() error {
	if d.page == 0 {
		return nil
	}
	d.printf("%%%%Trailer\n%%%%DocumentFonts: %s\n%%%%Pages: %d\n%%%%EOF\n", d.fontList(), d.page)
	d.page = 0
	d.fonts = make(map[string]bool)
	err := d.err
	d.err = nil
	return err
}

func (d *Driver) fontList() string {
	names := make([]string, 0, len(d.fonts))
	for f := range d.fonts {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

func (d *Driver) header() {
	e := d.env.Entry
	magic := "%!PS-Adobe-2.0"
	if d.eps {
		magic += " EPSF-2.0"
	}
	d.printf("%s\n%%%%Creator: plotterm\n%%%%DocumentFonts: (atend)\n", magic)
	d.printf("%%%%BoundingBox: %d %d %d %d\n", margin, margin,
		margin+int(math.Ceil(float64(e.XMax)/psSC)), margin+int(math.Ceil(float64(e.YMax)/psSC)))
	d.printf("%%%%Pages: (atend)\n%%%%EndComments\n")
	if d.err == nil {
		d.err = d.writeProlog(d.env.Out)
	}
}

// Graphics starts a page, writing the document header before the first
func (d *Driver) Graphics() error {
	if d.page == 0 {
		d.header()
	} else if d.eps {
		d.env.Log.Warn("postscript", "eps output holds a single page; page %d follows", d.page+1)
	}
	d.page++

	d.printf("%%%%Page: %d %d\ngnudict begin\ngsave\n", d.page, d.page)
	d.printf("%d %d translate\n%.3f %.3f scale\n0 setgray\nnewpath\n", margin, margin, 1.0/psSC, 1.0/psSC)
	if d.background != nil {
		e := d.env.Entry
		d.printf("gsave LCw C 0 0 %d %d Rec fill grestore\n", e.XMax, e.YMax)
	}
	d.curFont, d.curSize = "", 0
	d.selectFont(d.font, d.fontSize)
	d.printf("1.000 UL\nLTb\n")

	d.pathLen = 0
	d.justify = term.Left
	d.angle = 0
	d.paletteOK = false
	return d.err
}

// Text ends the page
func (d *Driver) Text() error {
	d.stroke()
	d.printf("stroke\ngrestore\nend\nshowpage\n")
	err := d.err
	d.err = nil
	return err
}

func (d *Driver) Move(x, y int) {
	d.printf("%d %d M\n", x, y)
}

func (d *Driver) Vector(x, y int) {
	d.printf("%d %d L\n", x, y)
	d.pathLen++
	if d.pathLen >= maxPath {
		d.printf("currentpoint stroke M\n")
		d.pathLen = 0
	}
}

func (d *Driver) Linetype(lt int) {
	d.stroke()
	switch {
	case lt == term.LTBackground:
		d.printf("LTw\n")
	case lt == term.LTAxis:
		d.printf("LTa\n")
	case lt == term.LTNoDraw:
		d.printf("LTw\n")
	case lt >= 0:
		d.printf("LT%d\n", lt%len(lineColors))
	default:
		d.printf("LTb\n")
	}
}

// Dashtype sets the dash pattern; custom segments are in line widths
func (d *Driver) Dashtype(t int, pattern *term.DashPattern) {
	d.stroke()
	switch {
	case t == term.DashCustom && pattern != nil:
		var segs []float64
		for _, l := range pattern.Segments {
			if l <= 0 {
				break
			}
			segs = append(segs, l)
		}
		d.printf("%s 0 setdash\n", dashArray(segs))
	case t == term.DashAxis:
		d.printf("[1 dl 2 dl] 0 setdash\n")
	case t <= 0:
		d.printf("[] 0 setdash\n")
	default:
		d.printf("%s 0 setdash\n", dashArray(psDashes[(t-1)%len(psDashes)]))
	}
}

func (d *Driver) LineWidth(w float64) {
	d.stroke()
	d.printf("%.3f UL\n", w)
}

// SetColor sets an explicit or palette color. Palette colors are looked
// up by the interpreter through the g procedure.
func (d *Driver) SetColor(c *term.ColorSpec) {
	d.stroke()
	switch c.Type {
	case term.TCLt:
		d.Linetype(c.Lt)
	case term.TCFrac:
		p := d.env.Palette
		if p == nil {
			d.setRGB(c.RGB)
			return
		}
		if !d.paletteOK {
			d.MakePalette(p)
		}
		gray := c.Value
		if p.UseMaxColors != 0 {
			gray = p.QuantizeGray(gray)
		}
		d.printf("%.4f g\n", math.Max(0, math.Min(1, gray)))
	default:
		d.setRGB(c.RGB)
	}
}

func (d *Driver) setRGB(c palette.RGB255) {
	col := c.RGB1()
	if !d.color {
		d.printf("%.3f setgray\n", 0.30*col.R+0.59*col.G+0.11*col.B)
		return
	}
	d.printf("%.3f %.3f %.3f C\n", col.R, col.G, col.B)
}

// PaletteSize is 0: gray values are mapped by the interpreter
func (d *Driver) PaletteSize() int { return 0 }

// MakePalette writes the palette procedures into the current page
func (d *Driver) MakePalette(p *palette.Config) {
	d.stroke()
	if d.err != nil {
		return
	}
	if err := WritePalette(d.env.Out, p); err != nil {
		d.env.Log.Error("postscript", "palette: %v", err)
		return
	}
	if !d.color {
		d.printf("/g {setgray} bind def\n")
	}
	d.paletteOK = true
}

func (d *Driver) Justify(j term.Justify) bool {
	d.justify = j
	return true
}

func (d *Driver) TextAngle(ang int) bool {
	d.angle = ang
	return true
}

// SetFont takes "name,size"; either part may be empty and an empty
// string restores the default font
func (d *Driver) SetFont(f string) bool {
	name, size := d.font, d.fontSize
	if f != "" {
		n, s, _ := strings.Cut(f, ",")
		if n != "" {
			name = n
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && v > 0 {
			size = v
		}
	}
	d.stroke()
	d.selectFont(name, size)
	return true
}

func (d *Driver) selectFont(name string, size float64) {
	if name == d.curFont && size == d.curSize {
		return
	}
	d.curFont, d.curSize = name, size
	ps := psFontName(name)
	d.fonts[ps] = true
	d.printf("(%s) findfont %d scalefont setfont\n/vshift %d def\n",
		ps, int(size*psSC+0.5), d.vshift(size))
}

// psFontName maps "Name:Bold:Italic" to a PostScript font name
func psFontName(font string) string {
	name, style, _ := strings.Cut(font, ":")
	if name == "" {
		name = defaultFont
	}
	bold := strings.Contains(style, "Bold")
	italic := strings.Contains(style, "Italic")
	if !bold && !italic {
		return name
	}
	slant := "Oblique"
	if strings.HasPrefix(name, "Times") || strings.HasPrefix(name, "Palatino") {
		slant = "Italic"
	}
	switch {
	case bold && italic:
		return name + "-Bold" + slant
	case bold:
		return name + "-Bold"
	}
	return name + "-" + slant
}

// fillOp returns the PostScript that fills the current path with style
func fillOp(style int) string {
	density := style >> 4
	switch style & 0xf {
	case term.FSSolid, term.FSTransparentSolid:
		if density >= 100 {
			return "gsave fill grestore newpath"
		}
		return fmt.Sprintf("gsave %.2f Density fill grestore newpath", float64(density)/100)
	case term.FSPattern:
		return "gsave LCw C fill grestore " + hatchOp(density) + "newpath"
	case term.FSTransparentPattern:
		return hatchOp(density) + "newpath"
	case term.FSDefault:
		return "gsave fill grestore newpath"
	}
	return "gsave LCw C fill grestore newpath"
}

func hatchOp(pattern int) string {
	switch pattern % 8 {
	case 0:
		return ""
	case 1, 2:
		return "45 Hatch -45 Hatch "
	case 3:
		return "gsave fill grestore "
	case 4:
		return "45 Hatch "
	case 5:
		return "-45 Hatch "
	case 6:
		return "30 Hatch "
	}
	return "-30 Hatch "
}

func (d *Driver) FillBox(style, x, y, w, h int) {
	d.stroke()
	d.printf("%d %d %d %d Rec %s\n", x, y, w, h, fillOp(style))
}

func (d *Driver) FilledPolygon(points []term.Point) {
	d.stroke()
	if len(points) < 3 {
		return
	}
	d.printf("%d %d N", points[0].X, points[0].Y)
	for i, p := range points[1:] {
		if i%8 == 7 {
			d.printf("\n")
		}
		d.printf(" %d %d L", p.X, p.Y)
	}
	d.printf(" closepath %s\n", fillOp(points[0].Style))
}

// Image writes a raster as colorimage data. Transparent pixels are
// composited onto white.
func (d *Driver) Image(img *term.Image) {
	d.stroke()
	if img.Cols <= 0 || img.Rows <= 0 {
		return
	}
	stride := 3
	if img.Mode == term.ImageRGBA {
		stride = 4
	}
	x0, y0 := img.Corners[0].X, img.Corners[0].Y
	dx, dy := img.Corners[1].X-x0, img.Corners[1].Y-y0

	d.printf("gsave\n%d %d translate\n%d %d scale\n", x0, y0, dx, dy)
	d.printf("/picstr %d string def\n", img.Cols*3)
	d.printf("%d %d 8 [%d 0 0 %d 0 0]\n", img.Cols, img.Rows, img.Cols, img.Rows)
	d.printf("{currentfile picstr readhexstring pop} false 3 colorimage\n")

	n := 0
	for i := 0; i < img.Cols*img.Rows; i++ {
		a := 1.0
		if stride == 4 && i*stride+3 < len(img.Values) {
			a = img.Values[i*stride+3]
		}
		for k := 0; k < 3; k++ {
			v := 1.0
			if j := i*stride + k; j < len(img.Values) {
				v = img.Values[j]*a + 1 - a
			}
			d.printf("%02x", uint8(math.Max(0, math.Min(1, v))*255+0.5))
			n++
			if n%36 == 0 {
				d.printf("\n")
			}
		}
	}
	if n%36 != 0 {
		d.printf("\n")
	}
	d.printf("grestore\n")
}

// Options handles
//
//	eps  color  monochrome  solid  dashed  enhanced  noenhanced
//	font "<name>,<size>"  size <w>,<h> (inches)  background <#rrggbb>
//	linewidth <n>  dashlength <n>
func (d *Driver) Options(args []string, e *term.Entry) error {
	next := func(i int, opt string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s expects a value", opt)
		}
		return args[i+1], nil
	}
	number := func(v, opt string) (float64, error) {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "in"), 64)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("%s: bad value %q", opt, v)
		}
		return f, nil
	}

	for i := 0; i < len(args); i++ {
		opt := args[i]
		switch opt {
		case "eps":
			d.eps = true
		case "color", "colour":
			d.color = true
		case "monochrome", "mono":
			d.color = false
		case "solid":
			d.solid = true
		case "dashed":
			d.solid = false
		case "enhanced":
			e.Flags |= term.EnhancedText
		case "noenhanced":
			e.Flags &^= term.EnhancedText
		case "font":
			v, err := next(i, opt)
			if err != nil {
				return err
			}
			i++
			name, size, _ := strings.Cut(v, ",")
			if name != "" {
				d.font = name
			}
			if size != "" {
				f, err := number(size, opt)
				if err != nil {
					return err
				}
				d.fontSize = f
			}
			d.setMetrics(e)
		case "size":
			v, err := next(i, opt)
			if err != nil {
				return err
			}
			i++
			ws, hs, ok := strings.Cut(v, ",")
			if !ok {
				return fmt.Errorf("size expects <width>,<height>, got %q", v)
			}
			w, err := number(ws, opt)
			if err != nil {
				return err
			}
			h, err := number(hs, opt)
			if err != nil {
				return err
			}
			d.setSize(e, w, h)
		case "background":
			v, err := next(i, opt)
			if err != nil {
				return err
			}
			i++
			c, err := colorful.Hex(v)
			if err != nil {
				return fmt.Errorf("background: %w", err)
			}
			d.background = &c
		case "linewidth", "lw":
			v, err := next(i, opt)
			if err != nil {
				return err
			}
			i++
			if d.lwScale, err = number(v, opt); err != nil {
				return err
			}
		case "dashlength", "dl":
			v, err := next(i, opt)
			if err != nil {
				return err
			}
			i++
			if d.dlScale, err = number(v, opt); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unrecognized option %q", opt)
		}
	}
	return nil
}
