package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"plotterm/src/term"
)

// Format selects what a Driver does with a finished page
type Format string

const (
	FormatPNG    Format = "png"
	FormatBMP    Format = "bmp"
	FormatTIFF   Format = "tiff"
	FormatWindow Format = "gio"
)

const (
	defaultFont     = "Sans"
	defaultFontSize = 12.0
	dashUnit        = 2.0
)

// encoder is a surface that can write its page out
type encoder interface {
	Encode(w io.Writer, f Format) error
}

// presenter is a surface shown live somewhere
type presenter interface {
	Present()
}

// Driver draws terminal primitives on a Surface. Device coordinates have
// their origin at the bottom left; one device unit is one pixel.
type Driver struct {
	format     Format
	newSurface func(w, h int) (Surface, error)
	surface    Surface
	env        *term.Env

	Colors   Colors
	font     string
	fontSize float64
	lwScale  float64
	dlScale  float64

	curFont string
	curSize float64
	color   color.NRGBA
	width   float64
	dash    []float64
	justify term.Justify
	angle   int

	pos  Pt
	path []Pt

	open bool
	cur  textRun
	runs []textRun
}

// textRun is one piece of enhanced text waiting to be laid out
type textRun struct {
	text      []byte
	font      string
	size      float64
	base      float64
	widthflag bool
	showflag  bool
	overprint int

	dx float64
}

// NewDriver returns a driver drawing on surfaces made by newSurface
func NewDriver(f Format, newSurface func(w, h int) (Surface, error)) *Driver {
	return &Driver{
		format:     f,
		newSurface: newSurface,
		Colors:     DefaultColors(),
		font:       defaultFont,
		fontSize:   defaultFontSize,
		lwScale:    1,
		dlScale:    1,
	}
}

// Surface returns the surface of the current page
func (d *Driver) Surface() Surface {
	return d.surface
}

func (d *Driver) Init(env *term.Env) error {
	d.env = env
	return nil
}

func (d *Driver) Reset() error {
	d.flush()
	if _, ok := d.surface.(encoder); ok {
		d.surface = nil
	}
	return nil
}

func (d *Driver) Graphics() error {
	e := d.env.Entry
	if d.surface == nil || d.surface.Size().X != e.XMax || d.surface.Size().Y != e.YMax {
		s, err := d.newSurface(e.XMax, e.YMax)
		if err != nil {
			return fmt.Errorf("%s surface: %w", d.format, err)
		}
		d.surface = s
	}
	d.surface.Clear(d.Colors.Background)

	d.curFont, d.curSize = d.font, d.fontSize
	d.color = d.Colors.Foreground
	d.width = d.lwScale
	d.dash = nil
	d.justify = term.Left
	d.angle = 0
	d.path = d.path[:0]
	return nil
}

func (d *Driver) Text() error {
	d.flush()
	switch s := d.surface.(type) {
	case encoder:
		return s.Encode(d.env.Out, d.format)
	case presenter:
		s.Present()
	}
	return nil
}

// pt converts device coordinates to surface pixels
func (d *Driver) pt(x, y int) Pt {
	return Pt{X: float64(x), Y: float64(d.env.Entry.YMax - 1 - y)}
}

func (d *Driver) Move(x, y int) {
	d.flush()
	d.pos = d.pt(x, y)
}

func (d *Driver) Vector(x, y int) {
	if len(d.path) == 0 {
		d.path = append(d.path, d.pos)
	}
	d.pos = d.pt(x, y)
	d.path = append(d.path, d.pos)
}

// flush strokes the pending polyline
func (d *Driver) flush() {
	if len(d.path) < 2 || d.surface == nil {
		d.path = d.path[:0]
		return
	}
	var pattern []float64
	if len(d.dash) > 0 {
		unit := dashUnit * d.dlScale * math.Max(d.width, 1)
		pattern = make([]float64, len(d.dash))
		for i, l := range d.dash {
			pattern[i] = l * unit
		}
	}
	for _, piece := range dashPolyline(d.path, pattern) {
		d.surface.Stroke(piece, d.width, d.color)
	}
	d.path = d.path[:0]
}

// ltColor returns the color linetype lt is drawn in
func (d *Driver) ltColor(lt int) color.NRGBA {
	switch {
	case lt == term.LTBackground:
		return d.Colors.Background
	case lt == term.LTNoDraw:
		return color.NRGBA{}
	case lt == term.LTAxis:
		return axisColor
	case lt >= 0:
		return AdjustForContrast(LinetypeColor(lt), d.Colors.Background)
	}
	return d.Colors.Foreground
}

func (d *Driver) Linetype(lt int) {
	d.flush()
	d.color = d.ltColor(lt)
	d.dash = nil
	if lt == term.LTAxis {
		d.dash = builtinDashes[1]
	}
}

// Dashtype selects a dash pattern. Dashtype 0 and below are solid.
func (d *Driver) Dashtype(t int, pattern *term.DashPattern) {
	d.flush()
	switch {
	case t == term.DashCustom && pattern != nil:
		d.dash = d.dash[:0:0]
		for _, l := range pattern.Segments {
			if l <= 0 {
				break
			}
			d.dash = append(d.dash, l)
		}
	case t <= 0:
		d.dash = nil
	default:
		d.dash = builtinDashes[(t-1)%len(builtinDashes)]
	}
}

func (d *Driver) LineWidth(w float64) {
	d.flush()
	d.width = w * d.lwScale
}

// SetColor takes the color the session resolved. An explicit rgb color
// may carry transparency in its top byte, 0 being opaque.
func (d *Driver) SetColor(c *term.ColorSpec) {
	d.flush()
	switch c.Type {
	case term.TCLt:
		d.color = d.ltColor(c.Lt)
	case term.TCRGB:
		d.color = c.RGB.NRGBA()
		if d.env.Entry.Has(term.AlphaChannel) {
			d.color.A = 255 - uint8(uint32(c.Lt)>>24)
		}
	default:
		d.color = c.RGB.NRGBA()
	}
}

func (d *Driver) Justify(j term.Justify) bool {
	d.justify = j
	return true
}

func (d *Driver) TextAngle(ang int) bool {
	d.angle = ang
	return true
}

// SetFont takes "name,size"; either part may be empty, and an empty
// string restores the default font
func (d *Driver) SetFont(f string) bool {
	if f == "" {
		d.curFont, d.curSize = d.font, d.fontSize
		return true
	}
	name, size, _ := strings.Cut(f, ",")
	if name != "" {
		d.curFont = name
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(size), 64); err == nil && v > 0 {
		d.curSize = v
	}
	return true
}

// fills returns the layers a fill style paints with
func (d *Driver) fills(style int) []Fill {
	density := style >> 4
	bg := d.Colors.Background
	switch style & 0xf {
	case term.FSSolid:
		if density >= 100 {
			return []Fill{{Color: d.color}}
		}
		return []Fill{{Color: mix(d.color, bg, float64(density)/100)}}
	case term.FSTransparentSolid:
		c := d.color
		c.A = uint8(math.Min(float64(density), 100) * 255 / 100)
		return []Fill{{Color: c}}
	case term.FSPattern:
		return append([]Fill{{Color: bg}}, d.hatch(density)...)
	case term.FSTransparentPattern:
		return d.hatch(density)
	case term.FSDefault:
		return []Fill{{Color: d.color}}
	}
	return []Fill{{Color: bg}}
}

func (d *Driver) hatch(pattern int) []Fill {
	switch pattern % 8 {
	case 0:
		return nil
	case 3:
		return []Fill{{Color: d.color}}
	}
	return []Fill{{Color: d.color, Hatch: pattern % 8}}
}

// FilledPolygon fills with the style carried by the first corner
func (d *Driver) FilledPolygon(points []term.Point) {
	d.flush()
	if len(points) < 3 {
		return
	}
	pts := make([]Pt, len(points))
	for i, p := range points {
		pts[i] = d.pt(p.X, p.Y)
	}
	for _, f := range d.fills(points[0].Style) {
		d.surface.FillPolygon(pts, f)
	}
}

func (d *Driver) FillBox(style, x, y, w, h int) {
	d.FilledPolygon([]term.Point{
		{X: x, Y: y, Style: style},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	})
}

func (d *Driver) EnhancedOpen(font string, size, base float64, widthflag, showflag bool, overprint int) {
	// 3 and 4 save and restore the position; they carry no text
	if overprint == 3 || overprint == 4 {
		d.runs = append(d.runs, textRun{overprint: overprint})
		return
	}
	if d.open {
		return
	}
	d.open = true
	d.cur = textRun{font: font, size: size, base: base,
		widthflag: widthflag, showflag: showflag, overprint: overprint}
}

func (d *Driver) EnhancedWriteC(c byte) {
	if d.open {
		d.cur.text = append(d.cur.text, c)
	}
}

func (d *Driver) EnhancedFlush() {
	if !d.open {
		return
	}
	d.open = false
	if len(d.cur.text) > 0 {
		d.runs = append(d.runs, d.cur)
	}
}

// PutText lays the text out as runs, justifies the whole and draws it
// vertically centred on y
func (d *Driver) PutText(x, y int, s string) {
	d.flush()
	if s == "" || d.surface == nil {
		return
	}

	d.runs = d.runs[:0]
	if d.env.Entry.Has(term.EnhancedText) && d.env.Enhanced != nil {
		d.env.Enhanced.Parse(d, term.EnhancedStyle{}, s, d.curFont, d.curSize)
		d.EnhancedFlush()
	} else {
		d.runs = append(d.runs, textRun{text: []byte(s), font: d.curFont, size: d.curSize,
			widthflag: true, showflag: true})
	}

	width := d.layout(d.runs)
	var off float64
	switch d.justify {
	case term.Centre:
		off = -width / 2
	case term.Right:
		off = -width
	}

	at := d.pt(x, y)
	sin, cos := math.Sincos(float64(d.angle) * math.Pi / 180)
	along := Pt{X: cos, Y: -sin}
	up := Pt{X: -sin, Y: -cos}
	drop := d.curSize * 0.3

	for _, r := range d.runs {
		if !r.showflag || len(r.text) == 0 {
			continue
		}
		a, b := off+r.dx, r.base-drop
		p := Pt{X: at.X + along.X*a + up.X*b, Y: at.Y + along.Y*a + up.Y*b}
		d.surface.DrawText(p, float64(d.angle), string(r.text), StyleFor(r.font, r.size), d.color)
	}
}

// layout sets each run's offset along the baseline and returns the total
// width. An overprint run is centred on the run before it.
func (d *Driver) layout(runs []textRun) float64 {
	var x, width, saved, underX, underW float64
	for i := range runs {
		r := &runs[i]
		switch r.overprint {
		case 3:
			saved = x
			continue
		case 4:
			x = saved
			continue
		}
		w := d.surface.TextWidth(string(r.text), StyleFor(r.font, r.size))
		if r.overprint == 2 {
			r.dx = underX + (underW-w)/2
			continue
		}
		if r.overprint == 1 {
			underX, underW = x, w
		}
		r.dx = x
		if r.widthflag {
			x += w
		}
		width = math.Max(width, x)
	}
	return width
}

// setMetrics derives character and tic sizes from the font size
func (d *Driver) setMetrics(e *term.Entry) {
	e.HChar = int(d.fontSize*0.6 + 0.5)
	e.VChar = int(d.fontSize*1.25 + 0.5)
	e.HTic = int(d.fontSize*0.4 + 0.5)
	e.VTic = e.HTic
}

// Options handles
//
//	size <w>,<h>  font "<name>,<size>"  background <#rrggbb>
//	linewidth <n>  dashlength <n>  enhanced  noenhanced
func (d *Driver) Options(args []string, e *term.Entry) error {
	next := func(i int, opt string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s expects a value", opt)
		}
		return args[i+1], nil
	}
	number := func(v, opt string) (float64, error) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("%s: bad value %q", opt, v)
		}
		return f, nil
	}

	for i := 0; i < len(args); i++ {
		opt := args[i]
		switch opt {
		case "enhanced":
			e.Flags |= term.EnhancedText
		case "noenhanced":
			e.Flags &^= term.EnhancedText
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
			e.XMax, e.YMax = int(w), int(h)
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
			r, g, b := c.RGB255()
			d.Colors.Background = color.NRGBA{R: r, G: g, B: b, A: 255}
			d.Colors.Foreground = color.NRGBA{A: 255}
			if Luminance(d.Colors.Background) < 0.5 {
				d.Colors.Foreground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
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

const pixelFlags = term.CanMultiplot | term.CanClip | term.CanDash | term.LineWidth |
	term.FontScale | term.AlphaChannel | term.EnhancedText

// NewEntry returns a terminal entry for format f drawing through
// newSurface
func NewEntry(f Format, description string, newSurface func(w, h int) (Surface, error)) *term.Entry {
	d := NewDriver(f, newSurface)
	e := &term.Entry{
		Name:        string(f),
		Description: description,
		XMax:        640,
		YMax:        480,
		Flags:       pixelFlags,
		Driver:      d,
	}
	if f == FormatWindow {
		e.Flags |= term.NoOutputFile
	} else {
		e.Flags |= term.Binary
	}
	d.setMetrics(e)
	return e
}

func newImageSurface(w, h int) (Surface, error) {
	s, err := NewImageSurface(w, h)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newWindowSurface(w, h int) (Surface, error) {
	s := WindowSurface()
	s.Resize(w, h)
	return s, nil
}

func init() {
	term.Register(NewEntry(FormatPNG, "PNG images", newImageSurface))
	term.Register(NewEntry(FormatBMP, "BMP images", newImageSurface))
	term.Register(NewEntry(FormatTIFF, "TIFF images", newImageSurface))
	term.Register(NewEntry(FormatWindow, "interactive window", newWindowSurface))
}
