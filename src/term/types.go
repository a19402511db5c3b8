package term

import "plotterm/src/palette"

// Special linetypes. Values below zero are handled by the driver's
// Linetype directly.
const (
	LTAxis            = -1
	LTBlack           = -2
	LTSolid           = -2
	LTNoDraw          = -3
	LTBackground      = -4
	LTUndefined       = -5
	LTColorFromColumn = -6
	LTDefault         = -7
)

// Dash types
const (
	DashCustom = -3
	DashAxis   = -2
	DashSolid  = -1
)

// TextVertical is the angle drivers use for vertical text
const TextVertical = -270

// Flags advertise driver capabilities
type Flags uint32

const (
	CanMultiplot Flags = 1 << iota
	CannotMultiplot
	Binary
	InitOnReplot
	IsPostScript
	EnhancedText
	NoOutputFile
	CanClip
	CanDash
	AlphaChannel
	Monochrome
	LineWidth
	FontScale
	IsLaTeX
	ExtendedColor
	NullSetColor
	PolygonPixels
)

// Justify is horizontal text alignment. The numeric values are used as
// multipliers when drivers cannot justify text themselves.
type Justify int

const (
	Left Justify = iota
	Centre
	Right
)

// VertJustify is vertical text alignment
type VertJustify int

const (
	JustTop VertJustify = iota
	JustCentre
	JustBot
)

// Layer marks synchronization points sent to drivers
type Layer int

const (
	LayerReset Layer = iota
	LayerBackText
	LayerFrontText
	LayerBegin
	LayerEnd
	LayerEndText
	LayerBeforePlot
	LayerAfterPlot
	LayerKeyBox
	LayerKeyBoxEnd
	LayerBeginGrid
	LayerEndGrid
	LayerZeroAxis
	LayerEndZeroAxis
	LayerBeginPM3DMap
	LayerEndPM3DMap
	LayerBeginImage
	LayerEndImage
)

// ColorType says how a ColorSpec picks its color
type ColorType int

const (
	TCDefault ColorType = iota
	TCLt
	TCLinestyle
	TCRGB
	TCCB
	TCFrac
	TCZ
	TCVariable
)

// ColorSpec is a color request passed to SetColor
type ColorSpec struct {
	Type ColorType
	// Lt is the linetype for TCLt, or a packed 0xRRGGBB for TCRGB
	Lt int
	// Value is the gray fraction for TCFrac, or a data value for TCCB/TCZ
	Value float64
	// RGB is filled in by the session for palette-derived colors
	RGB palette.RGB255
}

// BlackColorSpec is the default color
var BlackColorSpec = ColorSpec{Type: TCLt, Lt: LTBlack}

// BackgroundColorSpec selects the background color
var BackgroundColorSpec = ColorSpec{Type: TCLt, Lt: LTBackground}

// RGBColorSpec returns a spec for an explicit color
func RGBColorSpec(c palette.RGB255) ColorSpec {
	return ColorSpec{Type: TCRGB, Lt: int(c.Packed()), RGB: c}
}

// DashPattern is a custom dash description: segment lengths in units of
// the line width, plus the user's text form
type DashPattern struct {
	Segments [8]float64
	Text     string
}

// Point is a device coordinate with an optional fill style, used for
// polygons
type Point struct {
	X, Y  int
	Style int
}

// LP flags
const (
	LPShowPoints = 1 << iota
	LPNotDefined
	LPExplicitColor
)

// LPStyle describes how lines and points are drawn
type LPStyle struct {
	Flags       int
	LType       int
	PType       int
	DType       int
	CustomDash  DashPattern
	PInterval   int
	LWidth      float64
	PSize       float64
	Color       ColorSpec
	Tag         int
	UseStyleTag bool
}

// PointsizeDefault marks a point size that follows the global pointsize
const PointsizeDefault = -1.0

// DefaultLP returns the default line/point style
func DefaultLP() LPStyle {
	return LPStyle{
		LType:  LTBlack,
		PType:  0,
		DType:  DashSolid,
		LWidth: 1,
		PSize:  PointsizeDefault,
		Color:  BlackColorSpec,
	}
}

// ArrowHead selects which ends of an arrow get a head
type ArrowHead int

const (
	NoHead    ArrowHead = 0
	EndHead   ArrowHead = 1
	BackHead  ArrowHead = 2
	BothHeads ArrowHead = EndHead | BackHead
)

// HeadFill selects how arrow heads are drawn
type HeadFill int

const (
	HeadNoFill HeadFill = iota
	HeadEmpty
	HeadFilled
	HeadNoBorder
)

// ArrowStyle is the current arrow head geometry
type ArrowStyle struct {
	HeadLength    int
	HeadAngle     float64
	HeadBackAngle float64
	HeadFill      HeadFill
	HeadFixedSize bool
}

// Fill styles
const (
	FSEmpty = iota
	FSSolid
	FSPattern
	FSDefault
	FSTransparentSolid
	FSTransparentPattern
)

// FSOpaque is the fill style of opaque arrow heads and polygons
const FSOpaque = FSSolid + 100<<4

// FillStyle describes an area fill
type FillStyle struct {
	Style       int
	Density     int
	Pattern     int
	BorderColor ColorSpec
}

// StyleFromFill packs a fill style into the form passed to FillBox and
// FilledPolygon: the style in the low nibble, density or pattern above it.
// Anything else fills with the background.
func StyleFromFill(fs *FillStyle) int {
	switch fs.Style {
	case FSSolid, FSTransparentSolid:
		return (fs.Density&0xfff)<<4 + fs.Style
	case FSPattern, FSTransparentPattern:
		return (fs.Pattern&0xfff)<<4 + fs.Style
	}
	return FSEmpty
}

// BoundingBox is a rectangle in device coordinates
type BoundingBox struct {
	XLeft, XRight int
	YBot, YTop    int
}

// ImageMode says how Image values are laid out
type ImageMode int

const (
	ImageRGB ImageMode = iota
	ImageRGBA
)

// Image is a raster to be drawn into the quadrilateral given by Corners.
// Values holds 3 (RGB) or 4 (RGBA) channels per pixel in [0,1], row by
// row starting at Corners[0].
type Image struct {
	Cols, Rows int
	Corners    [4]Point
	Mode       ImageMode
	Values     []float64
}
