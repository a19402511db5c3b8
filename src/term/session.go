package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"plotterm/src/logging"
	"plotterm/src/palette"
)

const logSession = "term"

// Session holds the state of one plotting front end: the selected
// terminal, its output, the palette and the multiplot state. At most one
// terminal is active at a time; switching terminals tears down the
// previous one first.
type Session struct {
	reg  *Registry
	term *Bound
	env  Env
	log  *logging.Logger

	// Palette is the active palette. Drivers see the same pointer.
	Palette     *palette.Config
	prevPalette *palette.Config

	initialised bool
	graphics    bool
	suspended   bool
	multiplot   bool
	// ForceInit makes every Initialise call the driver's Init
	ForceInit bool
	// Interactive enables the messages a user at a prompt would see
	Interactive bool
	// DefaultTerminal is tried by InitTerminal when GNUTERM is unset
	DefaultTerminal string
	// Encoding is passed through to drivers that care
	Encoding string

	output

	Layout *Layout

	// PointSize is the global point size used when a style asks for the
	// default
	PointSize     float64
	termPointSize float64
	ArrowStyle    ArrowStyle
	Canvas        BoundingBox
	clip          *BoundingBox

	// Monochrome selects the monochrome linetype set on every terminal
	Monochrome      bool
	Linetypes       map[int]LPStyle
	LinetypeRecycle int
	MonoLinetypes   map[int]LPStyle
	MonoRecycle     int
	LineStyles      map[int]LPStyle
	CB              CBAxis

	enhanced  *EnhancedParser
	interrupt atomic.Bool
	ttyCheck  func(w io.Writer) bool
	lookupEnv func(key string) (string, bool)
}

// CBAxis is the data range mapped onto the palette
type CBAxis struct {
	Min, Max float64
	Log      bool
	LogBase  float64
}

// NewSession creates a session drawing with terminals from reg and
// writing to stdout until SetOutput says otherwise. The unknown terminal
// is selected.
func NewSession(reg *Registry, stdout io.Writer) *Session {
	if reg == nil {
		reg = DefaultRegistry()
	}
	s := &Session{
		reg:           reg,
		log:           logging.Default(),
		Palette:       palette.Default(),
		PointSize:     1,
		termPointSize: 1,
		ArrowStyle:    ArrowStyle{HeadLength: 0, HeadAngle: 15, HeadBackAngle: 90, HeadFill: HeadNoFill},
		Linetypes:     make(map[int]LPStyle),
		MonoLinetypes: make(map[int]LPStyle),
		LineStyles:    make(map[int]LPStyle),
		CB:            CBAxis{Min: 0, Max: 1},
		ttyCheck:      isTerminal,
		lookupEnv:     os.LookupEnv,
	}
	s.output.init(stdout)
	s.InitMonochrome()
	s.enhanced = NewEnhancedParser(s.log)
	s.env = Env{
		Out:      s.out,
		Palette:  s.Palette,
		Log:      s.log,
		Enhanced: s.enhanced,
	}
	s.ChangeTerm(UnknownName)
	return s
}

// SetLogger replaces the logger used for warnings and interactive messages
func (s *Session) SetLogger(l *logging.Logger) {
	s.log = l
	s.env.Log = l
	s.enhanced.Log = l
}

// Term returns the bound terminal
func (s *Session) Term() *Bound {
	return s.term
}

// Env returns what drivers see of the session
func (s *Session) Env() *Env {
	return &s.env
}

// Registry returns the terminals available to the session
func (s *Session) Registry() *Registry {
	return s.reg
}

// Initialised reports whether the driver's Init has run
func (s *Session) Initialised() bool { return s.initialised }

// InGraphics reports whether a page is open
func (s *Session) InGraphics() bool { return s.graphics }

// Suspended reports whether the driver is suspended between panels
func (s *Session) Suspended() bool { return s.suspended }

// InMultiplot reports whether a multiplot is open
func (s *Session) InMultiplot() bool { return s.multiplot }

// Interrupt asks running drawing helpers to stop at the next safe point.
// It is safe to call from any goroutine.
func (s *Session) Interrupt() {
	s.interrupt.Store(true)
}

// Interrupted reports whether an interrupt is pending
func (s *Session) Interrupted() bool {
	return s.interrupt.Load()
}

// ClearInterrupt drops a pending interrupt
func (s *Session) ClearInterrupt() {
	s.interrupt.Store(false)
}

func (s *Session) syncEnv() {
	s.env.Out = s.out
	s.env.Palette = s.Palette
	if s.term != nil {
		s.env.Entry = s.term.Entry
	}
}

// ChangeTerm selects the terminal whose name starts with name. It reports
// false and leaves the current terminal alone if there is no such
// terminal or the prefix is ambiguous.
func (s *Session) ChangeTerm(name string) (*Bound, bool) {
	if name != "" && strings.HasPrefix("X11", name) {
		name = "x11"
	}
	if name != "" && strings.HasPrefix("eps", name) {
		if _, ok := s.reg.Lookup("epscairo"); ok {
			name = "epscairo"
		}
	}

	e, ok := s.reg.Lookup(name)
	if !ok {
		return nil, false
	}

	s.term = bind(e, s)
	s.initialised = false

	if s.term.HasScale {
		s.log.Warn(logSession, "scale interface is not null_scale - may not work with multiplot")
	}
	if s.Interactive {
		s.log.Info(logSession, "Terminal type set to '%s'", e.Name)
	}
	s.syncEnv()
	s.InvalidatePalette()
	return s.term, true
}

// SetTerm tears down the current terminal and selects name, passing args
// to the new terminal's Options. An unknown or ambiguous name selects the
// unknown terminal and returns ErrUnknownTerminal.
func (s *Session) SetTerm(name string, args ...string) error {
	s.Reset()
	b, ok := s.ChangeTerm(name)
	if !ok {
		s.ChangeTerm(UnknownName)
		return fmt.Errorf("%w: %q", ErrUnknownTerminal, name)
	}
	if err := b.Options(args, b.Entry); err != nil {
		return fmt.Errorf("set terminal %s: %w", b.Name, err)
	}
	return nil
}

// InitTerminal picks the startup terminal: GNUTERM if set, otherwise
// DefaultTerminal. Words after the name are passed to Options. If neither
// names a terminal, the unknown terminal is selected.
func (s *Session) InitTerminal() {
	name, ok := s.lookupEnv("GNUTERM")
	if !ok || name == "" {
		name = s.DefaultTerminal
	}
	if name != "" {
		fields := strings.Fields(name)
		if len(fields) > 0 {
			if b, ok := s.ChangeTerm(fields[0]); ok {
				if err := b.Options(fields[1:], b.Entry); err != nil {
					s.log.Warn(logSession, "%s options: %v", b.Name, err)
				}
				return
			}
		}
		s.log.Warn(logSession, "Unknown or ambiguous terminal name '%s'", name)
	}
	s.ChangeTerm(UnknownName)
}

// Initialise runs the driver's Init once. Output that the terminal cannot
// use is dealt with first: terminals that write no file get it closed,
// and a file opened with the wrong binary mode is reopened.
func (s *Session) Initialise() error {
	if s.term == nil {
		return ErrNoTerminal
	}

	if s.path != "" && s.term.Has(NoOutputFile) {
		if s.Interactive {
			s.log.Info(logSession, "Closing %s", s.path)
		}
		if err := s.closeOutput(); err != nil {
			s.log.Warn(logSession, "closing output: %v", err)
		}
	}

	if s.path != "" && s.term.Has(Binary) != s.openedBinary {
		path := s.path
		if err := s.setOutput(path); err != nil {
			s.log.Warn(logSession, "Cannot reopen output file in binary: %v", err)
		}
	}

	if !s.initialised || s.ForceInit {
		s.syncEnv()
		if err := s.term.Init(&s.env); err != nil {
			return fmt.Errorf("initialise %s: %w", s.term.Name, err)
		}
		s.initialised = true
	}
	return nil
}

// StartPlot opens a page, initialising the terminal if needed. Inside a
// multiplot it resumes a suspended terminal instead.
func (s *Session) StartPlot() error {
	if !s.initialised {
		if err := s.Initialise(); err != nil {
			return err
		}
	}

	if !s.graphics {
		if err := s.term.Graphics(); err != nil {
			return err
		}
		s.graphics = true
	} else if s.multiplot && s.suspended {
		s.term.Resume()
		s.suspended = false
	}

	s.term.Layer(LayerReset)

	// PostScript pages may be viewed out of order
	if s.term.Has(IsPostScript) {
		s.InvalidatePalette()
	}

	s.Canvas = BoundingBox{XLeft: 0, XRight: s.term.XMax - 1, YBot: 0, YTop: s.term.YMax - 1}
	s.updateClip()
	return nil
}

// EndPlot finishes the page, or moves to the next panel in a multiplot,
// and flushes the output. It does nothing before the terminal is
// initialised.
func (s *Session) EndPlot() error {
	if !s.initialised {
		return nil
	}

	s.term.Layer(LayerEndText)

	var err error
	if !s.multiplot {
		err = s.term.Text()
		s.graphics = false
	} else if s.Layout != nil {
		s.Layout.Next()
	}

	if ferr := s.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (s *Session) suspend() {
	if s.initialised && !s.suspended && s.term.HasSuspend {
		s.term.Suspend()
		s.suspended = true
	}
}

// Reset tears the terminal down: it resumes, closes any open page and
// calls the driver's Reset. It is safe to call repeatedly.
func (s *Session) Reset() error {
	if !s.initialised {
		return nil
	}

	if s.suspended {
		s.term.Resume()
		s.suspended = false
	}
	var err error
	if s.graphics {
		err = s.term.Text()
		s.graphics = false
	}
	if rerr := s.term.Reset(); err == nil {
		err = rerr
	}
	s.initialised = false
	if ferr := s.Flush(); err == nil {
		err = ferr
	}
	return err
}

// StartMultiplot opens a multiplot. A nil layout leaves panel placement
// to the caller.
func (s *Session) StartMultiplot(layout *Layout) {
	s.multiplot = true
	s.Layout = layout
}

// EndMultiplot closes the multiplot and its page
func (s *Session) EndMultiplot() error {
	if !s.multiplot {
		return nil
	}
	if s.suspended {
		s.term.Resume()
		s.suspended = false
	}
	s.multiplot = false
	s.Layout = nil
	return s.EndPlot()
}

// CheckMultiplotOkay is called before prompting for more input while a
// multiplot is open. Keeping the multiplot is fine when the read is not
// interactive, when the terminal supports it, or when output goes to a
// file the terminal can keep writing. Otherwise the multiplot is ended
// and an error returned.
func (s *Session) CheckMultiplotOkay(interactive bool) error {
	if !s.initialised {
		return nil
	}

	if !interactive || s.term.Has(CanMultiplot) ||
		(s.redirected() && !s.term.Has(CannotMultiplot)) {
		s.suspend()
		return nil
	}

	if err := s.EndMultiplot(); err != nil {
		s.log.Warn(logSession, "ending multiplot: %v", err)
	}

	if s.term.Has(CannotMultiplot) {
		return ErrMultiplotUnsupported
	}
	return ErrMultiplotNeedsFile
}

func (s *Session) updateClip() {
	if s.term != nil && s.term.Has(CanClip) {
		s.clip = nil
		return
	}
	c := s.Canvas
	s.clip = &c
}

// ClipArea returns the area drawing helpers clip to, or nil if the
// terminal clips itself
func (s *Session) ClipArea() *BoundingBox {
	return s.clip
}

// SetClipArea overrides the clip area until the next StartPlot
func (s *Session) SetClipArea(b *BoundingBox) {
	s.clip = b
}

// DoPointsize records the point size used by the point drawing default
func (s *Session) DoPointsize(size float64) {
	if size >= 0 {
		s.termPointSize = size
	} else {
		s.termPointSize = 1
	}
}
