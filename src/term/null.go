package term

// UnknownName is the terminal selected when nothing else is
const UnknownName = "unknown"

// unknownDriver draws nothing
type unknownDriver struct {
	env *Env
}

func unknownEntry() *Entry {
	return &Entry{
		Name:        UnknownName,
		Description: "Unknown terminal type - not a plotting device",
		XMax:        100,
		YMax:        100,
		VChar:       1,
		HChar:       1,
		VTic:        1,
		HTic:        1,
		Driver:      &unknownDriver{},
	}
}

func (d *unknownDriver) Init(env *Env) error {
	d.env = env
	return nil
}

func (d *unknownDriver) Reset() error { return nil }

func (d *unknownDriver) Graphics() error {
	if d.env != nil && d.env.Log != nil {
		d.env.Log.Warn("term", "Plotting with an 'unknown' terminal. "+
			"No output will be generated. Please select a terminal with 'set terminal'.")
	}
	return nil
}

func (d *unknownDriver) Text() error { return nil }
func (d *unknownDriver) Move(x, y int) {}
func (d *unknownDriver) Vector(x, y int) {}
func (d *unknownDriver) Linetype(lt int) {}
func (d *unknownDriver) PutText(int, int, string) {}

// Options clears any options: the unknown terminal takes none
func (d *unknownDriver) Options(args []string, e *Entry) error { return nil }

func nullTextAngle(ang int) bool { return ang == 0 }
func nullJustify(j Justify) bool { return j == Left }
func nullScale(x, y float64) bool { return false }
func nullSetFont(font string) bool { return false }
func nullLineWidth(w float64) {}
func nullLayer(l Layer) {}
func nullSuspend() {}
func nullPath(p int) {}

func nullOptions(args []string, e *Entry) error { return nil }
