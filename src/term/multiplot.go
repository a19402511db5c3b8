package term

// Layout is an automatic multiplot grid. The zero value is not usable;
// build one with NewLayout.
type Layout struct {
	Rows, Cols int
	// RowMajor steps through a column's rows before moving to the next
	// column; otherwise a row's columns are filled first
	RowMajor bool
	// Downwards numbers rows from the top of the page
	Downwards bool

	XScale, YScale   float64
	XOffset, YOffset float64
	// TitleHeight is the fraction of the page kept free for a title
	TitleHeight float64

	CurrentPanel int
	Row, Col     int
}

// NewLayout returns a rows x cols layout starting at the first panel
func NewLayout(rows, cols int) *Layout {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &Layout{
		Rows:      rows,
		Cols:      cols,
		Downwards: true,
		XScale:    1,
		YScale:    1,
	}
}

// Next advances to the following panel, wrapping to the first
func (l *Layout) Next() {
	l.CurrentPanel++
	if l.RowMajor {
		l.Row++
		if l.Row == l.Rows {
			l.Row = 0
			l.Col++
			if l.Col == l.Cols {
				l.Col = 0
			}
		}
		return
	}
	l.Col++
	if l.Col == l.Cols {
		l.Col = 0
		l.Row++
		if l.Row == l.Rows {
			l.Row = 0
		}
	}
}

// Previous steps back one panel, wrapping to the last
func (l *Layout) Previous() {
	l.CurrentPanel--
	if l.RowMajor {
		l.Row--
		if l.Row < 0 {
			l.Row = l.Rows - 1
			l.Col--
			if l.Col < 0 {
				l.Col = l.Cols - 1
			}
		}
		return
	}
	l.Col--
	if l.Col < 0 {
		l.Col = l.Cols - 1
		l.Row--
		if l.Row < 0 {
			l.Row = l.Rows - 1
		}
	}
}

// Panel returns the size and origin of the current panel as fractions
// of the page
func (l *Layout) Panel() (xsize, ysize, xoffset, yoffset float64) {
	rows, cols := float64(l.Rows), float64(l.Cols)
	xsize = l.XScale / cols
	ysize = l.YScale / rows

	xoffset = float64(l.Col) / cols
	if l.Downwards {
		yoffset = 1 - float64(l.Row+1)/rows
	} else {
		yoffset = float64(l.Row) / rows
	}

	if l.TitleHeight > 0 {
		ysize *= 1 - l.TitleHeight
		yoffset *= 1 - l.TitleHeight
	}

	xoffset -= (l.XScale - 1) / (2 * cols)
	yoffset -= (l.YScale - 1) / (2 * rows)
	return xsize, ysize, xoffset + l.XOffset, yoffset + l.YOffset
}

// PanelBox returns the current panel in device coordinates of e
func (l *Layout) PanelBox(e *Entry) BoundingBox {
	xsize, ysize, xoff, yoff := l.Panel()
	w, h := float64(e.XMax), float64(e.YMax)
	return BoundingBox{
		XLeft:  int(xoff * w),
		XRight: int((xoff+xsize)*w) - 1,
		YBot:   int(yoff * h),
		YTop:   int((yoff+ysize)*h) - 1,
	}
}
