package term

import "plotterm/src/palette"

// MakePalette sends the active palette to the terminal. Terminals that
// report a palette size of 0 map gray values themselves and only get the
// palette when it changed since the last send. Others get a sampled color
// table.
func (s *Session) MakePalette() error {
	t := s.term
	if _, ok := t.Driver.(PaletteMaker); !ok {
		return nil
	}

	n := t.PaletteSize()
	s.Palette.Colors = n
	if n == 0 {
		if s.prevPalette == nil || palette.Differ(s.prevPalette, s.Palette) {
			t.MakePalette(s.Palette)
			s.prevPalette = s.Palette.Clone()
		}
		return nil
	}

	if limit := s.Palette.UseMaxColors; limit > 0 {
		if s.Palette.ColorMode != palette.ModeGradient && n > limit {
			s.Palette.Colors = limit
		}
	}

	prev := s.prevPalette
	if prev == nil ||
		prev.ColorMode != s.Palette.ColorMode ||
		prev.FormulaR != s.Palette.FormulaR ||
		prev.FormulaG != s.Palette.FormulaG ||
		prev.FormulaB != s.Palette.FormulaB ||
		prev.Positive != s.Palette.Positive ||
		prev.Colors != s.Palette.Colors {
		if s.Interactive {
			s.log.Info(logSession, "smooth palette in %s: using %d of %d available color positions",
				t.Name, s.Palette.Colors, n)
		}
	}

	if err := s.Palette.Sample(s.Palette.Colors); err != nil {
		return err
	}
	s.prevPalette = s.Palette.Clone()
	t.MakePalette(s.Palette)
	return nil
}

// InvalidatePalette makes the next MakePalette send the palette
// regardless of what was sent before
func (s *Session) InvalidatePalette() {
	s.prevPalette = nil
}

// SetPalette replaces the active palette
func (s *Session) SetPalette(p *palette.Config) {
	s.Palette = p
	s.env.Palette = p
}
