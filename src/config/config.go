package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"plotterm/src/palette"
)

// Config holds application configuration
type Config struct {
	Terminal  TerminalConfig `json:"terminal"`
	Palette   *PaletteConfig `json:"palette,omitempty"`
	LogDir    string         `json:"log_dir,omitempty"`
	PaletteDB string         `json:"palette_db,omitempty"`
	Discord   DiscordConfig  `json:"discord"`
}

// TerminalConfig selects the terminal used when none is given
type TerminalConfig struct {
	Name    string   `json:"name,omitempty"`
	Output  string   `json:"output,omitempty"`
	Options []string `json:"options,omitempty"`
}

// PaletteConfig describes the startup palette. Unset fields keep the
// built-in defaults.
type PaletteConfig struct {
	Mode      string    `json:"mode,omitempty"`
	Model     string    `json:"model,omitempty"`
	Negative  bool      `json:"negative,omitempty"`
	Gamma     float64   `json:"gamma,omitempty"`
	Formulae  []int     `json:"formulae,omitempty"`
	MaxColors int       `json:"maxcolors,omitempty"`
	Gradient  string    `json:"gradient,omitempty"`
	Functions []string  `json:"functions,omitempty"`
	Cubehelix []float64 `json:"cubehelix,omitempty"`
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	ChannelID string `json:"channel_id,omitempty"`
}

// configSearchPaths returns paths to search for config, in order of priority
func configSearchPaths() []string {
	paths := []string{}

	// First: ~/.config/plotterm/config.json (standard user config location)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "plotterm", "config.json"))
	}

	// Second: local/ directory relative to executable (for development)
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "local", "config.json"))
	}

	// Third: current directory
	paths = append(paths, "local/config.json")

	return paths
}

// DefaultConfigPath returns the first config path that exists, or the preferred path if none exist
func DefaultConfigPath() string {
	paths := configSearchPaths()

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// No config exists, return preferred location for creation
	if len(paths) > 0 {
		return paths[0]
	}
	return "local/config.json"
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration from the default path. A missing file
// gives an empty configuration.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultConfigPath())
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetPalette records p as the startup palette. Only the settings of p's
// mode are kept.
func (c *Config) SetPalette(p *palette.Config) {
	pc := &PaletteConfig{
		Mode:      p.ColorMode.String(),
		Model:     p.Model.String(),
		Negative:  !p.Positive,
		Gamma:     p.Gamma,
		MaxColors: p.UseMaxColors,
	}
	switch p.ColorMode {
	case palette.ModeRGB:
		pc.Formulae = []int{p.FormulaR, p.FormulaG, p.FormulaB}
	case palette.ModeGradient:
		pc.Gradient = p.Gradient.String()
	case palette.ModeFunctions:
		pc.Functions = []string{p.Funcs[0].Definition, p.Funcs[1].Definition, p.Funcs[2].Definition}
	case palette.ModeCubehelix:
		pc.Cubehelix = []float64{p.CubehelixStart, p.CubehelixCycles, p.CubehelixSaturation}
	}
	c.Palette = pc
}

// ApplyPalette sets up p from the palette section. Nothing changes if the
// section is absent or invalid.
func (c *Config) ApplyPalette(p *palette.Config) error {
	pc := c.Palette
	if pc == nil {
		return nil
	}
	next := p.Clone()

	if pc.Model != "" {
		m, ok := palette.ParseColorModel(pc.Model)
		if !ok {
			return fmt.Errorf("palette: unknown color model %q", pc.Model)
		}
		next.Model = m
	}
	next.Positive = !pc.Negative
	if pc.Gamma != 0 {
		if pc.Gamma < 0 {
			return fmt.Errorf("palette: gamma must be positive, got %g", pc.Gamma)
		}
		next.Gamma = pc.Gamma
	}
	if pc.MaxColors < 0 {
		return fmt.Errorf("palette: maxcolors must not be negative, got %d", pc.MaxColors)
	}
	next.UseMaxColors = pc.MaxColors

	mode := pc.Mode
	if mode == "" {
		switch {
		case pc.Gradient != "":
			mode = palette.ModeGradient.String()
		case len(pc.Formulae) > 0:
			mode = palette.ModeRGB.String()
		case len(pc.Functions) > 0:
			mode = palette.ModeFunctions.String()
		case len(pc.Cubehelix) > 0:
			mode = palette.ModeCubehelix.String()
		default:
			mode = p.ColorMode.String()
		}
	}
	m, ok := palette.ParseColorMode(mode)
	if !ok {
		return fmt.Errorf("palette: unknown mode %q", mode)
	}

	switch m {
	case palette.ModeRGB:
		if len(pc.Formulae) > 0 {
			if len(pc.Formulae) != 3 {
				return fmt.Errorf("palette: formulae needs 3 values, got %d", len(pc.Formulae))
			}
			if err := next.SetRGBFormulae(pc.Formulae[0], pc.Formulae[1], pc.Formulae[2]); err != nil {
				return fmt.Errorf("palette: %w", err)
			}
		}
	case palette.ModeGradient:
		g := next.Gradient
		if pc.Gradient != "" {
			var err error
			if g, err = palette.ParseGradient(pc.Gradient); err != nil {
				return fmt.Errorf("palette: %w", err)
			}
		}
		if err := next.SetGradient(g); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	case palette.ModeFunctions:
		if len(pc.Functions) != 3 {
			return fmt.Errorf("palette: functions needs 3 definitions, got %d", len(pc.Functions))
		}
		next.SetFunctions(pc.Functions[0], pc.Functions[1], pc.Functions[2])
	case palette.ModeCubehelix:
		start, cycles, sat := next.CubehelixStart, next.CubehelixCycles, next.CubehelixSaturation
		if len(pc.Cubehelix) > 0 {
			if len(pc.Cubehelix) != 3 {
				return fmt.Errorf("palette: cubehelix needs start, cycles and saturation, got %d values", len(pc.Cubehelix))
			}
			start, cycles, sat = pc.Cubehelix[0], pc.Cubehelix[1], pc.Cubehelix[2]
		}
		next.SetCubehelix(start, cycles, sat)
	}
	next.ColorMode = m

	*p = *next
	return nil
}
