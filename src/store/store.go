// Package store keeps named palettes in a SQLite database so they can be
// saved from one session and loaded in another.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"plotterm/src/palette"
)

// ErrNotFound is returned when no palette has the requested name
var ErrNotFound = errors.New("palette not found")

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS palettes (
    name          TEXT PRIMARY KEY,
    mode          TEXT NOT NULL,
    model         TEXT NOT NULL,
    positive      INTEGER NOT NULL,
    gamma         REAL NOT NULL,
    formula_r     INTEGER NOT NULL,
    formula_g     INTEGER NOT NULL,
    formula_b     INTEGER NOT NULL,
    maxcolors     INTEGER NOT NULL,
    gradient      TEXT NOT NULL,
    func_r        TEXT NOT NULL DEFAULT '',
    func_g        TEXT NOT NULL DEFAULT '',
    func_b        TEXT NOT NULL DEFAULT '',
    ch_start      REAL NOT NULL,
    ch_cycles     REAL NOT NULL,
    ch_saturation REAL NOT NULL,
    ps_allcf      INTEGER NOT NULL DEFAULT 0,
    saved         INTEGER NOT NULL            -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_palettes_saved ON palettes(saved);
`

// Entry describes a stored palette
type Entry struct {
	Name  string
	Mode  palette.ColorMode
	Model palette.ColorModel
	Saved time.Time
}

// Store is a palette database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns ~/.config/plotterm/palettes.db
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "plotterm", "palettes.db")
	}
	return filepath.Join("local", "palettes.db")
}

// Open opens the database at path, creating it if needed
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update schema version: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores p under name, replacing any palette already there. The
// terminal-specific parts of p (its sampled table and evaluator) are not
// kept.
func (s *Store) Save(name string, p *palette.Config) error {
	if name == "" {
		return errors.New("palette name is empty")
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO palettes
        (name, mode, model, positive, gamma, formula_r, formula_g, formula_b, maxcolors,
         gradient, func_r, func_g, func_b, ch_start, ch_cycles, ch_saturation, ps_allcf, saved)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, p.ColorMode.String(), p.Model.String(), p.Positive, p.Gamma,
		p.FormulaR, p.FormulaG, p.FormulaB, p.UseMaxColors,
		p.Gradient.String(), p.Funcs[0].Definition, p.Funcs[1].Definition, p.Funcs[2].Definition,
		p.CubehelixStart, p.CubehelixCycles, p.CubehelixSaturation, p.PSAllCF,
		s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("save palette %q: %w", name, err)
	}
	return nil
}

// Load returns the palette stored under name
func (s *Store) Load(name string) (*palette.Config, error) {
	var (
		mode, model, gradient string
		p                     = palette.Default()
		saved                 int64
	)
	err := s.db.QueryRow(`SELECT mode, model, positive, gamma, formula_r, formula_g, formula_b,
        maxcolors, gradient, func_r, func_g, func_b, ch_start, ch_cycles, ch_saturation, ps_allcf, saved
        FROM palettes WHERE name = ?`, name).Scan(
		&mode, &model, &p.Positive, &p.Gamma, &p.FormulaR, &p.FormulaG, &p.FormulaB,
		&p.UseMaxColors, &gradient, &p.Funcs[0].Definition, &p.Funcs[1].Definition, &p.Funcs[2].Definition,
		&p.CubehelixStart, &p.CubehelixCycles, &p.CubehelixSaturation, &p.PSAllCF, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load palette %q: %w", name, err)
	}

	var ok bool
	if p.ColorMode, ok = palette.ParseColorMode(mode); !ok {
		return nil, fmt.Errorf("load palette %q: unknown color mode %q", name, mode)
	}
	if p.Model, ok = palette.ParseColorModel(model); !ok {
		return nil, fmt.Errorf("load palette %q: unknown color model %q", name, model)
	}
	if gradient != "" {
		g, err := palette.ParseGradient(gradient)
		if err != nil {
			return nil, fmt.Errorf("load palette %q: %w", name, err)
		}
		p.Gradient = g
		p.SmallestGradientInterval = g.SmallestInterval()
	}
	return p, nil
}

// List returns the stored palettes, most recently saved first
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query("SELECT name, mode, model, saved FROM palettes ORDER BY saved DESC, name")
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			mode, model string
			saved       int64
		)
		if err := rows.Scan(&e.Name, &mode, &model, &saved); err != nil {
			return nil, fmt.Errorf("list palettes: %w", err)
		}
		e.Mode, _ = palette.ParseColorMode(mode)
		e.Model, _ = palette.ParseColorModel(model)
		e.Saved = time.Unix(0, saved)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the palette stored under name
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec("DELETE FROM palettes WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete palette %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
