package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gioui.org/app"

	_ "plotterm/src/cellterm"
	"plotterm/src/config"
	"plotterm/src/logging"
	"plotterm/src/palette"
	"plotterm/src/postscript"
	"plotterm/src/publish"
	"plotterm/src/render"
	"plotterm/src/store"
	"plotterm/src/term"
)

// fallbackTerminal is used when neither the command line, GNUTERM nor the
// config names a terminal
const fallbackTerminal = "dumb"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config not loaded: %v\n", err)
		cfg = &config.Config{}
	}

	finish := func(error) {}
	if cfg.LogDir != "" {
		name := runName(args)
		l := logging.NewLogger(cfg.LogDir)
		logging.SetDefault(l)
		if err := l.Start(name); err != nil {
			fmt.Fprintf(os.Stderr, "Log not started: %v\n", err)
		}
		finish = func(err error) { l.End(name, err) }
	}

	if args[0] == "window" {
		runWindow(cfg, finish)
		return
	}

	err = run(cfg, args)
	finish(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			printUsage()
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("unknown command")

// runName names the log run for a command line. Arguments are left out
// except a palette subcommand; a token value never reaches the log.
func runName(args []string) string {
	if args[0] == "palette" && len(args) > 1 {
		return "palette " + args[1]
	}
	return args[0]
}

func run(cfg *config.Config, args []string) error {
	switch args[0] {
	case "list":
		return term.ListTerms(os.Stdout)
	case "test":
		return runTest(cfg, args[1:])
	case "palette":
		return runPalette(cfg, args[1:])
	case "token":
		if len(args) < 2 {
			return errors.New("token requires a value")
		}
		return publish.SetToken(args[1])
	case "help", "-h", "--help":
		printUsage()
		return nil
	}
	return fmt.Errorf("%w %q", errUsage, args[0])
}

// newSession returns a session writing to stdout with the configured
// palette
func newSession(cfg *config.Config) (*term.Session, error) {
	s := term.NewSession(nil, os.Stdout)
	s.Interactive = true
	s.DefaultTerminal = fallbackTerminal
	if err := cfg.ApplyPalette(s.Palette); err != nil {
		return nil, err
	}
	return s, nil
}

// runTest draws the test page: test [-t term] [-o output] [terminal options...]
func runTest(cfg *config.Config, args []string) error {
	name, output := cfg.Terminal.Name, cfg.Terminal.Output
	options := cfg.Terminal.Options
	var extra []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-t":
			if i+1 >= len(args) {
				return errors.New("-t requires a terminal name")
			}
			i++
			if args[i] != name {
				options = nil
			}
			name = args[i]
		case "-o":
			if i+1 >= len(args) {
				return errors.New("-o requires an output")
			}
			i++
			output = args[i]
		default:
			extra = append(extra, args[i])
		}
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	if name == "" {
		s.InitTerminal()
		if len(extra) > 0 {
			if err := s.SetTerm(s.Term().Name, extra...); err != nil {
				return err
			}
		}
	} else if err := s.SetTerm(name, append(slices.Clone(options), extra...)...); err != nil {
		return err
	}

	if output != "" {
		if strings.HasPrefix(output, publish.Scheme+":") {
			p, err := publish.Connect(cfg.Discord.ChannelID)
			if err != nil {
				return err
			}
			p.Register(s)
		}
		if err := s.SetOutput(output); err != nil {
			return err
		}
	}

	err = s.TestTerm()
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.PaletteDB
	if path == "" {
		path = store.DefaultPath()
	}
	return store.Open(path)
}

// runPalette handles palette show|export|save <name>|load <name>|delete <name>|list
func runPalette(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("palette requires show, export, save, load, delete or list")
	}

	p := palette.Default()
	if err := cfg.ApplyPalette(p); err != nil {
		return err
	}

	needName := func() (string, error) {
		if len(args) < 2 || args[1] == "" {
			return "", fmt.Errorf("palette %s requires a name", args[0])
		}
		return args[1], nil
	}

	switch args[0] {
	case "show":
		return p.WriteSettings(os.Stdout)
	case "export":
		return postscript.WritePalette(os.Stdout, p)
	case "save", "load", "delete", "list":
	default:
		return fmt.Errorf("unknown palette command %q", args[0])
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[0] {
	case "save":
		name, err := needName()
		if err != nil {
			return err
		}
		if err := db.Save(name, p); err != nil {
			return err
		}
		fmt.Printf("Saved palette %q\n", name)
	case "load":
		name, err := needName()
		if err != nil {
			return err
		}
		loaded, err := db.Load(name)
		if err != nil {
			return err
		}
		cfg.SetPalette(loaded)
		path := config.DefaultConfigPath()
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("Palette %q is now the startup palette in %s\n", name, path)
		return loaded.WriteSettings(os.Stdout)
	case "delete":
		name, err := needName()
		if err != nil {
			return err
		}
		return db.Delete(name)
	case "list":
		entries, err := db.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%-20s %-12s %-4s %s\n", e.Name, e.Mode, e.Model, e.Saved.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// runWindow shows the test page in a window until it is closed. finish
// is called with the outcome before the process exits.
func runWindow(cfg *config.Config, finish func(error)) {
	fail := func(err error) {
		finish(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s, err := newSession(cfg)
	if err != nil {
		fail(err)
	}
	if err := s.SetTerm(string(render.FormatWindow)); err != nil {
		fail(err)
	}
	if err := s.TestTerm(); err != nil {
		fail(err)
	}

	go func() {
		err := render.RunWindow("plotterm", render.WindowSurface())
		s.Close()
		finish(err)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Window closed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	// Run Gio event loop
	app.Main()
}

func printUsage() {
	fmt.Println(`plotterm - plotting terminals and palettes

Usage:
  plotterm list                              List the available terminals
  plotterm test [-t term] [-o output] [opts] Draw the terminal test page
  plotterm palette show|export               Show the palette, or export it as PostScript
  plotterm palette save|delete <name>        Store or delete the current palette
  plotterm palette load <name>               Make a stored palette the startup palette
  plotterm palette list                      List stored palettes
  plotterm token <value>                     Store the Discord bot token
  plotterm window                            Show the test page in a window

Examples:
  plotterm test -t block braille ansirgb
  plotterm test -t png -o plot.png
  plotterm test -t postscript -o discord:`)
}
