package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	xterm "golang.org/x/term"
)

// SinkOpener opens a writer for a sink destination such as the channel in
// "discord:<channel>". Closing the writer delivers what was written.
type SinkOpener func(target string) (io.WriteCloser, error)

type output struct {
	stdout       io.Writer
	out          *bufio.Writer
	closer       io.Closer
	path         string
	openedBinary bool
	pipe         *exec.Cmd
	sinks        map[string]SinkOpener
}

func (o *output) init(stdout io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	o.stdout = stdout
	o.out = bufio.NewWriter(stdout)
	o.sinks = make(map[string]SinkOpener)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// RegisterSink makes "scheme:target" output destinations open through fn
func (s *Session) RegisterSink(scheme string, fn SinkOpener) {
	s.sinks[scheme] = fn
}

// Output returns the writer the current terminal draws to
func (s *Session) Output() io.Writer {
	return s.out
}

// OutputPath returns the output destination, or "" for stdout
func (s *Session) OutputPath() string {
	return s.path
}

// Flush writes any buffered output
func (s *Session) Flush() error {
	return s.out.Flush()
}

// redirected reports whether output goes somewhere other than a screen
func (s *Session) redirected() bool {
	if s.path != "" {
		return true
	}
	return !s.ttyCheck(s.stdout)
}

// SetOutput sends output to dest: "" for stdout, "|cmd" for a pipe into
// a shell command, "scheme:target" for a registered sink, anything else
// for a file. The current terminal is reset first. Output cannot change
// inside a multiplot.
func (s *Session) SetOutput(dest string) error {
	if s.multiplot {
		return ErrOutputInMultiplot
	}
	return s.setOutput(dest)
}

func (s *Session) setOutput(dest string) error {
	if s.term != nil {
		s.Reset()
	}
	if dest == "" {
		return s.closeOutput()
	}

	// Pending bytes go out before dest is opened, which may truncate the
	// file they belong to.
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("flush %s; output not changed: %w", s.describeOutput(), err)
	}
	w, cmd, err := s.open(dest)
	if err != nil {
		return err
	}

	if old := s.path; old != "" {
		if err := s.closeOutput(); err != nil {
			s.log.Warn(logSession, "closing %s: %v", old, err)
		}
	}
	s.out = bufio.NewWriter(w)
	s.closer = w
	s.pipe = cmd
	s.path = dest
	s.openedBinary = s.term != nil && s.term.Has(Binary)
	s.syncEnv()
	return nil
}

func (s *Session) open(dest string) (io.WriteCloser, *exec.Cmd, error) {
	if cmdline, ok := strings.CutPrefix(dest, "|"); ok {
		cmd := exec.Command("sh", "-c", cmdline)
		cmd.Stdout = s.stdout
		cmd.Stderr = os.Stderr
		w, err := cmd.StdinPipe()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create pipe; output not changed: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, nil, fmt.Errorf("cannot create pipe; output not changed: %w", err)
		}
		return w, cmd, nil
	}

	if scheme, target, ok := strings.Cut(dest, ":"); ok {
		if fn, ok := s.sinks[scheme]; ok {
			w, err := fn(target)
			if err != nil {
				return nil, nil, fmt.Errorf("cannot open %s output; output not changed: %w", scheme, err)
			}
			return w, nil, nil
		}
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open file; output not changed: %w", err)
	}
	return f, nil, nil
}

func (s *Session) describeOutput() string {
	if s.path == "" {
		return "stdout"
	}
	return s.path
}

// closeOutput flushes and closes the current destination and goes back
// to stdout
func (s *Session) closeOutput() error {
	s.openedBinary = false
	if s.path == "" {
		return nil
	}

	err := s.out.Flush()
	if cerr := s.closer.Close(); err == nil {
		err = cerr
	}
	if s.pipe != nil {
		if werr := s.pipe.Wait(); err == nil {
			err = werr
		}
		s.pipe = nil
	}

	s.out = bufio.NewWriter(s.stdout)
	s.closer = nil
	s.path = ""
	s.syncEnv()
	return err
}

// Close resets the terminal and closes any output it was writing to
func (s *Session) Close() error {
	s.multiplot = false
	err := s.Reset()
	if cerr := s.closeOutput(); err == nil {
		err = cerr
	}
	if ferr := s.Flush(); err == nil {
		err = ferr
	}
	return err
}
