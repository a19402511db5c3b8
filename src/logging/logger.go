// Package logging writes JSONL diagnostics. Components tag each event
// with their source ("term", "palette", "publish"); a run groups the
// events of one command.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EventType represents the type of log event
type EventType string

const (
	EventInfo  EventType = "info"
	EventWarn  EventType = "warn"
	EventError EventType = "error"
	EventStart EventType = "start"
	EventEnd   EventType = "end"
)

// defaultRun names the file for events logged outside Start/End
const defaultRun = "plotterm"

// Event is one line of the log
type Event struct {
	Timestamp time.Time `json:"ts"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Run       string    `json:"run,omitempty"`
	Data      string    `json:"data,omitempty"`
}

// Logger writes events either to a single stream or, when built with
// NewLogger, to one file per run under dir/YYYY/MM/.
type Logger struct {
	dir    string
	stream io.Writer
	run    string
	file   *os.File
	now    func() time.Time
	mu     sync.Mutex
}

// NewLogger returns a logger keeping dated run files under dir
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

// New returns a logger writing every event to w
func New(w io.Writer) *Logger {
	return &Logger{stream: w, now: time.Now}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(os.Stderr)
)

// Default returns the process-wide logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger and returns the previous one
func SetDefault(l *Logger) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}

// Start begins run. A file logger closes the previous run's file and
// opens a new one named after run.
func (l *Logger) Start(run string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.closeFile(); err != nil {
		return err
	}
	l.run = run
	return l.write(Event{Type: EventStart, Source: run})
}

// End logs the outcome of run and closes its file
func (l *Logger) End(run string, result error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := Event{Type: EventEnd, Source: run}
	if result != nil {
		ev.Data = result.Error()
	}
	err := l.write(ev)
	if cerr := l.closeFile(); err == nil {
		err = cerr
	}
	l.run = ""
	return err
}

// Log writes one event from source
func (l *Logger) Log(source string, eventType EventType, data string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.write(Event{Type: eventType, Source: source, Data: data})
}

// Info logs an informational message
func (l *Logger) Info(source, format string, args ...any) {
	l.Log(source, EventInfo, fmt.Sprintf(format, args...))
}

// Warn logs a recoverable problem
func (l *Logger) Warn(source, format string, args ...any) {
	l.Log(source, EventWarn, fmt.Sprintf(format, args...))
}

// Error logs a failed operation
func (l *Logger) Error(source, format string, args ...any) {
	l.Log(source, EventError, fmt.Sprintf(format, args...))
}

// Close closes the current run file, if any
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFile()
}

func (l *Logger) write(ev Event) error {
	ev.Timestamp = l.now().UTC()
	ev.Run = l.run
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	w := l.stream
	if w == nil {
		if w, err = l.runFile(); err != nil {
			return err
		}
	}
	_, err = w.Write(append(line, '\n'))
	return err
}

// runFile returns the open run file, creating dir/YYYY/MM/YYYYMMDD-HHMMSS-run.jsonl
func (l *Logger) runFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}

	now := l.now()
	dir := filepath.Join(l.dir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	run := l.run
	if run == "" {
		run = defaultRun
	}
	name := fmt.Sprintf("%s-%s.jsonl", now.Format("20060102-150405"), fileSafe(run))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	l.file = f
	return f, nil
}

func (l *Logger) closeFile() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// fileSafe keeps letters, digits, '-' and '_'; spaces become '_'
func fileSafe(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if safe == "" {
		return defaultRun
	}
	return safe
}
