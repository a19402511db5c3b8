package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixed = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("Unmarshal(%q) error = %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	return events
}

func TestStreamLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *Logger)
		want Event
	}{
		{"info", func(l *Logger) { l.Info("term", "Terminal type set to '%s'", "png") },
			Event{Type: EventInfo, Source: "term", Data: "Terminal type set to 'png'"}},
		{"warn", func(l *Logger) { l.Warn("term", "enhanced text parser - spurious %s", "}") },
			Event{Type: EventWarn, Source: "term", Data: "enhanced text parser - spurious }"}},
		{"error", func(l *Logger) { l.Error("palette", "Unknown colorMode '%c'", 'z') },
			Event{Type: EventError, Source: "palette", Data: "Unknown colorMode 'z'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf)
			l.now = func() time.Time { return fixed }
			tt.log(l)

			var got Event
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !got.Timestamp.Equal(fixed) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, fixed)
			}
			got.Timestamp = time.Time{}
			if got != tt.want {
				t.Errorf("event = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStreamRunTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Start("test")
	l.Warn("term", "scale warning")
	l.End("test", errors.New("no terminal"))
	l.Info("term", "after")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	want := []Event{
		{Type: EventStart, Source: "test", Run: "test"},
		{Type: EventWarn, Source: "term", Run: "test", Data: "scale warning"},
		{Type: EventEnd, Source: "test", Run: "test", Data: "no terminal"},
		{Type: EventInfo, Source: "term", Data: "after"},
	}
	for i, line := range lines {
		var got Event
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		got.Timestamp = time.Time{}
		if got != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir)
	l.now = func() time.Time { return fixed }

	if err := l.Start("palette save"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	l.Info("store", "saved %q", "ocean")
	if err := l.End("palette save", nil); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if l.file != nil {
		t.Error("End() left the run file open")
	}

	path := filepath.Join(dir, "2026", "03", "20260314-150926-palette_save.jsonl")
	events := readEvents(t, path)
	wantTypes := []EventType{EventStart, EventInfo, EventEnd}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d", len(events), len(wantTypes))
	}
	for i, typ := range wantTypes {
		if events[i].Type != typ || events[i].Run != "palette save" {
			t.Errorf("events[%d] = %+v, want %s in run %q", i, events[i], typ, "palette save")
		}
	}
}

func TestEventsOutsideRun(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir)
	l.now = func() time.Time { return fixed }
	defer l.Close()

	l.Warn("term", "stray")
	l.Start("list")
	l.End("list", nil)

	stray := filepath.Join(dir, "2026", "03", "20260314-150926-plotterm.jsonl")
	if events := readEvents(t, stray); len(events) != 1 || events[0].Data != "stray" {
		t.Errorf("stray events = %+v, want the one warning", events)
	}
	run := filepath.Join(dir, "2026", "03", "20260314-150926-list.jsonl")
	if events := readEvents(t, run); len(events) != 2 {
		t.Errorf("run events = %+v, want start and end", events)
	}
}

func TestRunFileError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	os.WriteFile(blocker, nil, 0644)

	l := NewLogger(blocker)
	if err := l.Start("test"); err == nil {
		t.Error("Start() under a regular file succeeded")
	}
}

func TestFileSafe(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"test", "test"},
		{"palette save", "palette_save"},
		{"../etc", "etc"},
		{"ünï", "n"},
		{"", "plotterm"},
		{"///", "plotterm"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := fileSafe(tt.input); got != tt.want {
				t.Errorf("fileSafe(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := SetDefault(New(&buf))
	defer SetDefault(prev)

	Default().Warn("term", "scale interface is not null_scale")
	if !strings.Contains(buf.String(), `"type":"warn"`) {
		t.Errorf("default logger output = %q, want a warn event", buf.String())
	}
}
