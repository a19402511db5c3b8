package term

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Entry describes a terminal: its name, device metrics and capability
// flags, plus the driver that draws it. Options may adjust the metrics.
type Entry struct {
	Name        string
	Description string

	XMax, YMax   int
	VChar, HChar int
	VTic, HTic   int

	Flags  Flags
	TScale float64

	Driver Driver
}

// Has reports whether all of f are set on the entry
func (e *Entry) Has(f Flags) bool {
	return e.Flags&f == f
}

// Registry is the table of available terminals, in registration order
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewRegistry returns a registry holding only the unknown terminal
func NewRegistry() *Registry {
	r := &Registry{}
	r.entries = append(r.entries, unknownEntry())
	return r
}

// Register adds e to the registry. A later entry with the same name
// replaces the earlier one.
func (r *Registry) Register(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, old := range r.entries {
		if old.Name == e.Name {
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
}

// Entries returns the registered terminals in registration order
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup finds the terminal whose name starts with name. An exact match
// wins outright; two or more prefix matches without one are ambiguous.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	if name == "" {
		return nil, false
	}
	var found *Entry
	ambiguous := false
	for _, e := range r.Entries() {
		if !strings.HasPrefix(e.Name, name) {
			continue
		}
		if e.Name == name {
			return e, true
		}
		if found != nil {
			ambiguous = true
		}
		found = e
	}
	if ambiguous || found == nil {
		return nil, false
	}
	return found, true
}

// Names returns the terminal names sorted without regard to case
func (r *Registry) Names() []string {
	entries := r.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// List writes the terminal table shown by "set terminal"
func (r *Registry) List(w io.Writer) error {
	entries := r.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	if _, err := fmt.Fprint(w, "\nAvailable terminal types:\n"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "  %15s  %s\n", e.Name, e.Description); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry driver packages add themselves to
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds e to the default registry
func Register(e *Entry) {
	defaultRegistry.Register(e)
}

// TerminalNames returns the sorted names in the default registry
func TerminalNames() []string {
	return defaultRegistry.Names()
}

// ListTerms writes the default registry's terminal table to w
func ListTerms(w io.Writer) error {
	return defaultRegistry.List(w)
}
