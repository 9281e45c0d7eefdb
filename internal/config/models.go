package config

import (
	"sort"
	"time"
)

// Registry is the entire user configuration file
type Registry struct {
	Version     int                   `yaml:"version"`
	Processors  map[string]*Processor `yaml:"processors,omitempty"` // keyed by user-chosen name
	Preferences *Preferences          `yaml:"preferences,omitempty"`
}

// Processor is a saved device entry. Endpoint is a serial device path
// or host[:port]; Model selects command capabilities (mp50 or mp60).
type Processor struct {
	Endpoint string    `yaml:"endpoint"`
	Model    string    `yaml:"model"`
	Nickname string    `yaml:"nickname,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`

	// Serial overrides for RS-232 endpoints; zero values use the
	// model defaults (115200 8N1)
	BaudRate int    `yaml:"baud_rate,omitempty"`
	Parity   string `yaml:"parity,omitempty"`
}

// Preferences holds application-wide settings
type Preferences struct {
	DefaultProcessor string `yaml:"default_processor,omitempty"`
	DiscoverTimeout  int    `yaml:"discover_timeout"` // seconds
	AutoDiscover     bool   `yaml:"auto_discover"`
}

// NewRegistry creates a registry with default values
func NewRegistry() *Registry {
	return &Registry{
		Version:    1,
		Processors: make(map[string]*Processor),
		Preferences: &Preferences{
			DiscoverTimeout: 10,
			AutoDiscover:    true,
		},
	}
}

// Get retrieves a processor entry by name, nil if unknown
func (r *Registry) Get(name string) *Processor {
	return r.Processors[name]
}

// Set adds or replaces a processor entry
func (r *Registry) Set(name string, p *Processor) {
	if r.Processors == nil {
		r.Processors = make(map[string]*Processor)
	}
	r.Processors[name] = p
}

// Remove deletes a processor entry. It reports whether the entry
// existed and clears the default if it pointed at the removed entry.
func (r *Registry) Remove(name string) bool {
	if _, ok := r.Processors[name]; !ok {
		return false
	}
	delete(r.Processors, name)
	if r.Preferences != nil && r.Preferences.DefaultProcessor == name {
		r.Preferences.DefaultProcessor = ""
	}
	return true
}

// Names returns the saved processor names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Processors))
	for name := range r.Processors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default resolves the processor to use when none is named on the
// command line: the configured default, or the only saved entry.
func (r *Registry) Default() (string, *Processor) {
	if r.Preferences != nil && r.Preferences.DefaultProcessor != "" {
		if p := r.Processors[r.Preferences.DefaultProcessor]; p != nil {
			return r.Preferences.DefaultProcessor, p
		}
	}
	if len(r.Processors) == 1 {
		for name, p := range r.Processors {
			return name, p
		}
	}
	return "", nil
}

// Touch updates the last seen timestamp for a processor
func (r *Registry) Touch(name string) {
	if p := r.Processors[name]; p != nil {
		p.LastSeen = time.Now()
	}
}
