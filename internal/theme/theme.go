// Package theme resolves and persists the light/dark preference.
package theme

import (
	"fmt"
)

// Mode is the effective color scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Key is the name the preference is persisted under.
const Key = "dark-mode"

// Parse maps a stored value to a Mode: exactly "dark" is dark, anything
// else is light.
func Parse(v string) Mode {
	if v == string(Dark) {
		return Dark
	}
	return Light
}

// Toggled returns the opposite mode.
func (m Mode) Toggled() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Attr is the value for the root element's data-theme attribute.
func (m Mode) Attr() string {
	return string(Parse(string(m)))
}

// Store persists the single preference value.
type Store interface {
	// Get returns the stored value and whether one exists.
	Get() (string, bool)
	Set(value string) error
}

// Preference reports the host's dark color-scheme preference. ok is false
// when the host cannot be queried.
type Preference func() (dark bool, ok bool)

// NoPreference is a host that cannot report a preference.
func NoPreference() (bool, bool) { return false, false }

// Manager owns the current mode. It is not safe for concurrent use; each
// request or CLI invocation builds its own.
type Manager struct {
	store  Store
	prefer Preference
	mode   Mode
}

// NewManager resolves the effective mode from store and prefer.
func NewManager(store Store, prefer Preference) *Manager {
	if prefer == nil {
		prefer = NoPreference
	}
	m := &Manager{store: store, prefer: prefer}
	m.mode = m.Resolve()
	return m
}

// Resolve computes the mode: stored value first, then the host preference,
// then light.
func (m *Manager) Resolve() Mode {
	if v, ok := m.store.Get(); ok && v != "" {
		return Parse(v)
	}
	if dark, ok := m.prefer(); ok && dark {
		return Dark
	}
	return Light
}

// Mode returns the current mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Toggle flips the mode and persists it before returning.
func (m *Manager) Toggle() (Mode, error) {
	next := m.mode.Toggled()
	if err := m.store.Set(string(next)); err != nil {
		return m.mode, fmt.Errorf("persist theme: %w", err)
	}
	m.mode = next
	return next, nil
}
