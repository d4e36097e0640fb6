// Package viewer holds the viewer state: the read-only manifest shared by
// every session, and per-session navigation state rendered into a View.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/manifest"
	"github.com/dgallion1/mdview/internal/nav"
	"github.com/dgallion1/mdview/internal/source"
)

var (
	// ErrUnknownPage is returned for a key that names no manifest entry.
	ErrUnknownPage = errors.New("unknown page")
	// ErrSuperseded is returned by a navigation whose result was discarded
	// because a newer navigation started on the same session.
	ErrSuperseded = errors.New("navigation superseded")
)

// Options configures a Viewer.
type Options struct {
	Keys KeyMode
	// MarginLeft and MarginRight are the content margins restored when the
	// side panels are shown again. Empty leaves them to the stylesheet.
	MarginLeft  string
	MarginRight string
}

// Viewer is created once at startup. Everything it holds is read-only
// afterwards.
type Viewer struct {
	manifest *manifest.Manifest
	entries  []nav.Entry
	loader   *loader.Loader
	opts     Options
	log      *slog.Logger
}

// New builds a Viewer over an already loaded manifest.
func New(m *manifest.Manifest, l *loader.Loader, opts Options, log *slog.Logger) *Viewer {
	if opts.Keys == "" {
		opts.Keys = KeyIndex
	}
	return &Viewer{
		manifest: m,
		entries:  nav.Build(m, opts.Keys.Key),
		loader:   l,
		opts:     opts,
		log:      log,
	}
}

// Bootstrap fetches and parses the manifest from src and builds the Viewer.
func Bootstrap(ctx context.Context, src source.Source, l *loader.Loader, opts Options, log *slog.Logger) (*Viewer, error) {
	data, err := src.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	log.Info("manifest loaded", "pages", m.Len(), "keys", string(opts.Keys))
	return New(m, l, opts, log), nil
}

// Manifest returns the shared manifest.
func (v *Viewer) Manifest() *manifest.Manifest {
	return v.manifest
}

// Keys returns the page key scheme.
func (v *Viewer) Keys() KeyMode {
	return v.opts.Keys
}

// Navigation renders the sidebar with active marked.
func (v *Viewer) Navigation(active string) string {
	return nav.Render(v.entries, v.opts.Keys.Href, active)
}

// LoadKey renders the page named by key without any session state.
func (v *Viewer) LoadKey(ctx context.Context, key string) (loader.Result, error) {
	page, ok := v.opts.Keys.Resolve(v.manifest, key)
	if !ok {
		return loader.Result{}, fmt.Errorf("%w: %q", ErrUnknownPage, key)
	}
	return v.loader.Load(ctx, page), nil
}
