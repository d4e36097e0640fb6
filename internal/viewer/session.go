package viewer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/outline"
)

// View is the render model of a session: everything the page template
// needs, computed from state.
type View struct {
	State    loader.State      `json:"state"`
	Title    string            `json:"title"`
	Key      string            `json:"key"`
	Fragment string            `json:"fragment,omitempty"`
	Nav      string            `json:"navigation"`
	Content  string            `json:"content"`
	Headings string            `json:"headings"`
	Outline  []outline.Heading `json:"outline"`

	AsidesHidden bool   `json:"asides_hidden"`
	ContentStyle string `json:"content_style,omitempty"`
}

// Session is one browser's viewer state. Navigations are numbered; only the
// result of the newest one is applied.
type Session struct {
	ID string

	viewer *Viewer

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	view      View
	updatedAt time.Time
}

func newSession(id string, v *Viewer) *Session {
	s := &Session{
		ID:        id,
		viewer:    v,
		updatedAt: time.Now(),
	}
	s.view = View{
		State:   loader.StateIdle,
		Nav:     v.Navigation(""),
		Outline: []outline.Heading{},
	}
	s.view.ContentStyle = s.contentStyle()
	return s
}

// NewSession creates a detached session, for callers that manage their own
// session lifetime.
func (v *Viewer) NewSession(id string) *Session {
	return newSession(id, v)
}

// View returns a copy of the current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Open shows the initial page for raw, the value of the key parameter or
// fragment (may be empty).
func (s *Session) Open(ctx context.Context, raw string) (View, error) {
	key, ok := s.viewer.opts.Keys.InitialKey(s.viewer.manifest, raw)
	if !ok {
		return s.View(), fmt.Errorf("%w: manifest is empty", ErrUnknownPage)
	}
	return s.Navigate(ctx, key)
}

// Navigate loads the page named by key. If another navigation starts before
// this one completes, this one's fetch is cancelled, its result discarded
// and ErrSuperseded returned alongside the current view.
func (s *Session) Navigate(ctx context.Context, key string) (View, error) {
	page, ok := s.viewer.opts.Keys.Resolve(s.viewer.manifest, key)
	if !ok {
		return s.View(), fmt.Errorf("%w: %q", ErrUnknownPage, key)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.view.State = loader.StateFetching
	s.updatedAt = time.Now()
	s.mu.Unlock()

	res := s.viewer.loader.Load(ctx, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		cancel()
		s.viewer.log.Debug("navigation superseded", "session", s.ID, "key", key)
		return s.snapshot(), ErrSuperseded
	}
	cancel()
	s.cancel = nil
	s.apply(res)
	return s.snapshot(), nil
}

// ToggleAsides shows or hides the side panels.
func (s *Session) ToggleAsides() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.AsidesHidden = !s.view.AsidesHidden
	s.view.ContentStyle = s.contentStyle()
	s.updatedAt = time.Now()
	return s.snapshot()
}

// apply folds a finished load into the view. Failed loads replace the
// content and clear the outline but keep the title, key and fragment of the
// last rendered page.
func (s *Session) apply(res loader.Result) {
	s.view.State = res.State
	s.view.Content = res.Content
	s.view.Outline = res.Headings
	s.view.Headings = outline.Render(res.Headings)
	if res.State != loader.StateRendered {
		return
	}
	s.view.Title = res.Title
	s.view.Key = res.Page.Key
	s.view.Fragment = s.viewer.opts.Keys.Fragment(res.Page)
	s.view.Nav = s.viewer.Navigation(res.Page.Key)
}

func (s *Session) contentStyle() string {
	if s.view.AsidesHidden {
		return "margin-left:0px;margin-right:0px"
	}
	var style string
	if s.viewer.opts.MarginLeft != "" {
		style += "margin-left:" + s.viewer.opts.MarginLeft + ";"
	}
	if s.viewer.opts.MarginRight != "" {
		style += "margin-right:" + s.viewer.opts.MarginRight + ";"
	}
	return style
}

func (s *Session) snapshot() View {
	v := s.view
	v.Outline = append([]outline.Heading(nil), s.view.Outline...)
	if v.Outline == nil {
		v.Outline = []outline.Heading{}
	}
	return v
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
