package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/theme"
	"github.com/dgallion1/mdview/internal/viewer"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "mdview-session"

// viewResponse is a session view plus the request's theme.
type viewResponse struct {
	viewer.View
	Theme string `json:"theme"`
}

// session returns the caller's session, starting a new one when the cookie
// is missing or the session has expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *viewer.Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}
	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// navigate applies the key parameter of r to sess. A session that has not
// shown a page yet opens the initial page instead.
func (s *Server) navigate(r *http.Request, sess *viewer.Session) (viewer.View, int) {
	keys := s.sessions.Viewer().Keys()
	raw := r.URL.Query().Get(keys.Param())

	if sess.View().State == loader.StateIdle {
		view, err := sess.Open(r.Context(), raw)
		if err != nil && !errors.Is(err, viewer.ErrSuperseded) {
			return view, http.StatusNotFound
		}
		return view, http.StatusOK
	}
	if raw == "" {
		return sess.View(), http.StatusOK
	}

	view, err := sess.Navigate(r.Context(), raw)
	switch {
	case errors.Is(err, viewer.ErrUnknownPage):
		return view, http.StatusNotFound
	case errors.Is(err, viewer.ErrSuperseded):
		s.log.Debug("stale navigation dropped", "session", sess.ID, "key", raw)
	}
	return view, http.StatusOK
}

func (s *Server) themeManager(w http.ResponseWriter, r *http.Request) *theme.Manager {
	w.Header().Set("Accept-CH", theme.HintHeader)
	w.Header().Add("Vary", theme.HintHeader)
	return theme.NewManager(theme.NewCookieStore(w, r), theme.RequestPreference(r))
}

// handlePage renders the viewer page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	mode := s.themeManager(w, r).Mode()
	view, status := s.navigate(r, sess)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, pageData{
		View:  view,
		Theme: mode.Attr(),
		Param: s.sessions.Viewer().Keys().Param(),
	}); err != nil {
		s.log.Error("render page", "error", err)
	}
}

// handleView returns the session view as JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	mode := s.themeManager(w, r).Mode()
	view, status := s.navigate(r, sess)
	if status == http.StatusNotFound {
		jsonError(w, "unknown page", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewResponse{View: view, Theme: mode.Attr()})
}

// handleToggleTheme flips the persisted theme and returns to the page.
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	mgr := s.themeManager(w, r)
	mode, err := mgr.Toggle()
	if err != nil {
		jsonError(w, "failed to toggle theme: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Debug("theme toggled", "theme", string(mode))
	http.Redirect(w, r, s.backURL(s.session(w, r)), http.StatusSeeOther)
}

// handleToggleAsides shows or hides the side panels of the session.
func (s *Server) handleToggleAsides(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.ToggleAsides()
	http.Redirect(w, r, s.backURL(sess), http.StatusSeeOther)
}

// handleManifest serves the filtered, sorted manifest.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sessions.Viewer().Manifest())
}

// handleStyles serves the page stylesheet followed by the code
// highlighting classes for both themes.
func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if _, err := w.Write([]byte(baseStyles)); err != nil {
		return
	}
	if err := s.md.WriteStyles(w); err != nil {
		s.log.Error("write highlight styles", "error", err)
	}
}

// backURL is the page link of the session's current page.
func (s *Server) backURL(sess *viewer.Session) string {
	key := sess.View().Key
	if key == "" {
		return "/"
	}
	return s.sessions.Viewer().Keys().Href(key)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
