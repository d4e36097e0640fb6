package theme

import (
	"net/http"
	"time"
)

// CookieStore keeps the preference in a long-lived browser cookie.
type CookieStore struct {
	r *http.Request
	w http.ResponseWriter
}

// NewCookieStore binds a store to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w}
}

func (s *CookieStore) Get() (string, bool) {
	c, err := s.r.Cookie(Key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Set(value string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     Key,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// HintHeader is the client hint carrying the OS color-scheme preference.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// RequestPreference reads the color-scheme client hint of r.
func RequestPreference(r *http.Request) Preference {
	return func() (bool, bool) {
		v := r.Header.Get(HintHeader)
		if v == "" {
			return false, false
		}
		return v == "dark" || v == `"dark"`, true
	}
}
