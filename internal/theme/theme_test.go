package theme

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	value  string
	ok     bool
	setErr error
	sets   int
}

func (s *memStore) Get() (string, bool) { return s.value, s.ok }

func (s *memStore) Set(v string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.value, s.ok = v, true
	s.sets++
	return nil
}

func prefers(dark bool) Preference {
	return func() (bool, bool) { return dark, true }
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		store  *memStore
		prefer Preference
		want   Mode
	}{
		{"nothing stored, no host preference", &memStore{}, nil, Light},
		{"nothing stored, host prefers dark", &memStore{}, prefers(true), Dark},
		{"nothing stored, host prefers light", &memStore{}, prefers(false), Light},
		{"stored light beats host dark", &memStore{value: "light", ok: true}, prefers(true), Light},
		{"stored dark", &memStore{value: "dark", ok: true}, prefers(false), Dark},
		{"stored garbage is light", &memStore{value: "purple", ok: true}, prefers(true), Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewManager(tt.store, tt.prefer).Mode())
		})
	}
}

func TestToggle_PersistsImmediately(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, nil)

	mode, err := m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, mode)
	assert.Equal(t, Dark, m.Mode())
	assert.Equal(t, "dark", store.value)

	mode, err = m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, mode)
	assert.Equal(t, "light", store.value)
	assert.Equal(t, 2, store.sets)
}

func TestToggle_StoreFailureKeepsMode(t *testing.T) {
	m := NewManager(&memStore{setErr: errors.New("disk full")}, nil)

	_, err := m.Toggle()
	assert.Error(t, err)
	assert.Equal(t, Light, m.Mode())
}

func TestMode_Attr(t *testing.T) {
	assert.Equal(t, "dark", Dark.Attr())
	assert.Equal(t, "light", Light.Attr())
	assert.Equal(t, "light", Mode("").Attr())
}

func TestCookieStore(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s := NewCookieStore(w, r)

	_, ok := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Set("dark"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, Key, cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	v, ok := NewCookieStore(httptest.NewRecorder(), r2).Get()
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestRequestPreference(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := RequestPreference(r)()
	assert.False(t, ok)

	r.Header.Set(HintHeader, `"dark"`)
	dark, ok := RequestPreference(r)()
	assert.True(t, ok)
	assert.True(t, dark)

	r.Header.Set(HintHeader, "light")
	dark, ok = RequestPreference(r)()
	assert.True(t, ok)
	assert.False(t, dark)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "theme.yml")
	s := NewFileStore(path)

	_, ok := s.Get()
	assert.False(t, ok)

	m := NewManager(s, prefers(true))
	assert.Equal(t, Dark, m.Mode())

	_, err := m.Toggle()
	require.NoError(t, err)

	// A fresh manager sees the persisted light value over the host preference.
	assert.Equal(t, Light, NewManager(NewFileStore(path), prefers(true)).Mode())
}
