package viewer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/manifest"
)

// KeyMode selects how pages are identified in links and URLs.
type KeyMode string

const (
	// KeyIndex identifies a page by its manifest index and deep-links it as
	// #p=<index>.
	KeyIndex KeyMode = "index"
	// KeyPath identifies a page by its manifest path. There is no fragment.
	KeyPath KeyMode = "path"
)

// ParseKeyMode validates a configured key mode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(s) {
	case KeyIndex, KeyPath:
		return KeyMode(s), nil
	}
	return "", fmt.Errorf("invalid key mode %q: must be index or path", s)
}

// Param is the query parameter carrying a key.
func (k KeyMode) Param() string {
	if k == KeyPath {
		return "path"
	}
	return "p"
}

// Key returns the key for a manifest entry.
func (k KeyMode) Key(index int, path string) string {
	if k == KeyPath {
		return path
	}
	return strconv.Itoa(index)
}

// Href is the link target requesting key.
func (k KeyMode) Href(key string) string {
	return "/?" + url.Values{k.Param(): {key}}.Encode()
}

// Fragment is the URL fragment recorded after a successful render.
func (k KeyMode) Fragment(page loader.Page) string {
	if k == KeyPath {
		return ""
	}
	return "p=" + strconv.Itoa(page.Index)
}

// Resolve maps a key back to a manifest page.
func (k KeyMode) Resolve(m *manifest.Manifest, key string) (loader.Page, bool) {
	var index int
	if k == KeyPath {
		i, ok := m.IndexOf(key)
		if !ok {
			return loader.Page{}, false
		}
		index = i
	} else {
		i, err := strconv.Atoi(key)
		if err != nil {
			return loader.Page{}, false
		}
		index = i
	}
	path, ok := m.At(index)
	if !ok {
		return loader.Page{}, false
	}
	return loader.Page{Index: index, Path: path, Key: k.Key(index, path)}, true
}

// InitialKey picks the first page to show. In index mode raw is parsed as
// an index and falls back to 0; in path mode a known path is used, otherwise
// the first manifest entry. ok is false only for an empty manifest.
func (k KeyMode) InitialKey(m *manifest.Manifest, raw string) (string, bool) {
	if m.Len() == 0 {
		return "", false
	}
	if p, ok := k.Resolve(m, raw); ok {
		return p.Key, true
	}
	first, _ := m.At(0)
	return k.Key(0, first), true
}

// FragmentValue extracts the value of a "#p=<n>" style fragment: everything
// after the first '='. It returns "" when there is none.
func FragmentValue(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	_, v, ok := strings.Cut(fragment, "=")
	if !ok {
		return ""
	}
	v, _, _ = strings.Cut(v, "=")
	return v
}
