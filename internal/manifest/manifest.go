package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Ext is the only document extension the viewer lists.
const Ext = ".md"

// PathParts is the grouping view of a manifest path.
type PathParts struct {
	Page          string
	Section       string
	Subsection    string
	HasSubsection bool
}

// Split decomposes a manifest path into page, section and subsection.
// Segment 0 is the root marker, segment 1 the section. A subsection is only
// reported when the path has more than three segments. Missing segments are
// left empty; Split never fails.
func Split(path string) PathParts {
	segs := strings.Split(path, "/")
	parts := PathParts{
		Page: strings.TrimSuffix(segs[len(segs)-1], Ext),
	}
	if len(segs) > 1 {
		parts.Section = segs[1]
	}
	if len(segs) > 3 {
		parts.Subsection = segs[2]
		parts.HasSubsection = true
	}
	return parts
}

// Label renders the parts as "section/subsection/page", omitting an absent
// subsection.
func (p PathParts) Label() string {
	if p.HasSubsection {
		return p.Section + "/" + p.Subsection + "/" + p.Page
	}
	return p.Section + "/" + p.Page
}

// Manifest is the sorted list of markdown paths the viewer may display.
// It is immutable once built.
type Manifest struct {
	paths []string
}

// New keeps the entries ending in .md and sorts them.
func New(paths []string) *Manifest {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.HasSuffix(p, Ext) {
			kept = append(kept, p)
		}
	}
	sort.Strings(kept)
	return &Manifest{paths: kept}
}

// Parse decodes an items.json document (a JSON array of paths).
func Parse(data []byte) (*Manifest, error) {
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return New(paths), nil
}

// Len returns the number of pages.
func (m *Manifest) Len() int {
	return len(m.paths)
}

// At returns the path at index i.
func (m *Manifest) At(i int) (string, bool) {
	if i < 0 || i >= len(m.paths) {
		return "", false
	}
	return m.paths[i], true
}

// IndexOf finds the index of path.
func (m *Manifest) IndexOf(path string) (int, bool) {
	i := sort.SearchStrings(m.paths, path)
	if i < len(m.paths) && m.paths[i] == path {
		return i, true
	}
	return 0, false
}

// Paths returns a copy of the sorted paths.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

func (m *Manifest) MarshalJSON() ([]byte, error) {
	if m.paths == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.paths)
}
