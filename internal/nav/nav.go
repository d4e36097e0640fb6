// Package nav builds the grouped navigation list shown in the sidebar.
package nav

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/mdview/internal/manifest"
)

// Kind distinguishes navigation entries.
type Kind int

const (
	KindSection Kind = iota
	KindSubsection
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindSubsection:
		return "subsection"
	case KindLeaf:
		return "leaf"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Entry is one line of the navigation list.
type Entry struct {
	Kind  Kind
	Label string

	// Leaf only.
	Index int
	Path  string
	Key   string
	Sub   bool
}

// KeyFunc maps a manifest entry to the opaque key used to request it.
type KeyFunc func(index int, path string) string

// Build scans the manifest once, comparing every entry with the one right
// before it. A section header is emitted whenever the section changes and a
// subsection header whenever a present subsection differs from the previous
// entry's (or the section changed underneath it). Every page yields a leaf.
func Build(m *manifest.Manifest, key KeyFunc) []Entry {
	var entries []Entry
	var prev manifest.PathParts

	for i := 0; i < m.Len(); i++ {
		path, _ := m.At(i)
		parts := manifest.Split(path)

		sectionChanged := parts.Section != prev.Section
		if sectionChanged {
			entries = append(entries, Entry{
				Kind:  KindSection,
				Label: strings.TrimSuffix(parts.Section, manifest.Ext),
			})
		}
		hasSub := parts.Subsection != ""
		if hasSub && (sectionChanged || parts.Subsection != prev.Subsection) {
			entries = append(entries, Entry{
				Kind:  KindSubsection,
				Label: parts.Subsection,
			})
		}

		entries = append(entries, Entry{
			Kind:  KindLeaf,
			Label: parts.Page,
			Index: i,
			Path:  path,
			Key:   key(i, path),
			Sub:   hasSub,
		})
		prev = parts
	}
	return entries
}

// Render writes the entries as <li> items. href builds the link target for a
// leaf key; the leaf whose key equals active is marked.
func Render(entries []Entry, href func(key string) string, active string) string {
	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case KindSection:
			fmt.Fprintf(&b, `<li class="section">%s</li>`, html.EscapeString(e.Label))
		case KindSubsection:
			fmt.Fprintf(&b, `<li class="subsection">• %s</li>`, html.EscapeString(e.Label))
		case KindLeaf:
			classes := make([]string, 0, 2)
			if e.Sub {
				classes = append(classes, "sub")
			}
			if e.Key == active {
				classes = append(classes, "active")
			}
			fmt.Fprintf(&b, `<li><a href="%s" data-key="%s" class="%s">• %s</a></li>`,
				html.EscapeString(href(e.Key)),
				html.EscapeString(e.Key),
				strings.Join(classes, " "),
				html.EscapeString(e.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
