// Package loader fetches a single document and renders it for display.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/mdview/internal/manifest"
	"github.com/dgallion1/mdview/internal/markdown"
	"github.com/dgallion1/mdview/internal/outline"
	"github.com/dgallion1/mdview/internal/source"
)

// Loader turns a manifest page into rendered content and its outline. It
// holds no per-load state and is safe for concurrent use.
type Loader struct {
	src source.Source
	md  *markdown.Renderer
	log *slog.Logger
}

func New(src source.Source, md *markdown.Renderer, log *slog.Logger) *Loader {
	return &Loader{src: src, md: md, log: log}
}

// Load fetches and renders page. Failures never return an error; they are
// rendered as an error document in the result.
func (l *Loader) Load(ctx context.Context, page Page) Result {
	parts := manifest.Split(page.Path)

	body, err := l.src.Document(ctx, page.Path)
	if err != nil {
		if se, ok := source.AsStatus(err); ok {
			l.log.Warn("page not found", "path", page.Path, "status", se.Code)
			return l.failure(page, StateNotFound, se.Code,
				fmt.Sprintf("# Error loading page '%s': 404", parts.Label()), err)
		}
		if errors.Is(err, context.Canceled) {
			l.log.Debug("page fetch cancelled", "path", page.Path)
		} else {
			l.log.Error("page fetch failed", "path", page.Path, "error", err)
		}
		return l.failure(page, StateFetchError, 0,
			fmt.Sprintf("# Error loading '%s': %v", parts.Label(), err), err)
	}

	text := string(body)
	content, err := l.md.Render("# " + parts.Page + "\n" + text)
	if err != nil {
		l.log.Error("page render failed", "path", page.Path, "error", err)
		return l.failure(page, StateFetchError, 0,
			fmt.Sprintf("# Error loading '%s': %v", parts.Label(), err), err)
	}

	headings := outline.Extract(text)
	l.checkAnchors(page.Path, content, headings)

	return Result{
		State:    StateRendered,
		Page:     page,
		Title:    parts.Page,
		Content:  content,
		Headings: headings,
	}
}

func (l *Loader) failure(page Page, state State, status int, doc string, cause error) Result {
	content, err := l.md.Render(doc)
	if err != nil {
		content = ""
	}
	return Result{
		State:    state,
		Page:     page,
		Content:  content,
		Headings: []outline.Heading{},
		Status:   status,
		Err:      cause,
	}
}

// checkAnchors logs outline entries whose anchor is missing from the
// rendered page.
func (l *Loader) checkAnchors(path, content string, headings []outline.Heading) {
	if len(headings) == 0 {
		return
	}
	ids, err := markdown.HeadingIDs(content)
	if err != nil {
		l.log.Debug("anchor check skipped", "path", path, "error", err)
		return
	}
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	for _, h := range headings {
		if id := outline.ID(h.Text); !present[id] {
			l.log.Debug("outline anchor missing", "path", path, "id", id)
		}
	}
}
