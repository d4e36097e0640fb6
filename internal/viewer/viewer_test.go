package viewer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/manifest"
	"github.com/dgallion1/mdview/internal/markdown"
	"github.com/dgallion1/mdview/internal/outline"
	"github.com/dgallion1/mdview/internal/source"
)

var testPaths = []string{
	"/root/intro.md",
	"/root/guide/setup.md",
	"/root/guide/advanced.md",
}

// fakeSource serves docs from memory. Paths listed in block wait for the
// caller's context to end; started receives their path when they do.
type fakeSource struct {
	manifest string
	docs     map[string]string
	block    map[string]bool
	started  chan string
}

func (f *fakeSource) Manifest(context.Context) ([]byte, error) {
	if f.manifest == "" {
		return nil, errors.New("manifest unavailable")
	}
	return []byte(f.manifest), nil
}

func (f *fakeSource) Document(ctx context.Context, p string) ([]byte, error) {
	if f.block[p] {
		f.started <- p
		<-ctx.Done()
		return nil, ctx.Err()
	}
	d, ok := f.docs[p]
	if !ok {
		return nil, &source.StatusError{Target: p, Code: http.StatusNotFound}
	}
	return []byte(d), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestViewer(src source.Source, opts Options) *Viewer {
	l := loader.New(src, markdown.New(markdown.DefaultOptions()), testLogger())
	return New(manifest.New(testPaths), l, opts, testLogger())
}

func defaultDocs() map[string]string {
	return map[string]string{
		"/root/intro.md":          "# Title\n## Sub [Link](http://x)\n```\n# not a heading\n```",
		"/root/guide/setup.md":    "## Install\n",
		"/root/guide/advanced.md": "## Tuning\n",
	}
}

func TestBootstrap(t *testing.T) {
	src := &fakeSource{manifest: `["/root/intro.md", "/root/logo.png", "/root/guide/setup.md"]`}
	l := loader.New(src, markdown.New(markdown.DefaultOptions()), testLogger())

	v, err := Bootstrap(context.Background(), src, l, Options{}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"/root/guide/setup.md", "/root/intro.md"}, v.Manifest().Paths())
	assert.Equal(t, KeyIndex, v.Keys())
}

func TestBootstrap_ManifestFailure(t *testing.T) {
	src := &fakeSource{}
	l := loader.New(src, markdown.New(markdown.DefaultOptions()), testLogger())

	_, err := Bootstrap(context.Background(), src, l, Options{}, testLogger())
	assert.ErrorContains(t, err, "manifest unavailable")

	src.manifest = "not json"
	_, err = Bootstrap(context.Background(), src, l, Options{}, testLogger())
	assert.Error(t, err)
}

func TestSession_OpenDefaultsToFirstPage(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})
	s := v.NewSession("s1")

	assert.Equal(t, loader.StateIdle, s.View().State)

	view, err := s.Open(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, loader.StateRendered, view.State)
	// Sorted manifest: advanced, setup, intro.
	assert.Equal(t, "advanced", view.Title)
	assert.Equal(t, "0", view.Key)
	assert.Equal(t, "p=0", view.Fragment)
}

func TestSession_OpenDeepLink(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})

	view, err := v.NewSession("s").Open(context.Background(), FragmentValue("#p=2"))
	require.NoError(t, err)
	assert.Equal(t, "intro", view.Title)
	assert.Equal(t, "p=2", view.Fragment)
	assert.Equal(t, []outline.Heading{
		{Level: 1, Text: "Title"},
		{Level: 2, Text: "Sub Link"},
	}, view.Outline)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<ul>" + view.Headings + "</ul>"))
	require.NoError(t, err)
	href, _ := doc.Find("li.level-2 a").Attr("href")
	assert.Equal(t, "#sub-link", href)

	nav, err := goquery.NewDocumentFromReader(strings.NewReader("<ul>" + view.Nav + "</ul>"))
	require.NoError(t, err)
	assert.Equal(t, "• intro", nav.Find("a.active").Text())
}

func TestSession_OpenUnparsableFallsBack(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})

	for _, raw := range []string{"abc", "-1", "99"} {
		view, err := v.NewSession("s").Open(context.Background(), raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "0", view.Key, raw)
	}
}

func TestSession_PathKeys(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{Keys: KeyPath})
	s := v.NewSession("s")

	view, err := s.Open(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/root/guide/advanced.md", view.Key)
	assert.Empty(t, view.Fragment)

	view, err = s.Navigate(context.Background(), "/root/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "intro", view.Title)
	assert.Contains(t, view.Nav, `href="/?path=%2Froot%2Fintro.md"`)
}

func TestSession_NotFoundKeepsTitle(t *testing.T) {
	docs := defaultDocs()
	delete(docs, "/root/guide/setup.md")
	v := newTestViewer(&fakeSource{docs: docs}, Options{})
	s := v.NewSession("s")

	_, err := s.Navigate(context.Background(), "2")
	require.NoError(t, err)

	view, err := s.Navigate(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, loader.StateNotFound, view.State)
	assert.Contains(t, view.Content, "404")
	assert.Contains(t, view.Content, "root/guide/setup")
	assert.Empty(t, view.Headings)
	assert.Empty(t, view.Outline)
	assert.Equal(t, "intro", view.Title)
	assert.Equal(t, "p=2", view.Fragment)

	// The navigation stays usable after a failure.
	view, err = s.Navigate(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, loader.StateRendered, view.State)
	assert.Equal(t, "advanced", view.Title)
}

func TestSession_UnknownKey(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})

	_, err := v.NewSession("s").Navigate(context.Background(), "7")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestSession_OpenEmptyManifest(t *testing.T) {
	l := loader.New(&fakeSource{}, markdown.New(markdown.DefaultOptions()), testLogger())
	v := New(manifest.New(nil), l, Options{}, testLogger())

	view, err := v.NewSession("s").Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnknownPage)
	assert.Equal(t, loader.StateIdle, view.State)
}

func TestSession_StaleNavigationDiscarded(t *testing.T) {
	src := &fakeSource{
		docs:    defaultDocs(),
		block:   map[string]bool{"/root/guide/advanced.md": true},
		started: make(chan string, 1),
	}
	v := newTestViewer(src, Options{})
	s := v.NewSession("s")

	type outcome struct {
		view View
		err  error
	}
	slow := make(chan outcome, 1)
	go func() {
		view, err := s.Navigate(context.Background(), "0")
		slow <- outcome{view, err}
	}()

	select {
	case <-src.started:
	case <-time.After(2 * time.Second):
		t.Fatal("slow navigation never started")
	}
	assert.Equal(t, loader.StateFetching, s.View().State)

	view, err := s.Navigate(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "intro", view.Title)

	var got outcome
	select {
	case got = <-slow:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded navigation was not cancelled")
	}
	assert.ErrorIs(t, got.err, ErrSuperseded)
	assert.Equal(t, "intro", s.View().Title)
	assert.Equal(t, loader.StateRendered, s.View().State)
}

func TestSession_ToggleAsides(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{MarginLeft: "260px", MarginRight: "220px"})
	s := v.NewSession("s")

	assert.Equal(t, "margin-left:260px;margin-right:220px;", s.View().ContentStyle)

	view := s.ToggleAsides()
	assert.True(t, view.AsidesHidden)
	assert.Equal(t, "margin-left:0px;margin-right:0px", view.ContentStyle)

	view = s.ToggleAsides()
	assert.False(t, view.AsidesHidden)
	assert.Equal(t, "margin-left:260px;margin-right:220px;", view.ContentStyle)
}

func TestViewer_LoadKey(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})

	res, err := v.LoadKey(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "setup", res.Title)

	_, err = v.LoadKey(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestSessions_Registry(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})
	reg := NewSessions(v, time.Hour)

	s := reg.Create()
	require.NotEmpty(t, s.ID)
	got, ok := reg.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, reg.Len())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
	assert.Zero(t, reg.Cleanup())
}

func TestSessions_CleanupEvictsIdle(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})
	reg := NewSessions(v, time.Millisecond)

	reg.Create()
	reg.Create()
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 2, reg.Cleanup())
	assert.Zero(t, reg.Len())
}

func TestSessions_RunStopsOnCancel(t *testing.T) {
	v := newTestViewer(&fakeSource{docs: defaultDocs()}, Options{})
	reg := NewSessions(v, time.Millisecond)
	reg.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
