package markdown

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mdview/internal/outline"
)

func render(t *testing.T, src string) *goquery.Document {
	t.Helper()
	out, err := New(DefaultOptions()).Render(src)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestRender_HeadingIDs(t *testing.T) {
	doc := render(t, "# Foo Bar!\n\n## Sub [Link](http://x)\n\n### Use `code` here\n")

	h1 := doc.Find("h1")
	id, _ := h1.Attr("id")
	assert.Equal(t, "foo-bar", id)
	assert.Equal(t, "Foo Bar!", h1.Text())

	id, _ = doc.Find("h2").Attr("id")
	assert.Equal(t, "sub-link", id)
	assert.Equal(t, 1, doc.Find("h2 a").Length())

	id, _ = doc.Find("h3").Attr("id")
	assert.Equal(t, "use-code-here", id)
}

func TestRender_HeadingIDsMatchOutline(t *testing.T) {
	src := "# Title\n## Sub [Link](http://x)\n### Trailing ###\n#### Mixed *emphasis* (v2)\n"
	out, err := New(DefaultOptions()).Render(src)
	require.NoError(t, err)

	ids, err := HeadingIDs(out)
	require.NoError(t, err)

	var want []string
	for _, h := range outline.Extract(src) {
		want = append(want, outline.ID(h.Text))
	}
	assert.Equal(t, want, ids)
}

func TestRender_Image(t *testing.T) {
	doc := render(t, `![My Diagram](img/arch.png "Big Title!")`)

	img := doc.Find("img")
	require.Equal(t, 1, img.Length())
	src, _ := img.Attr("src")
	alt, _ := img.Attr("alt")
	title, _ := img.Attr("title")
	loading, _ := img.Attr("loading")

	assert.Equal(t, "img/arch.png", src)
	assert.Equal(t, "my-diagram", alt)
	assert.Equal(t, "big-title-", title)
	assert.Equal(t, "lazy", loading)
}

func TestRender_ImageWithoutTitle(t *testing.T) {
	doc := render(t, `![shot](a.png)`)

	title, ok := doc.Find("img").Attr("title")
	assert.True(t, ok)
	assert.Empty(t, title)
}

func TestRender_Video(t *testing.T) {
	for _, ext := range []string{"mp4", "webm", "ogg"} {
		doc := render(t, "![demo](media/clip."+ext+")")

		assert.Equal(t, 0, doc.Find("img").Length(), ext)
		source := doc.Find("video[controls] source")
		require.Equal(t, 1, source.Length(), ext)
		src, _ := source.Attr("src")
		typ, _ := source.Attr("type")
		assert.Equal(t, "media/clip."+ext, src)
		assert.Equal(t, "video/mp4", typ)
	}
}

func TestRender_CodeBlockHighlighted(t *testing.T) {
	doc := render(t, "```go\npackage main\n```\n")

	assert.Equal(t, 1, doc.Find("pre.chroma").Length())
	assert.Contains(t, doc.Find("pre").Text(), "package main")
}

func TestRender_GFMTable(t *testing.T) {
	doc := render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.Equal(t, 1, doc.Find("table").Length())
}

func TestWriteStyles(t *testing.T) {
	var b strings.Builder
	require.NoError(t, New(Options{}).WriteStyles(&b))

	css := b.String()
	assert.Contains(t, css, ".chroma")
	assert.Contains(t, css, `[data-theme="dark"] .`)
}

func TestHeadingIDs(t *testing.T) {
	ids, err := HeadingIDs(`<h1 id="a">A</h1><p>x</p><div><h3 id="b">B</h3></div><h2>no id</h2>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = HeadingIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
