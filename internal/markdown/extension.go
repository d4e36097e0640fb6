package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/dgallion1/mdview/internal/outline"
)

var videoURL = regexp.MustCompile(`\.mp4$|\.webm$|\.ogg$`)

// viewerExtension swaps in the image and heading renderers.
type viewerExtension struct{}

func (viewerExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newViewerRenderer(), 100),
	))
}

type viewerRenderer struct {
	html.Config
}

func newViewerRenderer() *viewerRenderer {
	return &viewerRenderer{Config: html.NewConfig()}
}

func (r *viewerRenderer) SetOption(name renderer.OptionName, value interface{}) {
	r.Config.SetOption(name, value)
}

func (r *viewerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindHeading, r.renderHeading)
}

// renderHeading gives every heading the id the outline links to. The id is
// computed from the raw heading source so it always agrees with
// outline.Extract.
func (r *viewerRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		fmt.Fprintf(w, `<h%d id="%s">`, n.Level, outline.ID(outline.Text(rawText(n, source))))
		return ast.WalkContinue, nil
	}
	fmt.Fprintf(w, "</h%d>\n", n.Level)
	return ast.WalkContinue, nil
}

// renderImage renders video links as <video> and everything else as a
// lazy-loaded <img> with slugged alt and title.
func (r *viewerRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	dest := n.Destination
	if !r.Unsafe && html.IsDangerousURL(dest) {
		dest = nil
	}
	src := util.EscapeHTML(util.URLEscape(dest, true))

	if videoURL.Match(n.Destination) {
		fmt.Fprintf(w, `<video controls><source src="%s" type="video/mp4"></video>`, src)
		return ast.WalkSkipChildren, nil
	}

	alt := outline.Slug(inlineText(n, source))
	title := outline.Slug(string(n.Title))
	fmt.Fprintf(w, `<img src="%s" title="%s" alt="%s" loading="lazy" />`, src, title, alt)
	return ast.WalkSkipChildren, nil
}

func rawText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}

// inlineText concatenates the text content below n.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
