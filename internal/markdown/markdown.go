// Package markdown renders viewer documents to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures a Renderer.
type Options struct {
	// LightStyle and DarkStyle name the chroma styles used for code blocks.
	LightStyle string
	DarkStyle  string
}

// DefaultOptions returns the stock code highlighting styles.
func DefaultOptions() Options {
	return Options{
		LightStyle: "github",
		DarkStyle:  "monokai",
	}
}

// Renderer converts markdown text to an HTML fragment. It is safe for
// concurrent use.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// New builds a Renderer with GFM, class-based code highlighting and the
// viewer's image and heading overrides.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.LightStyle == "" {
		opts.LightStyle = def.LightStyle
	}
	if opts.DarkStyle == "" {
		opts.DarkStyle = def.DarkStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.LightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
			viewerExtension{},
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md, opts: opts}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

var ruleStart = regexp.MustCompile(`(?m)^(/\*.*?\*/\s*)?\.`)

// WriteStyles writes the code highlighting CSS: the light style unscoped and
// the dark style scoped to [data-theme="dark"].
func (r *Renderer) WriteStyles(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	if err := formatter.WriteCSS(w, lookupStyle(r.opts.LightStyle)); err != nil {
		return fmt.Errorf("write light styles: %w", err)
	}

	var dark strings.Builder
	if err := formatter.WriteCSS(&dark, lookupStyle(r.opts.DarkStyle)); err != nil {
		return fmt.Errorf("write dark styles: %w", err)
	}
	_, err := io.WriteString(w, ruleStart.ReplaceAllString(dark.String(), `${1}[data-theme="dark"] .`))
	return err
}

func lookupStyle(name string) *chroma.Style {
	return styles.Get(name)
}
