// Package outline extracts the heading outline of a markdown document and
// derives the anchor ids shared with the renderer.
package outline

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Heading is one entry of a page outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

var (
	fencedBlock = regexp.MustCompile("(?s)```.*?```")
	headingLine = regexp.MustCompile(`(?m)^(#+)[ \t]+(.+)$`)
	linkText    = regexp.MustCompile(`\[([^\]]+)\]\(.+\)`)
	nonWord     = regexp.MustCompile(`[^\w]+`)
)

// Extract returns the ATX headings of src in document order. Fenced code
// blocks are removed first so commented shell lines never show up.
func Extract(src string) []Heading {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = fencedBlock.ReplaceAllString(src, "")

	matches := headingLine.FindAllStringSubmatch(src, -1)
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{
			Level: len(m[1]),
			Text:  Text(m[2]),
		})
	}
	return headings
}

// Text normalizes raw heading content for display: the first
// [label](target) is replaced by its label.
func Text(text string) string {
	loc := linkText.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + text[loc[2]:loc[3]] + text[loc[1]:]
}

// Slug lower-cases text and collapses every run of non-word characters into
// a single hyphen.
func Slug(text string) string {
	return nonWord.ReplaceAllString(strings.ToLower(text), "-")
}

// ID is the anchor id for a heading: its slug without a trailing hyphen.
func ID(text string) string {
	return strings.TrimSuffix(Slug(text), "-")
}

// Render builds the heading sidebar items.
func Render(headings []Heading) string {
	var b strings.Builder
	for _, h := range headings {
		fmt.Fprintf(&b, `<li class="level-%d"><a href="#%s">%s</a></li>`+"\n",
			h.Level, ID(h.Text), html.EscapeString(h.Text))
	}
	return b.String()
}
