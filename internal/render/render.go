// SPDX-License-Identifier: MIT

// Package render turns note markdown into sanitized HTML with resolved
// wikilinks and syntax-highlighted code blocks.
package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var wikiLinkRe = regexp.MustCompile(`\[\[(.+?)\]\]`)

// TitleSource resolves a note stem to its display title.
type TitleSource interface {
	Title(stem string) string
}

// Renderer converts markdown bodies to HTML. It is stateless and safe for
// concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New constructs a renderer with GFM tables, task lists, strikethrough and
// class-based syntax highlighting, mirroring the extensions notes are
// written against.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Linkify,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	// UGC policy plus the attributes chroma and task lists depend on.
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("span", "code", "pre", "div", "table", "ul", "li")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Renderer{md: md, policy: policy}
}

// Render converts a markdown body to sanitized HTML. Wikilinks of the form
// [[stem]] become anchors to /stem labelled with the target's title.
func (r *Renderer) Render(body []byte, titles TitleSource) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	resolved := wikiLinkRe.ReplaceAllFunc(buf.Bytes(), func(match []byte) []byte {
		stem := string(wikiLinkRe.FindSubmatch(match)[1])
		title := stem
		if titles != nil {
			title = titles.Title(stem)
		}
		return []byte(fmt.Sprintf(`<a href="/%s">%s</a>`,
			html.EscapeString(stem), html.EscapeString(title)))
	})

	return r.policy.SanitizeBytes(resolved), nil
}
