// SPDX-License-Identifier: MIT

// Package notes maintains the in-memory index of the notes directory:
// titles, modification times, backlinks, and the operations that query or
// rewrite them.
package notes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"
)

// Note is one markdown file directly under the notes root.
type Note struct {
	Stem    string    `json:"stem"`
	Title   string    `json:"title"`
	Path    string    `json:"-"`
	ModTime time.Time `json:"mtime"`
}

// Document is a fully parsed note: metadata plus the markdown body that
// remains after stripping frontmatter and the title heading.
type Document struct {
	Note
	Body []byte
}

type frontMeta struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

// ParseFile reads and parses the note at path. The title comes from YAML
// frontmatter when present, otherwise from a leading "# " heading, otherwise
// from the stem. The heading line is not part of the body.
func ParseFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path) // #nosec G304 -- paths come from the confined index
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := &Document{Note: Note{
		Stem:    stem,
		Path:    path,
		ModTime: info.ModTime(),
	}}

	var meta frontMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		// Malformed frontmatter should not make a note unreadable.
		body = raw
		meta = frontMeta{}
	}

	title, body := splitTitle(body)
	switch {
	case meta.Title != "":
		doc.Title = meta.Title
	case title != "":
		doc.Title = title
	default:
		doc.Title = DefaultTitle(stem)
	}
	doc.Body = body

	return doc, nil
}

// splitTitle extracts a leading markdown heading as the title and returns
// the body without it. Content that does not start with a heading is kept
// whole.
func splitTitle(body []byte) (string, []byte) {
	trimmed := bytes.TrimLeft(body, "\n")
	line, rest, found := bytes.Cut(trimmed, []byte("\n"))
	if !found {
		line = trimmed
		rest = nil
	}
	if !bytes.HasPrefix(line, []byte("#")) {
		return "", body
	}
	title := strings.TrimSpace(strings.TrimLeft(string(line), "#"))
	return title, rest
}

// DefaultTitle derives a human-readable title from a note stem:
// dashes become spaces and the first letter is capitalized.
func DefaultTitle(stem string) string {
	s := strings.ToLower(strings.ReplaceAll(stem, "-", " "))
	runes := []rune(s)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// NormalizeStem maps user input to stem form: lowercase, spaces to dashes.
func NormalizeStem(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

// ValidateStem rejects stems that could not name a file under the root.
func ValidateStem(stem string) error {
	if stem == "" {
		return fmt.Errorf("empty note name")
	}
	if strings.ContainsAny(stem, "/\\") || strings.Contains(stem, "..") {
		return fmt.Errorf("invalid note name: %s", stem)
	}
	return nil
}
