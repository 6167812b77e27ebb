// SPDX-License-Identifier: MIT

package notes

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/foamd/foamd/internal/fsutil"
	"github.com/foamd/foamd/internal/log"
	"github.com/foamd/foamd/internal/store"
)

var wikiLinkRe = regexp.MustCompile(`\[\[(.+?)\]\]`)

// Backlink is one inbound reference to a note.
type Backlink struct {
	Stem  string `json:"stem"`
	Title string `json:"title"`
}

// Index holds the scanned state of the notes root. All methods are safe for
// concurrent use. The optional store persists the backlink index between
// runs so unchanged notes are not rescanned.
type Index struct {
	mu    sync.RWMutex
	root  string
	cache *store.Store // may be nil

	notes     map[string]Note
	modTimes  map[string]int64
	referrers map[string]map[string]struct{} // target stem -> referrer stems
}

// NewIndex creates an index over root. cache may be nil to disable
// persistence (every Scan then rebuilds from scratch).
func NewIndex(root string, cache *store.Store) *Index {
	return &Index{
		root:      root,
		cache:     cache,
		notes:     make(map[string]Note),
		modTimes:  make(map[string]int64),
		referrers: make(map[string]map[string]struct{}),
	}
}

// Root returns the notes root directory.
func (ix *Index) Root() string { return ix.root }

// NotePath returns the file path for a stem, without checking existence.
func (ix *Index) NotePath(stem string) string {
	return filepath.Join(ix.root, stem+".md")
}

// Scan walks the notes root and rebuilds the index. Backlinks are refreshed
// only for notes whose mtime changed since the persisted snapshot.
func (ix *Index) Scan(ctx context.Context) error {
	logger := log.WithComponentFromContext(ctx, "index")

	paths, err := filepath.Glob(filepath.Join(ix.root, "*.md"))
	if err != nil {
		return fmt.Errorf("glob notes root: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	prevModTimes := make(map[string]int64)
	if ix.cache != nil && len(ix.referrers) == 0 {
		if backlinks, modTimes, ok, err := ix.cache.GetBacklinks(); err != nil {
			logger.Warn().Err(err).Str("event", "index.snapshot_load_failed").
				Msg("could not load backlink snapshot, rebuilding")
		} else if ok {
			ix.referrers = make(map[string]map[string]struct{}, len(backlinks))
			for target, stems := range backlinks {
				set := make(map[string]struct{}, len(stems))
				for _, s := range stems {
					set[s] = struct{}{}
				}
				ix.referrers[target] = set
			}
			prevModTimes = modTimes
		}
	} else {
		for stem, mt := range ix.modTimes {
			prevModTimes[stem] = mt
		}
	}

	seen := make(map[string]struct{}, len(paths))
	notes := make(map[string]Note, len(paths))
	modTimes := make(map[string]int64, len(paths))
	var changed []string

	for _, path := range paths {
		doc, err := ParseFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Str("event", "index.parse_failed").
				Msg("skipping unreadable note")
			continue
		}
		seen[doc.Stem] = struct{}{}
		notes[doc.Stem] = doc.Note
		mt := doc.ModTime.UnixNano()
		modTimes[doc.Stem] = mt
		if prev, ok := prevModTimes[doc.Stem]; !ok || mt > prev {
			changed = append(changed, doc.Stem)
			ix.replaceReferrerLocked(doc.Stem, doc.Body)
		}
	}

	// Notes that disappeared stop being referrers.
	for stem := range prevModTimes {
		if _, ok := seen[stem]; !ok {
			ix.removeReferrerLocked(stem)
		}
	}

	ix.notes = notes
	ix.modTimes = modTimes

	if ix.cache != nil {
		if err := ix.cache.PutBacklinks(ix.backlinksLocked(), modTimes); err != nil {
			logger.Warn().Err(err).Str("event", "index.snapshot_save_failed").
				Msg("could not persist backlink snapshot")
		}
	}

	logger.Info().
		Str("event", "index.scan").
		Int("notes", len(notes)).
		Int("rescanned", len(changed)).
		Msg("notes index built")

	return nil
}

// replaceReferrerLocked rescans one note's outbound wikilinks.
func (ix *Index) replaceReferrerLocked(stem string, body []byte) {
	ix.removeReferrerLocked(stem)
	for _, match := range wikiLinkRe.FindAllSubmatch(body, -1) {
		target := string(match[1])
		set, ok := ix.referrers[target]
		if !ok {
			set = make(map[string]struct{})
			ix.referrers[target] = set
		}
		set[stem] = struct{}{}
	}
}

func (ix *Index) removeReferrerLocked(stem string) {
	for target, set := range ix.referrers {
		delete(set, stem)
		if len(set) == 0 {
			delete(ix.referrers, target)
		}
	}
}

func (ix *Index) backlinksLocked() map[string][]string {
	out := make(map[string][]string, len(ix.referrers))
	for target, set := range ix.referrers {
		stems := make([]string, 0, len(set))
		for s := range set {
			stems = append(stems, s)
		}
		sort.Strings(stems)
		out[target] = stems
	}
	return out
}

// Exists reports whether the note file for stem is present on disk. The
// path is confined to the root, so a symlinked note pointing outside of it
// does not count.
func (ix *Index) Exists(stem string) bool {
	if err := ValidateStem(stem); err != nil {
		return false
	}
	real, err := fsutil.ConfineRelPath(ix.root, stem+".md")
	if err != nil {
		return false
	}
	return fsutil.IsRegularFile(real) == nil
}

// Note returns the indexed note for stem.
func (ix *Index) Note(stem string) (Note, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n, ok := ix.notes[stem]
	return n, ok
}

// Title returns the indexed title for stem, falling back to the default
// title for unindexed stems.
func (ix *Index) Title(stem string) string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if n, ok := ix.notes[stem]; ok {
		return n.Title
	}
	return DefaultTitle(stem)
}

// Notes returns all indexed notes sorted by stem.
func (ix *Index) Notes() []Note {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Note, 0, len(ix.notes))
	for _, n := range ix.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stem < out[j].Stem })
	return out
}

// Backlinks returns the notes linking to stem, sorted by stem.
func (ix *Index) Backlinks(stem string) []Backlink {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	set := ix.referrers[stem]
	stems := make([]string, 0, len(set))
	for s := range set {
		stems = append(stems, s)
	}
	sort.Strings(stems)

	out := make([]Backlink, 0, len(stems))
	for _, s := range stems {
		title := DefaultTitle(s)
		if n, ok := ix.notes[s]; ok {
			title = n.Title
		}
		out = append(out, Backlink{Stem: s, Title: title})
	}
	return out
}

// Autocomplete returns up to max stems containing the normalized prefix.
func (ix *Index) Autocomplete(prefix string, max int) []string {
	needle := NormalizeStem(prefix)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	matches := make([]string, 0, max)
	stems := make([]string, 0, len(ix.notes))
	for stem := range ix.notes {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	for _, stem := range stems {
		if strings.Contains(stem, needle) {
			matches = append(matches, stem)
			if len(matches) == max {
				break
			}
		}
	}
	return matches
}
