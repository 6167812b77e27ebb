// SPDX-License-Identifier: MIT

package notes

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/foamd/foamd/internal/log"
)

// Rename moves a note to a new stem and rewrites the wikilinks in every
// referring note. This is the only code path that writes under the notes
// root; it runs from the operator CLI, never from a request handler.
func (ix *Index) Rename(ctx context.Context, oldStem, newStem string) error {
	logger := log.WithComponentFromContext(ctx, "rename")

	if err := ValidateStem(oldStem); err != nil {
		return err
	}
	if err := ValidateStem(newStem); err != nil {
		return err
	}
	if oldStem == newStem {
		return nil
	}
	if !ix.Exists(oldStem) {
		return fmt.Errorf("note %q not found", oldStem)
	}
	if ix.Exists(newStem) {
		return fmt.Errorf("note %q already exists", newStem)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	oldPath := ix.NotePath(oldStem)
	newPath := ix.NotePath(newStem)
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename note file: %w", err)
	}
	logger.Info().
		Str("event", "rename.file").
		Str("from", oldPath).
		Str("to", newPath).
		Msg("note file renamed")

	// Rewrite wikilinks in every referrer.
	for referrer := range ix.referrers[oldStem] {
		path := ix.NotePath(referrer)
		if referrer == oldStem {
			path = newPath
		}
		raw, err := os.ReadFile(path) // #nosec G304 -- path built from validated stem
		if err != nil {
			return fmt.Errorf("read referrer %q: %w", referrer, err)
		}
		updated := strings.ReplaceAll(string(raw), "[["+oldStem+"]]", "[["+newStem+"]]")
		if updated == string(raw) {
			continue
		}
		if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
			return fmt.Errorf("rewrite referrer %q: %w", referrer, err)
		}
		logger.Info().
			Str("event", "rename.backlink_rewrite").
			Str("referrer", referrer).
			Msg("updated wikilinks in referrer")
	}

	// Move index entries.
	if n, ok := ix.notes[oldStem]; ok {
		n.Stem = newStem
		n.Path = newPath
		if n.Title == DefaultTitle(oldStem) {
			n.Title = DefaultTitle(newStem)
		}
		delete(ix.notes, oldStem)
		ix.notes[newStem] = n
	}
	if mt, ok := ix.modTimes[oldStem]; ok {
		delete(ix.modTimes, oldStem)
		ix.modTimes[newStem] = mt
	}
	if set, ok := ix.referrers[oldStem]; ok {
		delete(ix.referrers, oldStem)
		ix.referrers[newStem] = set
	}
	for _, set := range ix.referrers {
		if _, ok := set[oldStem]; ok {
			delete(set, oldStem)
			set[newStem] = struct{}{}
		}
	}

	if ix.cache != nil {
		// Cached HTML for the old stem is orphaned; drop it.
		if err := ix.cache.DeleteHTML(oldStem); err != nil {
			logger.Warn().Err(err).Str("stem", oldStem).Msg("could not drop cached HTML")
		}
		if err := ix.cache.PutBacklinks(ix.backlinksLocked(), ix.modTimes); err != nil {
			logger.Warn().Err(err).Str("event", "rename.snapshot_save_failed").
				Msg("could not persist backlink snapshot")
		}
	}

	return nil
}

// RenamePrefix renames every note whose stem starts with oldPrefix,
// substituting newPrefix. With newPrefix empty, "prefix-" collapses to
// "prefix.", the shorthand the rename tool historically offered.
func (ix *Index) RenamePrefix(ctx context.Context, oldPrefix, newPrefix string) error {
	if newPrefix == "" {
		newPrefix = oldPrefix + "."
		oldPrefix = oldPrefix + "-"
	}

	for _, n := range ix.Notes() {
		if !strings.HasPrefix(n.Stem, oldPrefix) {
			continue
		}
		newStem := strings.Replace(n.Stem, oldPrefix, newPrefix, 1)
		if err := ix.Rename(ctx, n.Stem, newStem); err != nil {
			return err
		}
	}
	return nil
}
