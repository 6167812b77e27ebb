// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foamd/foamd/internal/log"
	"github.com/foamd/foamd/internal/notes"
)

// SnapshotFilename is the exported index document under the cache dir.
const SnapshotFilename = "index.json"

// Reindex rescans the notes root and exports the index snapshot. cacheDir
// may be empty to skip the export.
func Reindex(ctx context.Context, index *notes.Index, cacheDir string) (*Status, error) {
	logger := log.WithComponentFromContext(ctx, "jobs")
	logger.Info().Str("event", "reindex.start").Msg("starting reindex")

	start := time.Now()
	if err := index.Scan(ctx); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	count := len(index.Notes())

	if cacheDir != "" {
		// The cache dir may not exist yet on a fresh tree.
		if err := os.MkdirAll(cacheDir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		path := filepath.Join(cacheDir, SnapshotFilename)
		if err := index.WriteSnapshot(path); err != nil {
			return nil, fmt.Errorf("export snapshot: %w", err)
		}
		logger.Info().
			Str("event", "reindex.snapshot").
			Str("path", path).
			Int("notes", count).
			Msg("index snapshot written")
	}

	recordReindexMetrics(time.Since(start), count)
	logger.Info().
		Str("event", "reindex.done").
		Int("notes", count).
		Dur("duration", time.Since(start)).
		Msg("reindex completed")

	return &Status{LastRun: time.Now(), Notes: count}, nil
}
