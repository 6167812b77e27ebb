// SPDX-License-Identifier: MIT

package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/foamd/foamd/internal/log"
)

// Watcher rescans the index when files under the notes root change.
type Watcher struct {
	index    *Index
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher over the index's root directory.
func NewWatcher(index *Index) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(index.Root()); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch notes root: %w", err)
	}
	return &Watcher{
		index:    index,
		watcher:  w,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Start runs the watch loop until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

func (w *Watcher) watchLoop(ctx context.Context) {
	logger := log.WithComponent("watcher")
	logger.Info().
		Str("event", "watcher.started").
		Str("path", w.index.Root()).
		Msg("watching notes root for changes")

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str("event", "watcher.stopped").Msg("notes watcher stopped")
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Debug().
					Str("event", "watcher.file_changed").
					Str("path", event.Name).
					Str("op", event.Op.String()).
					Msg("note changed")

				// Debounce: editors produce bursts of events per save.
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, func() {
					if err := w.index.Scan(ctx); err != nil {
						logger.Error().Err(err).
							Str("event", "watcher.rescan_failed").
							Msg("rescan after file change failed")
					}
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Str("event", "watcher.error").Msg("notes watcher error")
		}
	}
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	_ = w.watcher.Close()
}
