// SPDX-License-Identifier: MIT

package daemon

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/foamd/foamd/internal/notes"
)

// App owns the long-lived runtime: the notes watcher and the server
// manager. It blocks until the context is cancelled or a fatal error occurs.
type App struct {
	logger  zerolog.Logger
	manager Manager
	watcher *notes.Watcher
}

// NewApp creates a new App orchestrator. The watcher may be nil when live
// rescanning is disabled.
func NewApp(logger zerolog.Logger, manager Manager, watcher *notes.Watcher) *App {
	return &App{
		logger:  logger,
		manager: manager,
		watcher: watcher,
	}
}

// Run starts the watcher and the daemon manager and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.watcher != nil {
		a.watcher.Start(ctx)
		a.logger.Info().Str("event", "watcher.started").Msg("notes watcher running")
	}

	g.Go(func() error {
		return a.manager.Start(ctx)
	})

	err := g.Wait()

	if a.watcher != nil {
		a.watcher.Stop()
	}
	return err
}
