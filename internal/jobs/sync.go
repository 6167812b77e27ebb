// SPDX-License-Identifier: MIT

package jobs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/foamd/foamd/internal/log"
)

// SyncConfig configures a submodule sync run.
type SyncConfig struct {
	// RepoDir is the git repository containing the notes submodule.
	RepoDir string

	// Timeout bounds the whole sync. Zero means 5 minutes.
	Timeout time.Duration
}

// Sync brings the notes submodule in line with its configured upstream:
// `git submodule sync --recursive` followed by
// `git submodule update --init --recursive`. Failures are returned to the
// caller; there is no automatic retry.
func Sync(ctx context.Context, cfg SyncConfig) error {
	logger := log.WithComponentFromContext(ctx, "sync")

	if cfg.RepoDir == "" {
		return fmt.Errorf("sync: repository directory is not configured")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := checkGitRepo(ctx, cfg.RepoDir); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	start := time.Now()
	logger.Info().
		Str("event", "sync.start").
		Str("repo", cfg.RepoDir).
		Msg("syncing notes submodule")

	steps := [][]string{
		{"submodule", "sync", "--recursive"},
		{"submodule", "update", "--init", "--recursive"},
	}
	for _, args := range steps {
		if out, err := runGit(ctx, cfg.RepoDir, args...); err != nil {
			recordSyncResult(false)
			logger.Error().
				Err(err).
				Str("event", "sync.failed").
				Str("step", strings.Join(args, " ")).
				Str("output", out).
				Msg("submodule sync failed")
			return fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, strings.TrimSpace(out))
		}
	}

	recordSyncResult(true)
	logger.Info().
		Str("event", "sync.done").
		Dur("duration", time.Since(start)).
		Msg("notes submodule synced")
	return nil
}

// checkGitRepo verifies dir belongs to a git work tree.
func checkGitRepo(ctx context.Context, dir string) error {
	out, err := runGit(ctx, dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return fmt.Errorf("not a git repository: %s", dir)
	}
	if strings.TrimSpace(out) != "true" {
		return fmt.Errorf("not inside a git work tree: %s", dir)
	}
	return nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}
