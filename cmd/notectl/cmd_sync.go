// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/foamd/foamd/internal/jobs"
)

var (
	syncRepo    string
	syncTimeout time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the notes git submodule",
	Long: `Runs "git submodule sync" and "git submodule update --init" in the
notes repository. Failures are reported and never retried automatically.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		repo := syncRepo
		if repo == "" {
			repo = cfg.RepoDir
		}

		if err := jobs.Sync(cmd.Context(), jobs.SyncConfig{RepoDir: repo, Timeout: syncTimeout}); err != nil {
			return fmt.Errorf("submodule sync: %w", err)
		}
		fmt.Println("submodule sync complete")
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncRepo, "repo", "", "git repository to sync (default: the notes root)")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 5*time.Minute, "timeout for the git commands")
}
