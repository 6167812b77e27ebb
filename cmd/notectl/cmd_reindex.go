// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foamd/foamd/internal/config"
	"github.com/foamd/foamd/internal/jobs"
	"github.com/foamd/foamd/internal/notes"
)

var rootOverride string

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the note index snapshot",
	Long: `Scans the notes root and writes a fresh index snapshot to the cache
directory. The daemon's own badger store is not touched, so this is safe to
run while foamd is serving; trigger POST /api/reindex afterwards to refresh
the live index.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		index := notes.NewIndex(cfg.NotesRoot, nil)
		status, err := jobs.Reindex(cmd.Context(), index, cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("reindex: %w", err)
		}
		fmt.Printf("indexed %d notes\n", status.Notes)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOverride, "root", "", "notes root (default: NOTES_ROOT)")
}

// loadConfig resolves the effective configuration, honoring --root.
func loadConfig() (config.AppConfig, error) {
	if rootOverride != "" {
		if err := os.Setenv("NOTES_ROOT", rootOverride); err != nil {
			return config.AppConfig{}, err
		}
	}
	loader := config.NewLoader(os.Getenv("FOAMD_CONFIG"), version)
	return loader.Load()
}
