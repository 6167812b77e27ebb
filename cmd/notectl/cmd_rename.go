// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foamd/foamd/internal/notes"
)

var renamePrefix bool

var renameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a note and rewrite wikilinks pointing at it",
	Long: `Renames a note file and rewrites every [[wikilink]] that refers to it.

With --prefix, OLD and NEW are treated as stem prefixes and every note
matching "OLD-..." is renamed to "NEW-...". Passing an empty NEW prefix
("") turns "OLD-rest" into "OLD.rest".

Run this while the daemon is stopped, or trigger a reindex afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		index := notes.NewIndex(cfg.NotesRoot, nil)
		if err := index.Scan(cmd.Context()); err != nil {
			return fmt.Errorf("scan notes: %w", err)
		}

		oldName, newName := args[0], args[1]
		if renamePrefix {
			if err := index.RenamePrefix(cmd.Context(), oldName, newName); err != nil {
				return fmt.Errorf("rename prefix: %w", err)
			}
			fmt.Printf("renamed notes with prefix %q\n", oldName)
			return nil
		}

		if err := index.Rename(cmd.Context(), oldName, newName); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
		fmt.Printf("renamed %q to %q\n", oldName, newName)
		return nil
	},
}

func init() {
	renameCmd.Flags().BoolVar(&renamePrefix, "prefix", false, "treat arguments as stem prefixes")
}
