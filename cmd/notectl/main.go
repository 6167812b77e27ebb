// SPDX-License-Identifier: MIT

// notectl is the operator CLI for a foamd notes tree. It syncs the notes
// submodule, rebuilds the index snapshot, and renames notes while keeping
// wikilinks consistent. Rename and reindex work directly on the notes root,
// so run them while the daemon is stopped or reindex afterwards.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	foamlog "github.com/foamd/foamd/internal/log"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "notectl",
	Short: "Operator tooling for a foamd notes tree",
	Long: `notectl manages the notes tree served by foamd.

The notes root is taken from the NOTES_ROOT environment variable unless
overridden with --root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("notectl %s (commit: %s, built: %s)\n", version, commit, buildDate)
	},
}

func main() {
	foamlog.Configure(foamlog.Config{
		Level:   os.Getenv("FOAMD_LOG_LEVEL"),
		Service: "notectl",
		Version: version,
	})

	rootCmd.AddCommand(versionCmd, syncCmd, reindexCmd, renameCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
