// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foamd/foamd/internal/notes"
)

func TestReindexScansAndExports(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"),
		[]byte("# Welcome\nbody\n"), 0o600))

	cacheDir := t.TempDir()
	ix := notes.NewIndex(root, nil)

	status, err := Reindex(context.Background(), ix, cacheDir)
	require.NoError(t, err)
	require.Equal(t, 1, status.Notes)
	require.False(t, status.LastRun.IsZero())
	require.Empty(t, status.Error)

	_, err = os.Stat(filepath.Join(cacheDir, SnapshotFilename))
	require.NoError(t, err, "snapshot must be exported")
}

func TestReindexCreatesMissingCacheDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"),
		[]byte("# Welcome\nbody\n"), 0o600))

	// A fresh tree has no cache dir yet.
	cacheDir := filepath.Join(root, ".cache")
	ix := notes.NewIndex(root, nil)

	status, err := Reindex(context.Background(), ix, cacheDir)
	require.NoError(t, err)
	require.Equal(t, 1, status.Notes)

	_, err = os.Stat(filepath.Join(cacheDir, SnapshotFilename))
	require.NoError(t, err, "snapshot must be exported into the created dir")
}

func TestReindexWithoutCacheDirSkipsExport(t *testing.T) {
	ix := notes.NewIndex(t.TempDir(), nil)

	status, err := Reindex(context.Background(), ix, "")
	require.NoError(t, err)
	require.Equal(t, 0, status.Notes)
}
