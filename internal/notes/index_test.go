// SPDX-License-Identifier: MIT

package notes

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/foamd/foamd/internal/store"
)

func scanTestIndex(t *testing.T, root string, cache *store.Store) *Index {
	t.Helper()
	ix := NewIndex(root, cache)
	require.NoError(t, ix.Scan(context.Background()))
	return ix
}

func TestScanBuildsTitlesAndBacklinks(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "readme", "# Welcome\n\nStart at [[go-concurrency]].\n")
	writeNote(t, root, "go-concurrency", "# Go Concurrency\n\nSee also [[readme]] and [[channels]].\n")
	writeNote(t, root, "channels", "# Channels\n\nbody\n")

	ix := scanTestIndex(t, root, nil)

	require.Equal(t, "Welcome", ix.Title("readme"))
	require.Equal(t, "Go Concurrency", ix.Title("go-concurrency"))

	got := ix.Backlinks("channels")
	want := []Backlink{{Stem: "go-concurrency", Title: "Go Concurrency"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Backlinks mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, ix.Backlinks("readme"), 1)
	require.Empty(t, ix.Backlinks("no-such-note"))
}

func TestScanPersistsAndReloadsSnapshot(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a", "# A\n\n[[b]]\n")
	writeNote(t, root, "b", "# B\nbody\n")

	cache, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, cache.Close()) }()

	scanTestIndex(t, root, cache)

	// A fresh index over the same cache picks up the persisted backlinks.
	ix2 := scanTestIndex(t, root, cache)
	bl := ix2.Backlinks("b")
	require.Len(t, bl, 1)
	require.Equal(t, "a", bl[0].Stem)
}

func TestScanRefreshesChangedNote(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a", "# A\n\n[[b]]\n")
	writeNote(t, root, "b", "# B\nbody\n")

	ix := scanTestIndex(t, root, nil)
	require.Len(t, ix.Backlinks("b"), 1)

	// Rewrite a to drop the link, with a strictly newer mtime.
	path := writeNote(t, root, "a", "# A\n\nno more links\n")
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	require.NoError(t, ix.Scan(context.Background()))
	require.Empty(t, ix.Backlinks("b"))
}

func TestScanDropsDeletedReferrer(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a", "# A\n\n[[b]]\n")
	writeNote(t, root, "b", "# B\nbody\n")

	ix := scanTestIndex(t, root, nil)
	require.Len(t, ix.Backlinks("b"), 1)

	require.NoError(t, os.Remove(filepath.Join(root, "a.md")))
	require.NoError(t, ix.Scan(context.Background()))
	require.Empty(t, ix.Backlinks("b"))
	_, ok := ix.Note("a")
	require.False(t, ok)
}

func TestAutocomplete(t *testing.T) {
	root := t.TempDir()
	for _, stem := range []string{"go-basics", "go-channels", "go-generics", "python-basics"} {
		writeNote(t, root, stem, "# T\nbody\n")
	}

	ix := scanTestIndex(t, root, nil)

	require.Equal(t, []string{"go-basics", "go-channels", "go-generics"}, ix.Autocomplete("go ", 10))
	require.Equal(t, []string{"go-basics", "go-channels"}, ix.Autocomplete("go", 2))
	require.Equal(t, []string{"go-basics", "python-basics"}, ix.Autocomplete("Basics", 10))
}

func TestExistsRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "safe", "# S\nbody\n")

	ix := scanTestIndex(t, root, nil)

	require.True(t, ix.Exists("safe"))
	require.False(t, ix.Exists("../safe"))
	require.False(t, ix.Exists("nope"))
}

func TestWriteSnapshot(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "readme", "# Welcome\nbody\n")

	ix := scanTestIndex(t, root, nil)

	out := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, ix.WriteSnapshot(out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	require.Len(t, snap.Notes, 1)
	require.Equal(t, "readme", snap.Notes[0].Stem)
	require.Equal(t, "Welcome", snap.Notes[0].Title)
	require.False(t, snap.GeneratedAt.IsZero())
}
