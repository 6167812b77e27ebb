// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestHTMLRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetHTML("readme", 100)
	require.NoError(t, err)
	require.False(t, ok, "empty store should miss")

	require.NoError(t, s.PutHTML("readme", 100, []byte("<p>hello</p>")))

	html, ok, err := s.GetHTML("readme", 100)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("<p>hello</p>"), html)
}

func TestHTMLStaleMtimeMisses(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutHTML("note", 100, []byte("old")))

	_, ok, err := s.GetHTML("note", 200)
	require.NoError(t, err)
	require.False(t, ok, "newer mtime must invalidate the cached record")
}

func TestDeleteHTML(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutHTML("note", 1, []byte("x")))
	require.NoError(t, s.DeleteHTML("note"))
	require.NoError(t, s.DeleteHTML("never-existed"))

	_, ok, err := s.GetHTML("note", 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBacklinksRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, _, ok, err := s.GetBacklinks()
	require.NoError(t, err)
	require.False(t, ok)

	backlinks := map[string][]string{"target": {"a", "b"}}
	mtimes := map[string]int64{"a": 10, "b": 20}
	require.NoError(t, s.PutBacklinks(backlinks, mtimes))

	gotLinks, gotTimes, ok, err := s.GetBacklinks()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, backlinks, gotLinks)
	require.Equal(t, mtimes, gotTimes)
}
