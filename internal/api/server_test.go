// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foamd/foamd/internal/config"
	"github.com/foamd/foamd/internal/notes"
	"github.com/foamd/foamd/internal/render"
)

func newTestServer(t *testing.T) (*Server, http.Handler, string) {
	t.Helper()

	root := t.TempDir()
	writeNote(t, root, "readme.md", "# Home\n\nStart at [[project-ideas]].\n")
	writeNote(t, root, "project-ideas.md", "# Project ideas\n\nSee [[readme]] for context.\n")
	writeNote(t, root, "journal.md", "no heading, plain text\n")

	index := notes.NewIndex(root, nil)
	require.NoError(t, index.Scan(context.Background()))

	cfg := config.Defaults()
	cfg.NotesRoot = root
	cfg.CacheDir = ""
	cfg.RepoDir = root
	cfg.Version = "test"
	cfg.MetricsEnabled = false
	cfg.RateLimitEnabled = false

	srv := New(Options{
		Config:      cfg,
		Index:       index,
		RenderCache: render.NewCache(render.New(), nil),
	})
	return srv, srv.Routes(), root
}

func writeNote(t *testing.T, root, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o600))
}

func TestIndexPageServesConfiguredNote(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Home</h1>")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestNotePageRendersWikilinksAndBacklinks(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/project-ideas", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Project ideas</h1>")
	assert.Contains(t, body, `href="/readme"`)
	// readme links here, so it shows up as a backlink.
	assert.Contains(t, body, "Linked from")
	assert.Contains(t, body, "Home")
}

func TestNotePageNotFound(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-note", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no-such-note")
}

func TestServingDoesNotMutateNotesRoot(t *testing.T) {
	_, h, root := newTestServer(t)

	before := snapshotDir(t, root)

	for _, path := range []string{"/", "/project-ideas", "/journal", "/missing", "/raw/readme.md", "/api/notes"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, before, snapshotDir(t, root))
}

func snapshotDir(t *testing.T, root string) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		info, err := e.Info()
		require.NoError(t, err)
		out[e.Name()] = info.ModTime().UnixNano() + info.Size()
	}
	return out
}

func TestRawFileServed(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/raw/readme.md", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "[[project-ideas]]")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.NotEmpty(t, w.Header().Get("ETag"))
}

func TestRawFileETagRoundTrip(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/raw/readme.md", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req = httptest.NewRequest(http.MethodGet, "/raw/readme.md", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestRawFileTraversalBlocked(t *testing.T) {
	_, h, _ := newTestServer(t)

	for _, path := range []string{
		"/raw/../etc/passwd",
		"/raw/%2e%2e/secret",
		"/raw/%252e%252e/secret",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.NotEqual(t, http.StatusOK, w.Code, "path %s must not be served", path)
	}
}

func TestRawFileMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)
	h := srv.secureFileServer()

	req := httptest.NewRequest(http.MethodPost, "/readme.md", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRawFileDirectoryForbidden(t *testing.T) {
	srv, _, root := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o750))
	h := srv.secureFileServer()

	req := httptest.NewRequest(http.MethodGet, "/sub/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompleteEndpoint(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/complete?q=proj", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "project-ideas")
}

func TestCompleteRequiresQuery(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/complete", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBacklinksEndpoint(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/backlinks/project-ideas", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"readme"`)
}

func TestBacklinksUnknownNote(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/backlinks/ghost", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"version":"test"`)
	assert.Contains(t, body, `"notes":3`)
}

func TestReindexEndpoint(t *testing.T) {
	_, h, root := newTestServer(t)

	writeNote(t, root, "fresh.md", "# Fresh\n")

	req := httptest.NewRequest(http.MethodPost, "/api/reindex", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notes":4`)

	// The new note is now served.
	req = httptest.NewRequest(http.MethodGet, "/fresh", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncRejectsNonRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	// The temp dir is not a git repository; the failure is reported, not retried.
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestHealthEndpoints(t *testing.T) {
	_, h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidStemRejected(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	srv.servePage(w, req, "../../etc/passwd")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "root:"))
}
