// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foamd/foamd/internal/jobs"
	"github.com/foamd/foamd/internal/log"
	"github.com/foamd/foamd/internal/notes"
)

const autocompleteLimit = 10

type completeResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// handleComplete answers note name autocompletion queries.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "missing_query", "query parameter q is required")
		return
	}

	writeJSON(w, r, http.StatusOK, completeResponse{
		Query:       q,
		Suggestions: s.index.Autocomplete(q, autocompleteLimit),
	})
}

type noteSummary struct {
	Stem  string `json:"stem"`
	Title string `json:"title"`
}

// handleNotes lists all indexed notes.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	all := s.index.Notes()
	out := make([]noteSummary, 0, len(all))
	for _, n := range all {
		out = append(out, noteSummary{Stem: n.Stem, Title: n.Title})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"notes": out})
}

type backlinksResponse struct {
	Stem      string           `json:"stem"`
	Backlinks []notes.Backlink `json:"backlinks"`
}

// handleBacklinks returns the notes linking to the given stem.
func (s *Server) handleBacklinks(w http.ResponseWriter, r *http.Request) {
	stem := chi.URLParam(r, "stem")
	if err := notes.ValidateStem(stem); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_stem", err.Error())
		return
	}
	if !s.index.Exists(stem) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such note")
		return
	}

	bl := s.index.Backlinks(stem)
	if bl == nil {
		bl = []notes.Backlink{}
	}
	writeJSON(w, r, http.StatusOK, backlinksResponse{Stem: stem, Backlinks: bl})
}

type statusResponse struct {
	Version     string      `json:"version"`
	UptimeSecs  int64       `json:"uptime_seconds"`
	Notes       int         `json:"notes"`
	Refreshing  bool        `json:"refreshing"`
	LastSync    jobs.Status `json:"last_sync"`
	LastReindex jobs.Status `json:"last_reindex"`
}

// handleStatus reports daemon status and the outcome of the last jobs.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jobMu.Lock()
	syncStatus := s.syncStatus
	reindexStatus := s.reindexStatus
	s.jobMu.Unlock()

	writeJSON(w, r, http.StatusOK, statusResponse{
		Version:     s.cfg.Version,
		UptimeSecs:  int64(time.Since(s.startTime).Seconds()),
		Notes:       len(s.index.Notes()),
		Refreshing:  s.refreshing.Load(),
		LastSync:    syncStatus,
		LastReindex: reindexStatus,
	})
}

// handleSync triggers a git submodule sync followed by a reindex. Only one
// job runs at a time; a failed sync is reported and never retried
// automatically.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !s.refreshing.CompareAndSwap(false, true) {
		writeError(w, r, http.StatusConflict, "busy", "another job is already running")
		return
	}
	defer s.refreshing.Store(false)

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().Str("event", "job.sync.start").Str("repo", s.cfg.RepoDir).Msg("starting submodule sync")

	status := jobs.Status{LastRun: time.Now()}
	if err := jobs.Sync(r.Context(), jobs.SyncConfig{RepoDir: s.cfg.RepoDir}); err != nil {
		status.Error = err.Error()
		s.setSyncStatus(status)
		logger.Error().Err(err).Str("event", "job.sync.failed").Msg("submodule sync failed")
		writeJSON(w, r, http.StatusInternalServerError, status)
		return
	}

	// The sync may have changed note files; rebuild the index.
	reindexStatus, err := jobs.Reindex(r.Context(), s.index, s.cfg.CacheDir)
	if err != nil {
		status.Error = err.Error()
		s.setSyncStatus(status)
		logger.Error().Err(err).Str("event", "job.sync.reindex_failed").Msg("reindex after sync failed")
		writeJSON(w, r, http.StatusInternalServerError, status)
		return
	}
	status.Notes = reindexStatus.Notes
	s.setSyncStatus(status)
	s.setReindexStatus(*reindexStatus)

	logger.Info().Str("event", "job.sync.done").Int("notes", status.Notes).Msg("submodule sync complete")
	writeJSON(w, r, http.StatusOK, status)
}

// handleReindex rebuilds the note index and backlink graph.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if !s.refreshing.CompareAndSwap(false, true) {
		writeError(w, r, http.StatusConflict, "busy", "another job is already running")
		return
	}
	defer s.refreshing.Store(false)

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().Str("event", "job.reindex.start").Msg("starting reindex")

	status, err := jobs.Reindex(r.Context(), s.index, s.cfg.CacheDir)
	if err != nil {
		failed := jobs.Status{LastRun: time.Now(), Error: err.Error()}
		s.setReindexStatus(failed)
		logger.Error().Err(err).Str("event", "job.reindex.failed").Msg("reindex failed")
		writeJSON(w, r, http.StatusInternalServerError, failed)
		return
	}
	s.setReindexStatus(*status)

	logger.Info().Str("event", "job.reindex.done").Int("notes", status.Notes).Msg("reindex complete")
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) setSyncStatus(st jobs.Status) {
	s.jobMu.Lock()
	s.syncStatus = st
	s.jobMu.Unlock()
}

func (s *Server) setReindexStatus(st jobs.Status) {
	s.jobMu.Lock()
	s.reindexStatus = st
	s.jobMu.Unlock()
}
