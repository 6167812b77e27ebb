// SPDX-License-Identifier: MIT

package api

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foamd/foamd/internal/log"
	"github.com/foamd/foamd/internal/notes"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Title     string
	Stem      string
	Body      template.HTML
	Backlinks []notes.Backlink
}

// handleIndexPage serves the configured index note at "/".
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, s.cfg.IndexNote)
}

// handleNotePage serves a rendered note at "/{stem}".
func (s *Server) handleNotePage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, chi.URLParam(r, "stem"))
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, stem string) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	if err := notes.ValidateStem(stem); err != nil {
		logger.Warn().Str("event", "page.denied").Str("stem", stem).Msg("invalid note name")
		recordPageRequest("invalid")
		s.serveNotFound(w, r, stem)
		return
	}

	if !s.index.Exists(stem) {
		recordPageRequest("not_found")
		s.serveNotFound(w, r, stem)
		return
	}

	body, err := s.cache.HTML(r.Context(), s.index, stem)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			recordPageRequest("not_found")
			s.serveNotFound(w, r, stem)
			return
		}
		logger.Error().Err(err).Str("event", "page.render_error").Str("stem", stem).Msg("failed to render note")
		recordPageRequest("error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:     s.index.Title(stem),
		Stem:      stem,
		Body:      template.HTML(body), // #nosec G203 -- body is sanitized by the renderer
		Backlinks: s.index.Backlinks(stem),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	recordPageRequest("ok")
	if err := pageTemplates.ExecuteTemplate(w, "page.html", data); err != nil {
		logger.Error().Err(err).Str("event", "page.template_error").Str("stem", stem).Msg("failed to execute template")
	}
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request, stem string) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := pageTemplates.ExecuteTemplate(w, "404.html", pageData{Stem: stem}); err != nil {
		logger.Error().Err(err).Str("event", "page.template_error").Msg("failed to execute 404 template")
	}
}
