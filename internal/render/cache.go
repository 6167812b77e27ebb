// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/foamd/foamd/internal/log"
	"github.com/foamd/foamd/internal/notes"
	"github.com/foamd/foamd/internal/store"
)

// Cache serves rendered note HTML, backed by the badger store and keyed by
// the note file's mtime. Concurrent renders of the same note are collapsed
// into one.
type Cache struct {
	renderer *Renderer
	store    *store.Store // may be nil
	group    singleflight.Group

	// IgnoreCache bypasses cache reads; entries are still written through.
	IgnoreCache bool
}

// NewCache creates a render cache. st may be nil, which disables
// persistence and turns every request into a render.
func NewCache(renderer *Renderer, st *store.Store) *Cache {
	return &Cache{renderer: renderer, store: st}
}

// HTML returns the rendered body of the note with the given stem.
func (c *Cache) HTML(ctx context.Context, ix *notes.Index, stem string) ([]byte, error) {
	doc, err := notes.ParseFile(ix.NotePath(stem))
	if err != nil {
		return nil, fmt.Errorf("parse note %q: %w", stem, err)
	}
	mt := doc.ModTime.UnixNano()

	if c.store != nil && !c.IgnoreCache {
		if html, ok, err := c.store.GetHTML(stem, mt); err != nil {
			l := log.WithComponentFromContext(ctx, "render")
			l.Warn().Err(err).
				Str("stem", stem).Msg("render cache read failed")
		} else if ok {
			recordRenderCacheHit()
			return html, nil
		}
	}
	recordRenderCacheMiss()

	key := fmt.Sprintf("%s@%d", stem, mt)
	v, err, _ := c.group.Do(key, func() (any, error) {
		start := time.Now()
		html, err := c.renderer.Render(doc.Body, ix)
		if err != nil {
			return nil, err
		}
		recordRenderDuration(time.Since(start))

		if c.store != nil {
			if err := c.store.PutHTML(stem, mt, html); err != nil {
				l := log.WithComponentFromContext(ctx, "render")
				l.Warn().Err(err).
					Str("stem", stem).Msg("render cache write failed")
			}
		}
		return html, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
