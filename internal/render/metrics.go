// SPDX-License-Identifier: MIT

package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "foamd_render_duration_seconds",
		Help:    "Duration of markdown render operations in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2.0, 12), // 1ms .. ~4s
	})

	renderCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foamd_render_cache_hits_total",
		Help: "Number of note renders served from the cache store",
	})

	renderCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foamd_render_cache_misses_total",
		Help: "Number of note renders that required a markdown conversion",
	})
)

func recordRenderDuration(d time.Duration) {
	renderDuration.Observe(d.Seconds())
}

func recordRenderCacheHit() {
	renderCacheHitsTotal.Inc()
}

func recordRenderCacheMiss() {
	renderCacheMissesTotal.Inc()
}
