// SPDX-License-Identifier: MIT

package jobs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reindexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "foamd_reindex_duration_seconds",
		Help:    "Duration of reindex operations in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 10), // 10ms .. ~5s
	})

	notesIndexed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foamd_notes",
		Help: "Number of notes found during the last reindex",
	})

	lastReindexTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foamd_last_reindex_timestamp",
		Help: "Timestamp of the last successful reindex (Unix timestamp)",
	})

	syncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foamd_sync_total",
		Help: "Number of submodule sync runs by result",
	}, []string{"result"})
)

func recordReindexMetrics(duration time.Duration, noteCount int) {
	reindexDuration.Observe(duration.Seconds())
	notesIndexed.Set(float64(noteCount))
	lastReindexTime.Set(float64(time.Now().Unix()))
}

func recordSyncResult(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	syncTotal.WithLabelValues(result).Inc()
}
