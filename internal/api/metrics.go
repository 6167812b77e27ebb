// SPDX-License-Identifier: MIT

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foamd_page_requests_total",
		Help: "Rendered note page requests by outcome",
	}, []string{"outcome"})

	fileRequestsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foamd_file_requests_denied_total",
		Help: "Raw file requests denied, by reason",
	}, []string{"reason"})

	fileRequestsAllowed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foamd_file_requests_allowed_total",
		Help: "Raw file requests served",
	})

	fileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foamd_file_cache_hits_total",
		Help: "Raw file requests answered with 304 Not Modified",
	})
)

func recordPageRequest(outcome string) {
	pageRequests.WithLabelValues(outcome).Inc()
}

func recordFileRequestDenied(reason string) {
	fileRequestsDenied.WithLabelValues(reason).Inc()
}

func recordFileRequestAllowed() {
	fileRequestsAllowed.Inc()
}

func recordFileCacheHit() {
	fileCacheHits.Inc()
}
