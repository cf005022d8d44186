/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modctl_artifact_fetch_total",
		Help: "Total artifact fetches by result.",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modctl_artifact_fetch_duration_seconds",
		Help:    "Duration of successful artifact fetches.",
		Buckets: prometheus.DefBuckets,
	})

	fetchBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modctl_artifact_fetch_bytes_total",
		Help: "Total bytes fetched for artifacts.",
	})
)
