/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package transaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modctl_transaction_total",
		Help: "Total transactions by terminal phase.",
	}, []string{"phase"})

	transactionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modctl_transaction_duration_seconds",
		Help:    "End-to-end transaction duration including rollback.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	stepTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modctl_transaction_step_total",
		Help: "Total executed steps by operation and result.",
	}, []string{"operation", "result"})

	rollbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modctl_transaction_rollback_step_total",
		Help: "Total rollback step executions by result.",
	}, []string{"result"})
)
