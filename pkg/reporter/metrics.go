/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package reporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modctl_reporter_events_dropped_total",
	Help: "Transaction events dropped because the reporter buffer was full.",
})
