// Copyright (c) 2025, modctl authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package verifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modctl_verify_duration_seconds",
			Help:    "Time spent verifying module readiness after an operation",
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120},
		},
	)

	verifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modctl_verify_total",
			Help: "Total number of verification runs",
		},
		[]string{"status"}, // ready or not_ready
	)

	verifyAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modctl_verify_attempts",
			Help:    "Probe attempts per verification run",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)
)
