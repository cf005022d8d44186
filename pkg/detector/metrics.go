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

package detector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	detectionPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modctl_detection_pass_duration_seconds",
			Help:    "Time taken by a full detection pass across all modules",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	detectionPassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modctl_detection_pass_total",
			Help: "Total number of detection passes",
		},
		[]string{"status"}, // success or canceled
	)

	detectionRuleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modctl_detection_rule_duration_seconds",
			Help:    "Time taken by individual detection rule evaluations",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10},
		},
	)

	detectionRuleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modctl_detection_rule_total",
			Help: "Total number of detection rule evaluations",
		},
		[]string{"outcome"}, // match, no_match, timeout
	)
)
