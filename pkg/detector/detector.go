/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package detector

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/module"
	"github.com/modctl/modctl/pkg/probe"
)

// maxScore is the upper bound of any confidence score.
const maxScore = 100

// Detector evaluates module detection rules and aggregates weighted matches
// into bounded confidence scores. Detection is read-only: probes never
// mutate persisted state, and a failing or timed-out probe is a non-match,
// never a fatal error for the pass.
type Detector struct {
	prober        probe.Prober
	workerLimit   int
	maxConfidence int
}

// Option is a functional option for configuring Detector instances.
type Option func(*Detector)

// WithProber overrides the production prober (used by tests).
func WithProber(p probe.Prober) Option {
	return func(d *Detector) {
		d.prober = p
	}
}

// WithWorkerLimit bounds the number of rules evaluated concurrently across
// all modules.
func WithWorkerLimit(n int) Option {
	return func(d *Detector) {
		d.workerLimit = n
	}
}

// WithMaxConfidence caps per-module scores below 100. The cap itself is
// clamped to [0,100] before use, so misconfiguration cannot widen the range.
func WithMaxConfidence(n int) Option {
	return func(d *Detector) {
		d.maxConfidence = n
	}
}

// New creates a Detector with the provided options.
func New(opts ...Option) *Detector {
	d := &Detector{
		prober:        probe.NewRunner(),
		workerLimit:   defaults.DetectionWorkerLimit,
		maxConfidence: maxScore,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ruleResult is the immutable outcome of one rule evaluation. Scores are
// aggregated over these after all goroutines finish; no shared counter is
// mutated concurrently.
type ruleResult struct {
	moduleID string
	weight   int
	matched  bool
}

// Detect evaluates every rule of every descriptor and returns the confidence
// score per module identifier. Rules run concurrently, bounded by the worker
// limit; each rule is cut off by its own timeout. The only error returned is
// cancellation of the parent context.
func (d *Detector) Detect(ctx context.Context, descriptors []module.Descriptor) (map[string]int, error) {
	start := time.Now()
	defer func() {
		detectionPassDuration.Observe(time.Since(start).Seconds())
	}()

	var total int
	for _, desc := range descriptors {
		total += len(desc.Rules)
	}
	results := make([]ruleResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit)

	i := 0
	for _, desc := range descriptors {
		for _, rule := range desc.Rules {
			idx, id, r := i, desc.ID, rule
			i++
			g.Go(func() error {
				results[idx] = ruleResult{
					moduleID: id,
					weight:   r.Weight,
					matched:  d.evaluate(gctx, id, r),
				}
				return nil
			})
		}
	}

	// Goroutines only record into their own slot; the group never returns a
	// rule error, so Wait fails only on context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		detectionPassTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}

	bound := clamp(d.maxConfidence, 0, maxScore)
	scores := make(map[string]int, len(descriptors))
	for _, desc := range descriptors {
		scores[desc.ID] = 0
	}
	for _, res := range results {
		if !res.matched {
			continue
		}
		scores[res.moduleID] = clamp(scores[res.moduleID]+res.weight, 0, bound)
	}

	detectionPassTotal.WithLabelValues("success").Inc()
	slog.Debug("detection pass complete",
		"modules", len(descriptors),
		"rules", total,
		"duration", time.Since(start))
	return scores, nil
}

// evaluate runs a single rule under its own timeout. Probe errors and
// timeouts both count as non-matching.
func (d *Detector) evaluate(ctx context.Context, moduleID string, rule module.DetectionRule) bool {
	timeout := rule.Timeout.Std()
	if timeout <= 0 {
		timeout = defaults.DetectionRuleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := d.prober.Probe(ctx, rule.Probe)
	detectionRuleDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "no_match"
		if ctx.Err() == context.DeadlineExceeded {
			outcome = "timeout"
		}
		detectionRuleTotal.WithLabelValues(outcome).Inc()
		slog.Debug("detection rule did not match",
			"module", moduleID,
			"probe", rule.Probe.String(),
			"outcome", outcome,
			"detail", err.Error())
		return false
	}

	detectionRuleTotal.WithLabelValues("match").Inc()
	return true
}

// Applicable returns the identifiers whose score exceeds the threshold,
// ranked by descending score with identifier order breaking ties.
func Applicable(scores map[string]int, threshold int) []string {
	ids := make([]string, 0, len(scores))
	for id, score := range scores {
		if score > threshold {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(a, b int) bool {
		if scores[ids[a]] != scores[ids[b]] {
			return scores[ids[a]] > scores[ids[b]]
		}
		return ids[a] < ids[b]
	})
	return ids
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
