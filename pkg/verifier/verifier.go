/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package verifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/module"
	"github.com/modctl/modctl/pkg/probe"
)

// Outcome is the result of a verification. NotReady is an observation, not
// an error: callers decide whether it is fatal.
type Outcome struct {
	// Ready reports whether the probe succeeded within the deadline.
	Ready bool

	// Attempts is the number of probe attempts made.
	Attempts int

	// Elapsed is the total time spent verifying.
	Elapsed time.Duration

	// LastDetail carries the most recent probe failure detail, including any
	// diagnostic output, when Ready is false.
	LastDetail string
}

// Verifier confirms that a just-changed module reached a ready state by
// polling its declared probe at a fixed interval until it succeeds or the
// deadline elapses. Distinct from detection: verification checks liveness
// after an operation, not applicability.
type Verifier struct {
	prober   probe.Prober
	interval time.Duration
	deadline time.Duration
}

// Option is a functional option for configuring Verifier instances.
type Option func(*Verifier)

// WithProber overrides the production prober (used by tests).
func WithProber(p probe.Prober) Option {
	return func(v *Verifier) {
		v.prober = p
	}
}

// WithInterval overrides the default polling interval.
func WithInterval(d time.Duration) Option {
	return func(v *Verifier) {
		v.interval = d
	}
}

// WithDeadline overrides the default verification deadline.
func WithDeadline(d time.Duration) Option {
	return func(v *Verifier) {
		v.deadline = d
	}
}

// New creates a Verifier with the provided options.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		prober:   probe.NewRunner(),
		interval: defaults.VerifyInterval,
		deadline: defaults.VerifyDeadline,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify polls the spec's probe until it reports ready or the deadline
// elapses. The first attempt happens immediately; subsequent attempts are
// spaced by the fixed interval (no busy loop). Context cancellation ends
// the poll early with the last observed detail.
func (v *Verifier) Verify(ctx context.Context, moduleID string, spec module.Verification) Outcome {
	deadline := spec.Deadline.Std()
	if deadline <= 0 {
		deadline = v.deadline
	}
	interval := spec.Interval.Std()
	if interval <= 0 {
		interval = v.interval
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	start := time.Now()
	out := Outcome{}
	defer func() {
		out.Elapsed = time.Since(start)
		verifyDuration.Observe(out.Elapsed.Seconds())
		status := "ready"
		if !out.Ready {
			status = "not_ready"
		}
		verifyTotal.WithLabelValues(status).Inc()
		verifyAttempts.Observe(float64(out.Attempts))
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		out.Attempts++
		err := v.prober.Probe(ctx, spec.Probe)
		if err == nil {
			out.Ready = true
			slog.Debug("verification ready",
				"module", moduleID,
				"probe", spec.Probe.String(),
				"attempts", out.Attempts)
			return out
		}
		out.LastDetail = err.Error()

		select {
		case <-ctx.Done():
			slog.Debug("verification not ready",
				"module", moduleID,
				"probe", spec.Probe.String(),
				"attempts", out.Attempts,
				"detail", out.LastDetail)
			return out
		case <-ticker.C:
		}
	}
}
