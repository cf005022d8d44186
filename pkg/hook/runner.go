/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package hook

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/errors"
)

// Op is an in-process hook operation. Implementations receive the module
// identifier and its parameters and must honor the context deadline.
type Op func(ctx context.Context, moduleID string, params map[string]string) error

// Runner executes hook actions. Named operations form a closed set: they are
// registered before any descriptor referencing them is accepted, and lookup
// failures are registration-time errors, not run-time surprises.
type Runner struct {
	ops     map[string]Op
	timeout time.Duration
}

// Option is a functional option for configuring Runner instances.
type Option func(*Runner)

// WithTimeout overrides the default per-action execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a Runner with the provided options. The "noop"
// operation is always registered so descriptors can declare explicit
// do-nothing hooks.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		ops:     map[string]Op{},
		timeout: defaults.HookTimeout,
	}
	r.ops["noop"] = func(ctx context.Context, moduleID string, params map[string]string) error {
		return nil
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterOp adds a named in-process operation. Registration happens at
// startup, before catalog loading; duplicate names fail.
func (r *Runner) RegisterOp(name string, op Op) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "operation name cannot be empty")
	}
	if op == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "operation cannot be nil")
	}
	if _, exists := r.ops[name]; exists {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("operation %q already registered", name))
	}
	r.ops[name] = op
	return nil
}

// Ops returns the sorted names of registered operations.
func (r *Runner) Ops() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the action is structurally safe and, for named
// actions, that the reference resolves against the closed operation set.
func (r *Runner) Validate(a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Kind == KindNamed {
		if _, ok := r.ops[a.Name]; !ok {
			return errors.NewWithContext(errors.ErrCodeUnsafeHook,
				fmt.Sprintf("named hook %q is not a registered operation", a.Name),
				map[string]any{"registered": r.Ops()})
		}
	}
	return nil
}

// Run executes the action for the given module under the runner's timeout.
// Module parameters are passed to named operations directly and exported to
// exec actions as MODCTL_* environment variables, never spliced into the
// argument vector.
func (r *Runner) Run(ctx context.Context, moduleID string, a Action, params map[string]string) error {
	if a.IsZero() {
		return nil
	}
	if err := r.Validate(a); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	slog.Debug("running hook", "module", moduleID, "action", a.String())

	var err error
	switch a.Kind {
	case KindNamed:
		err = r.ops[a.Name](ctx, moduleID, params)
	case KindExec:
		err = r.runExec(ctx, moduleID, a, params)
	}

	if err != nil {
		slog.Debug("hook failed",
			"module", moduleID,
			"action", a.String(),
			"duration", time.Since(start),
			"error", err)
		return err
	}

	slog.Debug("hook completed",
		"module", moduleID,
		"action", a.String(),
		"duration", time.Since(start))
	return nil
}

// runExec invokes the literal argument vector. exec.CommandContext passes
// the vector to the OS without shell parsing.
func (r *Runner) runExec(ctx context.Context, moduleID string, a Action, params map[string]string) error {
	cmd := exec.CommandContext(ctx, a.Argv[0], a.Argv[1:]...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	cmd.Env = append(cmd.Environ(), "MODCTL_MODULE="+moduleID)
	for _, key := range sortedKeys(params) {
		cmd.Env = append(cmd.Env, "MODCTL_PARAM_"+strings.ToUpper(key)+"="+params[key])
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("hook %s: %w", a, ctx.Err())
		}
		return fmt.Errorf("hook %s: %w: %s", a, err, strings.TrimSpace(out.String()))
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
