/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/errors"
	"github.com/modctl/modctl/pkg/fetcher"
	"github.com/modctl/modctl/pkg/hook"
	"github.com/modctl/modctl/pkg/lock"
	"github.com/modctl/modctl/pkg/module"
	"github.com/modctl/modctl/pkg/renderer"
	"github.com/modctl/modctl/pkg/reporter"
	"github.com/modctl/modctl/pkg/state"
	"github.com/modctl/modctl/pkg/verifier"
)

// defaultLockKey scopes all transactions on a host to one lease.
const defaultLockKey = "transactions"

// configParamKey carries rendered configuration into hook parameters.
const configParamKey = "config"

// Manager plans and executes module operations as one atomic unit. Steps run
// sequentially in dependency order under a host-scoped lock; on any step
// failure every completed step is unwound in reverse order, and the persisted
// enabled state is committed only after a fully successful run.
type Manager struct {
	registry *module.Registry
	store    *state.Store
	locks    *lock.Manager
	hooks    *hook.Runner
	verify   *verifier.Verifier

	fetch   fetcher.Fetcher
	render  renderer.ConfigRenderer
	report  reporter.Reporter
	timeout time.Duration
	lockKey string
}

// Option configures the manager.
type Option func(*Manager)

// WithFetcher supplies the artifact fetcher used by install operations.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(m *Manager) { m.fetch = f }
}

// WithRenderer supplies the config renderer used for modules that declare a
// config template.
func WithRenderer(r renderer.ConfigRenderer) Option {
	return func(m *Manager) { m.render = r }
}

// WithReporter supplies the event sink. Events are fire-and-forget.
func WithReporter(r reporter.Reporter) Option {
	return func(m *Manager) { m.report = r }
}

// WithTimeout overrides the overall transaction deadline.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLockKey overrides the host lock key.
func WithLockKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.lockKey = key
		}
	}
}

// NewManager wires a transaction manager from its collaborators.
func NewManager(reg *module.Registry, store *state.Store, locks *lock.Manager,
	hooks *hook.Runner, v *verifier.Verifier, opts ...Option) *Manager {
	m := &Manager{
		registry: reg,
		store:    store,
		locks:    locks,
		hooks:    hooks,
		verify:   v,
		render:   renderer.NewTemplateRenderer(),
		timeout:  defaults.TransactionTimeout,
		lockKey:  defaultLockKey,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Plan builds the dependency-ordered step sequence for applying op to ids.
// Enable-like operations run in dependency order; disable runs in reverse, so
// dependents are torn down before their dependencies. Dependencies outside
// the requested set must already be enabled in the persisted state.
func (m *Manager) Plan(op Operation, ids []string) (*Plan, error) {
	if !op.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown operation %q", op))
	}
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no modules requested")
	}

	order, err := m.registry.ResolveDependencyOrder(ids)
	if err != nil {
		return nil, err
	}

	if op.changesEnabledState() {
		if err := m.checkExternalDeps(order); err != nil {
			return nil, err
		}
	} else {
		// Disable tears dependents down before their dependencies.
		reverse(order)
	}

	plan := &Plan{Operation: op, Steps: make([]Step, 0, len(order))}
	for _, id := range order {
		desc, err := m.registry.Lookup(id)
		if err != nil {
			return nil, err
		}
		step, err := m.buildStep(op, desc)
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

// checkExternalDeps rejects plans whose dependencies are neither in the
// requested set nor already enabled on the host.
func (m *Manager) checkExternalDeps(order []string) error {
	current, err := m.store.Read()
	if err != nil {
		return err
	}
	missing := m.registry.MissingDependencies(order, current.EnabledIDs())
	if len(missing) == 0 {
		return nil
	}

	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	first := ids[0]
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("module %q requires %v to be enabled first", first, missing[first]),
		map[string]any{"missing": missing})
}

// buildStep selects the forward and rollback actions for one module and
// validates both against the hook runner before execution begins.
func (m *Manager) buildStep(op Operation, desc *module.Descriptor) (Step, error) {
	var action, rollback hook.Action
	switch op {
	case OperationEnable:
		action, rollback = desc.Hooks.Enable, desc.Hooks.Rollback
	case OperationDisable:
		// Undoing a disable means bringing the module back up.
		action, rollback = desc.Hooks.Disable, desc.Hooks.Enable
	case OperationInstall, OperationReinstall:
		action, rollback = desc.Hooks.Install, desc.Hooks.Rollback
	}

	for _, a := range []hook.Action{action, rollback} {
		if a.IsZero() {
			continue
		}
		if err := m.hooks.Validate(a); err != nil {
			return Step{}, errors.Wrap(errors.ErrCodeUnsafeHook,
				fmt.Sprintf("module %q %s hook rejected", desc.ID, op), err)
		}
	}

	return Step{ModuleID: desc.ID, Operation: op, Action: action, Rollback: rollback}, nil
}

// Apply executes the plan. It acquires the host lock, runs steps in order,
// verifies state-changing steps, and commits the persisted enabled-state
// delta only after every step succeeded. On any failure, completed steps are
// unwound in reverse order and the persisted state is left untouched.
func (m *Manager) Apply(ctx context.Context, plan *Plan) (*Record, error) {
	rec := &Record{
		ID:        uuid.NewString(),
		Plan:      plan,
		Phase:     PhasePending,
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		rec.EndedAt = time.Now().UTC()
		transactionTotal.WithLabelValues(string(rec.Phase)).Inc()
		transactionDuration.Observe(rec.EndedAt.Sub(rec.StartedAt).Seconds())
	}()

	if plan == nil || len(plan.Steps) == 0 {
		rec.Phase = PhaseFailed
		rec.FailureCause = errors.New(errors.ErrCodeInvalidRequest, "empty transaction plan")
		return rec, rec.FailureCause
	}

	lease, err := m.locks.Acquire(m.lockKey, defaults.LockTTL)
	if err != nil {
		rec.Phase = PhaseFailed
		rec.FailureCause = err
		return rec, err
	}
	defer func() {
		if err := m.locks.Release(lease); err != nil {
			slog.Warn("failed to release transaction lock", "transaction", rec.ID, "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	rec.Phase = PhaseRunning
	slog.Info("transaction started",
		"transaction", rec.ID, "operation", plan.Operation, "modules", plan.ModuleIDs())

	for _, step := range plan.Steps {
		if err := m.runStep(ctx, rec, step); err != nil {
			rec.FailureCause = err
			m.emit(rec, step.ModuleID, "step_failed", err.Error())
			return m.rollback(ctx, rec)
		}
		rec.Completed = append(rec.Completed, step)
		stepTotal.WithLabelValues(string(step.Operation), "success").Inc()
		m.emit(rec, step.ModuleID, "step_completed", "")
	}

	if err := m.commit(rec); err != nil {
		rec.FailureCause = err
		m.emit(rec, "", "commit_failed", err.Error())
		return m.rollback(ctx, rec)
	}

	rec.Phase = PhaseCommitted
	m.emit(rec, "", "committed", "")
	slog.Info("transaction committed", "transaction", rec.ID, "steps", len(rec.Completed))
	return rec, nil
}

// runStep executes one step: optional artifact fetch, optional config render,
// the hook action, then verification when the module declares one.
func (m *Manager) runStep(ctx context.Context, rec *Record, step Step) error {
	// External cancellation is a synthetic step failure, never a silent abort.
	if err := ctx.Err(); err != nil {
		stepTotal.WithLabelValues(string(step.Operation), "cancelled").Inc()
		return errors.Wrap(errors.ErrCodeStepFailed,
			fmt.Sprintf("step %s %q aborted", step.Operation, step.ModuleID), err)
	}

	desc, err := m.registry.Lookup(step.ModuleID)
	if err != nil {
		return err
	}

	params := cloneParams(desc.Params)

	if step.Operation != OperationDisable {
		if desc.Artifact.ID != "" && (step.Operation == OperationInstall || step.Operation == OperationReinstall) {
			if err := m.fetchArtifact(ctx, desc); err != nil {
				stepTotal.WithLabelValues(string(step.Operation), "fetch_failed").Inc()
				return err
			}
		}
		if desc.ConfigTemplate != "" {
			rendered, err := m.render.Render(desc.ConfigTemplate, desc.Params)
			if err != nil {
				stepTotal.WithLabelValues(string(step.Operation), "render_failed").Inc()
				return errors.Wrap(errors.ErrCodeStepFailed,
					fmt.Sprintf("failed to render config for module %q", desc.ID), err)
			}
			params[configParamKey] = string(rendered)
		}
	}

	if !step.Action.IsZero() {
		if err := m.hooks.Run(ctx, step.ModuleID, step.Action, params); err != nil {
			stepTotal.WithLabelValues(string(step.Operation), "hook_failed").Inc()
			return errors.Wrap(errors.ErrCodeStepFailed,
				fmt.Sprintf("step %s %q hook failed", step.Operation, step.ModuleID), err)
		}
	}

	if desc.Verify != nil && step.Operation.changesEnabledState() {
		outcome := m.verify.Verify(ctx, step.ModuleID, *desc.Verify)
		if !outcome.Ready {
			stepTotal.WithLabelValues(string(step.Operation), "verify_failed").Inc()
			return errors.NewWithContext(errors.ErrCodeStepFailed,
				fmt.Sprintf("module %q not ready after %s", step.ModuleID, step.Operation),
				map[string]any{
					"attempts": outcome.Attempts,
					"elapsed":  outcome.Elapsed.String(),
					"detail":   outcome.LastDetail,
				})
		}
	}

	return nil
}

// fetchArtifact retrieves and checksum-verifies the module's install payload.
func (m *Manager) fetchArtifact(ctx context.Context, desc *module.Descriptor) error {
	if m.fetch == nil {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("module %q declares artifact %q but no fetcher is configured",
				desc.ID, desc.Artifact.ID))
	}
	art, err := m.fetch.Fetch(ctx, desc.Artifact.ID, desc.Artifact.SHA256)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStepFailed,
			fmt.Sprintf("failed to fetch artifact for module %q", desc.ID), err)
	}
	slog.Debug("artifact ready", "module", desc.ID, "artifact", art.ID, "bytes", len(art.Bytes))
	return nil
}

// rollback unwinds completed steps in reverse completion order. Rollback
// failures are recorded but never abort the unwind; any rollback failure
// forces the terminal phase to Failed instead of RolledBack.
func (m *Manager) rollback(ctx context.Context, rec *Record) (*Record, error) {
	// Unwind even when the transaction was cancelled or timed out.
	ctx = context.WithoutCancel(ctx)

	for i := len(rec.Completed) - 1; i >= 0; i-- {
		step := rec.Completed[i]
		if step.Rollback.IsZero() {
			rollbackTotal.WithLabelValues("skipped").Inc()
			continue
		}
		if err := m.hooks.Run(ctx, step.ModuleID, step.Rollback, nil); err != nil {
			rec.RollbackErrors = append(rec.RollbackErrors, RollbackError{ModuleID: step.ModuleID, Err: err})
			rollbackTotal.WithLabelValues("failed").Inc()
			slog.Error("rollback step failed", "transaction", rec.ID, "module", step.ModuleID, "error", err)
			continue
		}
		rollbackTotal.WithLabelValues("success").Inc()
		m.emit(rec, step.ModuleID, "rolled_back", "")
	}

	if len(rec.RollbackErrors) > 0 {
		rec.Phase = PhaseFailed
		stuck := make([]string, 0, len(rec.RollbackErrors))
		for _, re := range rec.RollbackErrors {
			stuck = append(stuck, re.ModuleID)
		}
		err := errors.WrapWithContext(errors.ErrCodeRollbackFailed,
			fmt.Sprintf("rollback failed for modules %v, manual intervention required", stuck),
			rec.FailureCause, map[string]any{"modules": stuck})
		m.emit(rec, "", "failed", err.Error())
		return rec, err
	}

	rec.Phase = PhaseRolledBack
	m.emit(rec, "", "rolled_back", "")
	slog.Warn("transaction rolled back",
		"transaction", rec.ID, "cause", rec.FailureCause, "steps", len(rec.Completed))
	return rec, rec.FailureCause
}

// commit publishes the enabled-state delta atomically. The persisted state
// never reflects a partially applied transaction: this is the only writer
// path, and it runs only after every step succeeded.
func (m *Manager) commit(rec *Record) error {
	return m.store.AtomicUpdate(func(set state.Set) state.Set {
		for _, step := range rec.Completed {
			desc, err := m.registry.Lookup(step.ModuleID)
			var params map[string]string
			if err == nil {
				params = desc.Params
			}
			set = set.WithEnabled(step.ModuleID, step.Operation.changesEnabledState(), params)
		}
		return set
	})
}

func (m *Manager) emit(rec *Record, moduleID, phase, detail string) {
	if m.report == nil {
		return
	}
	op := ""
	if rec.Plan != nil {
		op = string(rec.Plan.Operation)
	}
	m.report.Report(reporter.Event{
		TransactionID: rec.ID,
		ModuleID:      moduleID,
		Operation:     op,
		Phase:         phase,
		Detail:        detail,
		Time:          time.Now().UTC(),
	})
}

func cloneParams(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
