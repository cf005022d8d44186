/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package transaction

import (
	"time"

	"github.com/modctl/modctl/pkg/hook"
)

// Operation is a module lifecycle operation applied by a transaction.
type Operation string

const (
	OperationEnable    Operation = "enable"
	OperationDisable   Operation = "disable"
	OperationInstall   Operation = "install"
	OperationReinstall Operation = "reinstall"
)

// Valid reports whether the operation is one of the known lifecycle verbs.
func (o Operation) Valid() bool {
	switch o {
	case OperationEnable, OperationDisable, OperationInstall, OperationReinstall:
		return true
	}
	return false
}

// changesEnabledState reports whether committing the operation flips the
// module's persisted enabled flag on.
func (o Operation) changesEnabledState() bool {
	return o != OperationDisable
}

// Step is one planned module operation with its forward and rollback actions.
type Step struct {
	ModuleID  string
	Operation Operation
	Action    hook.Action
	Rollback  hook.Action
}

// Plan is an ordered, dependency-sorted sequence of steps. It is immutable
// once execution begins.
type Plan struct {
	Operation Operation
	Steps     []Step
}

// ModuleIDs returns the planned module identifiers in execution order.
func (p *Plan) ModuleIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ModuleID
	}
	return ids
}

// Phase is the transaction lifecycle state.
type Phase string

const (
	PhasePending    Phase = "Pending"
	PhaseRunning    Phase = "Running"
	PhaseCommitted  Phase = "Committed"
	PhaseRolledBack Phase = "RolledBack"
	PhaseFailed     Phase = "Failed"
)

// RollbackError records one completed step that could not be unwound.
type RollbackError struct {
	ModuleID string
	Err      error
}

// Record is the mutable execution state of a single transaction. It is owned
// by the manager for the transaction's lifetime and returned to the caller as
// the final account of what happened.
type Record struct {
	ID        string
	Plan      *Plan
	Phase     Phase
	StartedAt time.Time
	EndedAt   time.Time

	// Completed lists steps that fully succeeded, in completion order.
	// Rollback walks this list in reverse.
	Completed []Step

	// FailureCause is the error that aborted the run, if any.
	FailureCause error

	// RollbackErrors lists completed steps whose rollback action failed.
	// Non-empty RollbackErrors forces the terminal phase to Failed.
	RollbackErrors []RollbackError
}
