/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package hook

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/modctl/modctl/pkg/errors"
)

// Kind is the tag of the Action variant.
type Kind string

const (
	// KindNone marks the absence of an action. Running it is a no-op.
	KindNone Kind = ""
	// KindNamed references an in-process operation registered against a
	// closed set known at registry-build time.
	KindNamed Kind = "named"
	// KindExec describes an external process invocation by literal argument
	// vector. The vector is handed to the OS as-is; no shell parses it.
	KindExec Kind = "exec"
)

// Action is a tagged variant: a named in-process operation or a literal
// argument vector. It is never a free-form interpolated command string,
// which closes the injection class structurally.
type Action struct {
	Kind Kind     `yaml:"kind" json:"kind"`
	Name string   `yaml:"name,omitempty" json:"name,omitempty"`
	Argv []string `yaml:"argv,omitempty" json:"argv,omitempty"`
}

// None returns the empty action.
func None() Action {
	return Action{Kind: KindNone}
}

// Named constructs a reference to a registered in-process operation. Whether
// the name is actually registered is checked by Runner.Validate at
// registry-build time.
func Named(name string) (Action, error) {
	if strings.TrimSpace(name) == "" {
		return Action{}, errors.New(errors.ErrCodeUnsafeHook, "named hook requires a non-empty name")
	}
	return Action{Kind: KindNamed, Name: name}, nil
}

// MustNamed is like Named but panics on an invalid name. It simplifies safe
// initialization of actions with compile-time-constant names.
func MustNamed(name string) Action {
	a, err := Named(name)
	if err != nil {
		panic(err)
	}
	return a
}

// Exec constructs an external-process action from a literal argument vector.
// The vector is validated; untrusted input that could not survive as a plain
// argument is rejected with UnsafeHookRejected rather than quoted or escaped.
func Exec(argv ...string) (Action, error) {
	a := Action{Kind: KindExec, Argv: argv}
	if err := validateArgv(argv); err != nil {
		return Action{}, err
	}
	return a, nil
}

// IsZero reports whether the action is the empty no-op.
func (a Action) IsZero() bool {
	return a.Kind == KindNone
}

// Validate re-checks the action's structural invariants. Catalog-loaded
// actions go through this before registration.
func (a Action) Validate() error {
	switch a.Kind {
	case KindNone:
		return nil
	case KindNamed:
		if strings.TrimSpace(a.Name) == "" {
			return errors.New(errors.ErrCodeUnsafeHook, "named hook requires a non-empty name")
		}
		return nil
	case KindExec:
		return validateArgv(a.Argv)
	default:
		return errors.New(errors.ErrCodeUnsafeHook,
			fmt.Sprintf("unknown hook kind: %q", a.Kind))
	}
}

// String returns a short identity for logs.
func (a Action) String() string {
	switch a.Kind {
	case KindNamed:
		return fmt.Sprintf("named(%s)", a.Name)
	case KindExec:
		return fmt.Sprintf("exec(%v)", a.Argv)
	default:
		return "none"
	}
}

// validateArgv rejects vectors that cannot be passed safely. The exec
// backend takes a true argument vector, so shell metacharacters in argument
// values are harmless data; only control characters (which can corrupt logs,
// environment blocks, or a fallback single-line backend) are rejected.
func validateArgv(argv []string) error {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return errors.New(errors.ErrCodeUnsafeHook, "exec hook requires a non-empty argument vector")
	}
	for i, arg := range argv {
		for _, r := range arg {
			if r == 0 || (unicode.IsControl(r) && r != '\t') {
				return errors.NewWithContext(errors.ErrCodeUnsafeHook,
					"exec hook argument contains a control character",
					map[string]any{"arg_index": i})
			}
		}
	}
	return nil
}
