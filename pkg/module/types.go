/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package module

import (
	"fmt"

	"github.com/modctl/modctl/pkg/hook"
	"github.com/modctl/modctl/pkg/probe"
)

// DetectionRule is a weighted, independently evaluated applicability probe.
// Rules never mutate shared state; their results are aggregated into a
// module confidence score.
type DetectionRule struct {
	// Probe describes what to check.
	Probe probe.Spec `yaml:"probe" json:"probe"`

	// Weight is the rule's contribution to the confidence score when it
	// matches. Valid range is [0,100]; the aggregate is clamped regardless.
	Weight int `yaml:"weight" json:"weight"`

	// Timeout bounds the rule's evaluation. A rule exceeding its timeout
	// counts as non-matching. Zero means the detector default.
	Timeout Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Verification declares how to confirm a module reached a ready state after
// a state-changing operation. Distinct from detection: it checks a specific,
// just-changed module's liveness, not applicability.
type Verification struct {
	// Probe is polled at Interval until it succeeds or Deadline elapses.
	Probe probe.Spec `yaml:"probe" json:"probe"`

	// Deadline bounds the whole verification. Zero means the default.
	Deadline Duration `yaml:"deadline,omitempty" json:"deadline,omitempty"`

	// Interval is the fixed polling interval. Zero means the default.
	Interval Duration `yaml:"interval,omitempty" json:"interval,omitempty"`
}

// ServiceIdentity is the module's declared host resource identity.
type ServiceIdentity struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Port int    `yaml:"port,omitempty" json:"port,omitempty"`
}

// Artifact identifies an installable payload and its expected checksum.
// Consumed by the Fetcher collaborator during install operations.
type Artifact struct {
	ID     string `yaml:"id,omitempty" json:"id,omitempty"`
	SHA256 string `yaml:"sha256,omitempty" json:"sha256,omitempty"`
}

// Hooks groups the lifecycle actions of a module.
type Hooks struct {
	Install  hook.Action `yaml:"install,omitempty" json:"install,omitempty"`
	Enable   hook.Action `yaml:"enable,omitempty" json:"enable,omitempty"`
	Disable  hook.Action `yaml:"disable,omitempty" json:"disable,omitempty"`
	Rollback hook.Action `yaml:"rollback,omitempty" json:"rollback,omitempty"`
}

// Descriptor declares an independently installable monitoring module:
// its detection rules, dependency edges, lifecycle hooks, verification spec,
// and resource identity. Descriptors are immutable after registration and
// owned exclusively by the Registry.
type Descriptor struct {
	// ID uniquely identifies the module within the catalog.
	ID string `yaml:"id" json:"id"`

	// Rules drive applicability detection.
	Rules []DetectionRule `yaml:"rules,omitempty" json:"rules,omitempty"`

	// DependsOn lists module identifiers that must be enabled before this one.
	DependsOn []string `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`

	// Hooks are the lifecycle actions.
	Hooks Hooks `yaml:"hooks,omitempty" json:"hooks,omitempty"`

	// Verify, when present, is run after each state-changing operation.
	Verify *Verification `yaml:"verify,omitempty" json:"verify,omitempty"`

	// Service is the declared resource identity (unit name, listening port).
	Service ServiceIdentity `yaml:"service,omitempty" json:"service,omitempty"`

	// Artifact, when present, is fetched and checksum-verified before install.
	Artifact Artifact `yaml:"artifact,omitempty" json:"artifact,omitempty"`

	// ConfigTemplate, when present, is rendered with Params by the
	// ConfigRenderer collaborator and handed to the enable hook.
	ConfigTemplate string `yaml:"configTemplate,omitempty" json:"configTemplate,omitempty"`

	// Params are module-specific parameters persisted alongside the enabled
	// state and passed to hooks.
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
}

// Validate checks the descriptor's structural invariants.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("module descriptor requires an id")
	}
	for i, rule := range d.Rules {
		if rule.Weight < 0 || rule.Weight > 100 {
			return fmt.Errorf("module %q rule %d: weight %d outside [0,100]", d.ID, i, rule.Weight)
		}
		if err := rule.Probe.Validate(); err != nil {
			return fmt.Errorf("module %q rule %d: %w", d.ID, i, err)
		}
	}
	for _, dep := range d.DependsOn {
		if dep == d.ID {
			return fmt.Errorf("module %q depends on itself", d.ID)
		}
	}
	for name, a := range map[string]hook.Action{
		"install":  d.Hooks.Install,
		"enable":   d.Hooks.Enable,
		"disable":  d.Hooks.Disable,
		"rollback": d.Hooks.Rollback,
	} {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("module %q %s hook: %w", d.ID, name, err)
		}
	}
	if d.Verify != nil {
		if err := d.Verify.Probe.Validate(); err != nil {
			return fmt.Errorf("module %q verification: %w", d.ID, err)
		}
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate registry-owned state.
func (d *Descriptor) clone() *Descriptor {
	out := *d
	out.Rules = append([]DetectionRule(nil), d.Rules...)
	out.DependsOn = append([]string(nil), d.DependsOn...)
	if d.Verify != nil {
		v := *d.Verify
		out.Verify = &v
	}
	if d.Params != nil {
		out.Params = make(map[string]string, len(d.Params))
		for k, v := range d.Params {
			out.Params[k] = v
		}
	}
	return &out
}
