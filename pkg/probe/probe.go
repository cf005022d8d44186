/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"
	"fmt"
	"time"
)

// Kind identifies a probe implementation. The set is closed: descriptors
// reference probes by kind, never by free-form executable text.
type Kind string

const (
	// KindCommand executes a literal argument vector and matches on exit code 0.
	KindCommand Kind = "command"
	// KindFile checks that a file exists and, optionally, contains a substring.
	KindFile Kind = "file"
	// KindPort checks that a TCP port accepts connections on the local host.
	KindPort Kind = "port"
	// KindSystemd checks that a systemd unit is in the active state.
	KindSystemd Kind = "systemd"
	// KindHTTP performs a GET request and matches on the expected status code.
	KindHTTP Kind = "http"
)

// Spec describes a single probe. Exactly the fields for its Kind are used;
// the rest are ignored. Specs are declarative data and carry no behavior,
// so they are safe to share across concurrent evaluations.
type Spec struct {
	Kind Kind `yaml:"kind" json:"kind"`

	// Command is the literal argument vector for KindCommand.
	Command []string `yaml:"command,omitempty" json:"command,omitempty"`

	// Path and Contains configure KindFile. Contains may be empty, in which
	// case existence alone matches.
	Path     string `yaml:"path,omitempty" json:"path,omitempty"`
	Contains string `yaml:"contains,omitempty" json:"contains,omitempty"`

	// Port configures KindPort.
	Port int `yaml:"port,omitempty" json:"port,omitempty"`

	// Unit configures KindSystemd.
	Unit string `yaml:"unit,omitempty" json:"unit,omitempty"`

	// URL and Status configure KindHTTP. Status defaults to 200.
	URL    string `yaml:"url,omitempty" json:"url,omitempty"`
	Status int    `yaml:"status,omitempty" json:"status,omitempty"`
}

// Validate checks that the spec carries the fields its kind requires.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindCommand:
		if len(s.Command) == 0 {
			return fmt.Errorf("command probe requires a non-empty argument vector")
		}
	case KindFile:
		if s.Path == "" {
			return fmt.Errorf("file probe requires a path")
		}
	case KindPort:
		if s.Port <= 0 || s.Port > 65535 {
			return fmt.Errorf("port probe requires a port in (0,65535], got %d", s.Port)
		}
	case KindSystemd:
		if s.Unit == "" {
			return fmt.Errorf("systemd probe requires a unit name")
		}
	case KindHTTP:
		if s.URL == "" {
			return fmt.Errorf("http probe requires a URL")
		}
	default:
		return fmt.Errorf("unknown probe kind: %q", s.Kind)
	}
	return nil
}

// String returns a short human-readable identity for logs and failure detail.
func (s Spec) String() string {
	switch s.Kind {
	case KindCommand:
		return fmt.Sprintf("command(%v)", s.Command)
	case KindFile:
		return fmt.Sprintf("file(%s)", s.Path)
	case KindPort:
		return fmt.Sprintf("port(%d)", s.Port)
	case KindSystemd:
		return fmt.Sprintf("systemd(%s)", s.Unit)
	case KindHTTP:
		return fmt.Sprintf("http(%s)", s.URL)
	default:
		return fmt.Sprintf("unknown(%s)", s.Kind)
	}
}

// Prober evaluates a probe spec. A nil return means the probe matched
// (detection) or the target is ready (verification); a non-nil return
// carries the observed failure detail. Probers must honor the context
// deadline and must not mutate shared state.
type Prober interface {
	Probe(ctx context.Context, spec Spec) error
}

// Runner is the production Prober. The zero value is usable; options exist
// for tests and for hosts where a dependency (e.g. the systemd bus) is not
// available.
type Runner struct {
	// HTTPTimeout bounds HTTP probes when the context has no deadline.
	HTTPTimeout time.Duration
}

// NewRunner creates a Runner with default settings.
func NewRunner() *Runner {
	return &Runner{}
}

// Probe dispatches the spec to its kind's implementation.
func (r *Runner) Probe(ctx context.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	switch spec.Kind {
	case KindCommand:
		return r.probeCommand(ctx, spec)
	case KindFile:
		return r.probeFile(ctx, spec)
	case KindPort:
		return r.probePort(ctx, spec)
	case KindSystemd:
		return r.probeSystemd(ctx, spec)
	case KindHTTP:
		return r.probeHTTP(ctx, spec)
	default:
		return fmt.Errorf("unknown probe kind: %q", spec.Kind)
	}
}
