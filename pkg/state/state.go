/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package state

// ModuleState is the persisted record for one module.
type ModuleState struct {
	Enabled    bool              `yaml:"enabled" json:"enabled"`
	Parameters map[string]string `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Set is the persisted mapping from module identifier to its state: the
// durable source of truth for what is enabled on the host. Sets are plain
// values; all durability goes through Store.AtomicUpdate.
type Set map[string]ModuleState

// Clone returns a deep copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id, ms := range s {
		cp := ms
		if ms.Parameters != nil {
			cp.Parameters = make(map[string]string, len(ms.Parameters))
			for k, v := range ms.Parameters {
				cp.Parameters[k] = v
			}
		}
		out[id] = cp
	}
	return out
}

// EnabledIDs returns the identifiers currently enabled, as a lookup map.
func (s Set) EnabledIDs() map[string]bool {
	out := make(map[string]bool, len(s))
	for id, ms := range s {
		if ms.Enabled {
			out[id] = true
		}
	}
	return out
}

// WithEnabled returns a copy with the module's enabled flag set. Parameters
// are replaced only when params is non-nil, so enabling an already-enabled
// module with the same inputs is a logical no-op.
func (s Set) WithEnabled(id string, enabled bool, params map[string]string) Set {
	out := s.Clone()
	ms := out[id]
	ms.Enabled = enabled
	if params != nil {
		ms.Parameters = make(map[string]string, len(params))
		for k, v := range params {
			ms.Parameters[k] = v
		}
	}
	out[id] = ms
	return out
}
