/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package module

import (
	"fmt"
	"sort"
	"sync"

	"github.com/modctl/modctl/pkg/errors"
)

// Registry is the in-memory catalog of module descriptors. It is populated
// at startup and read-only during transaction execution.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: map[string]*Descriptor{},
	}
}

// Register adds a descriptor to the catalog. Registering an identifier twice
// fails with DuplicateModule; an invalid descriptor fails with InvalidRequest.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid module descriptor", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[d.ID]; exists {
		return errors.New(errors.ErrCodeDuplicateModule,
			fmt.Sprintf("module %q already registered", d.ID))
	}
	r.modules[d.ID] = d.clone()
	return nil
}

// Lookup returns a copy of the descriptor for the given identifier, or
// NotFound. Copies keep registry-owned descriptors immutable.
func (r *Registry) Lookup(id string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.modules[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound,
			fmt.Sprintf("module %q is not in the catalog", id))
	}
	return d.clone(), nil
}

// IDs returns the sorted identifiers of all registered modules.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns copies of every registered descriptor, sorted by identifier.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.modules))
	for _, id := range r.idsLocked() {
		out = append(out, *r.modules[id].clone())
	}
	return out
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveDependencyOrder topologically sorts the requested identifiers by
// their dependsOn edges, restricted to the requested set. Dependencies
// outside the set are assumed satisfied externally (the transaction planner
// checks them against persisted enabled state). A cycle among the requested
// modules fails with CyclicDependency; an unknown identifier with NotFound.
//
// The sort is deterministic: ties are broken by identifier order.
func (r *Registry) ResolveDependencyOrder(ids []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.modules[id]; !ok {
			return nil, errors.New(errors.ErrCodeNotFound,
				fmt.Sprintf("module %q is not in the catalog", id))
		}
		requested[id] = true
	}

	sorted := make([]string, 0, len(ids))
	// 0 = unvisited, 1 = in progress, 2 = done
	marks := make(map[string]int, len(ids))

	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch marks[id] {
		case 2:
			return nil
		case 1:
			return errors.NewWithContext(errors.ErrCodeCyclicDependency,
				fmt.Sprintf("dependency cycle through module %q", id),
				map[string]any{"path": append(append([]string(nil), path...), id)})
		}
		marks[id] = 1

		deps := append([]string(nil), r.modules[id].DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			if !requested[dep] {
				continue
			}
			if err := visit(dep, append(path, id)); err != nil {
				return err
			}
		}

		marks[id] = 2
		sorted = append(sorted, id)
		return nil
	}

	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)
	for _, id := range ordered {
		if err := visit(id, nil); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// MissingDependencies returns, for each requested module, the dependencies
// that are neither in the requested set nor present in satisfied. Used by
// the transaction planner to reject plans that would enable a module before
// its dependencies.
func (r *Registry) MissingDependencies(ids []string, satisfied map[string]bool) map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	missing := map[string][]string{}
	for _, id := range ids {
		d, ok := r.modules[id]
		if !ok {
			continue
		}
		for _, dep := range d.DependsOn {
			if !requested[dep] && !satisfied[dep] {
				missing[id] = append(missing[id], dep)
			}
		}
	}
	return missing
}
