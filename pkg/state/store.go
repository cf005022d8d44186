/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package state

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/modctl/modctl/pkg/errors"
)

// document is the on-disk shape of the state file.
type document struct {
	Modules Set `yaml:"modules"`
}

// Store provides atomic read-modify-write access to the persisted enabled
// state. Every update is computed against a fresh read, serialized to a
// temporary file in the same directory, and promoted with a single rename;
// readers never observe a partially written file. There is no API for
// partial in-place edits.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path. The file need not
// exist yet; a missing file reads as the empty set.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the canonical state file location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current persisted set. A missing file is the empty set,
// not an error.
func (s *Store) Read() (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store) readLocked() (Set, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to read state file %q", s.path), err)
	}

	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("state file %q is corrupt", s.path), err)
	}
	if doc.Modules == nil {
		doc.Modules = Set{}
	}
	return doc.Modules, nil
}

// AtomicUpdate applies fn to a fresh copy of the persisted set and publishes
// the result atomically. If the new serialized form is byte-identical to the
// current file, nothing is written: re-applying the same logical change is a
// no-op on the persisted representation.
func (s *Store) AtomicUpdate(fn func(Set) Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readLocked()
	if err != nil {
		return err
	}

	next := fn(current.Clone())
	if next == nil {
		next = Set{}
	}

	newBytes, err := marshal(next)
	if err != nil {
		return err
	}

	// Marshaling is canonical (sorted identifiers), so equal logical state
	// always produces equal bytes regardless of update order.
	if oldBytes, err := os.ReadFile(s.path); err == nil && bytes.Equal(oldBytes, newBytes) {
		slog.Debug("state unchanged, skipping write", "path", s.path)
		return nil
	}

	return s.replaceLocked(newBytes)
}

// replaceLocked writes the serialized set to a temp file in the target
// directory and renames it over the canonical path.
func (s *Store) replaceLocked(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to create state directory %q", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".modules-*.yaml")
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			"failed to create temporary state file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			"failed to write temporary state file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			"failed to sync temporary state file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			"failed to close temporary state file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			"failed to set state file permissions", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed,
			fmt.Sprintf("failed to replace state file %q", s.path), err)
	}

	slog.Debug("state file replaced", "path", s.path, "bytes", len(data))
	return nil
}

// marshal produces the canonical serialized form. yaml.v3 sorts map keys,
// so unrelated entries keep a byte-stable position across writes.
func marshal(s Set) ([]byte, error) {
	b, err := yaml.Marshal(document{Modules: s})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigWriteFailed,
			"failed to serialize state", err)
	}
	return b, nil
}
