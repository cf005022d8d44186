/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package lock

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/errors"
)

// Lease is a time-bounded exclusive hold on the right to run a transaction
// for a host-scoped key.
type Lease struct {
	Key        string        `yaml:"key"`
	Holder     string        `yaml:"holder"`
	PID        int           `yaml:"pid"`
	Hostname   string        `yaml:"hostname"`
	AcquiredAt time.Time     `yaml:"acquiredAt"`
	TTL        time.Duration `yaml:"ttl"`

	path string
}

// Expired reports whether the lease's TTL has elapsed.
func (l *Lease) Expired(now time.Time) bool {
	return now.After(l.AcquiredAt.Add(l.TTL))
}

// Manager provides host-scoped mutual exclusion backed by lock files.
// A second Acquire while a lease is live returns LockContended; the manager
// never queues waiters. A lease whose TTL elapsed and whose holder process
// no longer exists is reclaimed by the next Acquire, so a crashed holder
// cannot deadlock the host permanently.
type Manager struct {
	dir string
}

// NewManager creates a lock manager storing lock files under dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Acquire attempts to take the lease for key. A ttl of zero uses the
// default. The error is LockContended when another live holder exists.
func (m *Manager) Acquire(key string, ttl time.Duration) (*Lease, error) {
	if ttl <= 0 {
		ttl = defaults.LockTTL
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to create lock directory %q", m.dir), err)
	}

	hostname, _ := os.Hostname()
	lease := &Lease{
		Key:        key,
		Holder:     uuid.NewString(),
		PID:        os.Getpid(),
		Hostname:   hostname,
		AcquiredAt: time.Now().UTC(),
		TTL:        ttl,
		path:       m.lockPath(key),
	}

	if err := m.tryCreate(lease); err == nil {
		slog.Debug("lock acquired", "key", key, "holder", lease.Holder, "ttl", ttl)
		return lease, nil
	} else if !os.IsExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create lock file", err)
	}

	// The lock file exists. Reclaim only a provably stale lease.
	if m.IsStale(key) {
		slog.Warn("reclaiming stale lock", "key", key)
		if err := os.Remove(lease.path); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to remove stale lock", err)
		}
		if err := m.tryCreate(lease); err == nil {
			slog.Debug("lock acquired after reclaim", "key", key, "holder", lease.Holder)
			return lease, nil
		}
		// Lost the reclaim race to another acquirer.
	}

	return nil, errors.NewWithContext(errors.ErrCodeLockContended,
		fmt.Sprintf("lock %q is held by another transaction", key),
		map[string]any{"path": lease.path})
}

// Release removes the lock file, verifying the caller still holds it.
func (m *Manager) Release(lease *Lease) error {
	if lease == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "cannot release a nil lease")
	}

	current, err := m.readLease(lease.Key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, "failed to read lock file", err)
	}
	if current.Holder != lease.Holder {
		return errors.New(errors.ErrCodeLockContended,
			fmt.Sprintf("lock %q is held by %s, not by this lease", lease.Key, current.Holder))
	}

	if err := os.Remove(lease.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, "failed to remove lock file", err)
	}
	slog.Debug("lock released", "key", lease.Key, "holder", lease.Holder)
	return nil
}

// IsStale reports whether the current lease for key is reclaimable: its TTL
// elapsed and its declared holder process no longer exists. A missing lock
// file is not stale; it is simply free.
func (m *Manager) IsStale(key string) bool {
	lease, err := m.readLease(key)
	if err != nil {
		// Unreadable or corrupt lock files are treated as stale: the holder
		// cannot prove liveness through them.
		return !os.IsNotExist(err)
	}
	if !lease.Expired(time.Now().UTC()) {
		return false
	}

	// The TTL elapsed. Only reclaim when the holder is provably gone; a
	// holder on another host cannot be checked, so it is assumed dead once
	// expired on a host-scoped lock.
	hostname, _ := os.Hostname()
	if lease.Hostname == hostname && processAlive(lease.PID) {
		return false
	}
	return true
}

func (m *Manager) tryCreate(lease *Lease) error {
	f, err := os.OpenFile(lease.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	b, err := yaml.Marshal(lease)
	if err != nil {
		f.Close()
		os.Remove(lease.path)
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(lease.path)
		return err
	}
	return f.Close()
}

func (m *Manager) readLease(key string) (*Lease, error) {
	b, err := os.ReadFile(m.lockPath(key))
	if err != nil {
		return nil, err
	}
	var lease Lease
	if err := yaml.Unmarshal(b, &lease); err != nil {
		return nil, err
	}
	lease.path = m.lockPath(key)
	return &lease, nil
}

func (m *Manager) lockPath(key string) string {
	return filepath.Join(m.dir, key+".lock")
}

// processAlive checks pid liveness with a null signal.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
