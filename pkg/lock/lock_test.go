package lock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modctl/modctl/pkg/errors"
)

func TestAcquireRelease(t *testing.T) {
	m := NewManager(t.TempDir())

	lease, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, lease)
	assert.NotEmpty(t, lease.Holder)
	assert.Equal(t, os.Getpid(), lease.PID)

	require.NoError(t, m.Release(lease))

	// The key is free again after release.
	again, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Release(again))
}

func TestAcquireContended(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	lease, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)

	before, err := os.ReadFile(filepath.Join(dir, "transactions.lock"))
	require.NoError(t, err)

	// A second acquire while the lease is live fails fast and leaves the
	// existing lease untouched.
	_, err = m.Acquire("transactions", time.Minute)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLockContended))

	after, err := os.ReadFile(filepath.Join(dir, "transactions.lock"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "contended acquire must not mutate the live lease")

	require.NoError(t, m.Release(lease))
}

func TestAcquireDistinctKeysIndependent(t *testing.T) {
	m := NewManager(t.TempDir())

	l1, err := m.Acquire("alpha", time.Minute)
	require.NoError(t, err)
	l2, err := m.Acquire("beta", time.Minute)
	require.NoError(t, err)

	require.NoError(t, m.Release(l1))
	require.NoError(t, m.Release(l2))
}

func TestStaleLeaseReclaimed(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	// Simulate a crashed holder: expired TTL and a pid that cannot exist.
	writeLease(t, m, &Lease{
		Key:        "transactions",
		Holder:     "dead-holder",
		PID:        1 << 22,
		Hostname:   mustHostname(t),
		AcquiredAt: time.Now().UTC().Add(-time.Hour),
		TTL:        time.Minute,
	})

	assert.True(t, m.IsStale("transactions"))

	lease, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, "dead-holder", lease.Holder)
	require.NoError(t, m.Release(lease))
}

func TestExpiredButAliveHolderNotReclaimed(t *testing.T) {
	m := NewManager(t.TempDir())

	// Expired TTL, but the holder pid (this test process) is alive.
	writeLease(t, m, &Lease{
		Key:        "transactions",
		Holder:     "slow-holder",
		PID:        os.Getpid(),
		Hostname:   mustHostname(t),
		AcquiredAt: time.Now().UTC().Add(-time.Hour),
		TTL:        time.Minute,
	})

	assert.False(t, m.IsStale("transactions"))

	_, err := m.Acquire("transactions", time.Minute)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLockContended))
}

func TestLiveLeaseNotStale(t *testing.T) {
	m := NewManager(t.TempDir())

	lease, err := m.Acquire("transactions", time.Hour)
	require.NoError(t, err)
	assert.False(t, m.IsStale("transactions"))
	require.NoError(t, m.Release(lease))
}

func TestCorruptLockFileIsStale(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.lock"), []byte("not: [yaml\n"), 0o644))

	assert.True(t, m.IsStale("transactions"))

	lease, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Release(lease))
}

func TestMissingLockNotStale(t *testing.T) {
	m := NewManager(t.TempDir())
	assert.False(t, m.IsStale("never-acquired"))
}

func TestReleaseForeignLeaseRejected(t *testing.T) {
	m := NewManager(t.TempDir())

	lease, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)

	forged := *lease
	forged.Holder = "someone-else"
	err = m.Release(&forged)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLockContended))

	require.NoError(t, m.Release(lease))
}

func TestReleaseNilLease(t *testing.T) {
	m := NewManager(t.TempDir())
	require.Error(t, m.Release(nil))
}

func TestReleaseIdempotent(t *testing.T) {
	m := NewManager(t.TempDir())

	lease, err := m.Acquire("transactions", time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Release(lease))
	require.NoError(t, m.Release(lease), "releasing an already released lease is a no-op")
}

func writeLease(t *testing.T, m *Manager, lease *Lease) {
	t.Helper()
	lease.path = m.lockPath(lease.Key)
	require.NoError(t, m.tryCreate(lease))
}

func mustHostname(t *testing.T) string {
	t.Helper()
	h, err := os.Hostname()
	require.NoError(t, err)
	return h
}
