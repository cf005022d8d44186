// Package lock provides host-scoped mutual exclusion for transactions.
//
// Locks are lease files with a holder identity, acquisition timestamp, and
// TTL. Contention is reported to the caller rather than queued; stale leases
// (TTL elapsed, holder process absent) are reclaimed on the next acquire.
package lock
