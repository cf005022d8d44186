// Package transaction plans and executes module lifecycle operations as
// all-or-nothing units.
//
// A transaction moves through Pending, Running, and exactly one of
// Committed, RolledBack, or Failed. Steps run sequentially in dependency
// order under a host-scoped lock. The first step failure triggers a
// reverse-order unwind of every completed step; a failed unwind escalates
// the transaction to Failed rather than RolledBack. The persisted enabled
// state is committed atomically, and only after a fully successful run.
package transaction
