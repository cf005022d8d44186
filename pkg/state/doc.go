// Package state persists the enabled/disabled mapping for modules.
//
// The state file is the only durable shared resource in the system. It is
// mutated exclusively through Store.AtomicUpdate, which computes the new
// snapshot against a fresh read and publishes it with a filesystem-atomic
// rename. Serialization is canonical, so the same logical state always
// round-trips to the same bytes.
package state
