// Package module defines module descriptors and the Registry catalog.
//
// A Descriptor declares everything the orchestration core needs to know
// about one independently installable monitoring module: weighted detection
// rules, dependency edges, lifecycle hook actions, a verification spec, and
// the module's host resource identity. Descriptors are registered once at
// startup and are immutable afterwards; the Registry is read-only during
// transaction execution.
package module
