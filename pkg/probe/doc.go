// Package probe implements the closed set of host probes shared by module
// detection and post-operation verification.
//
// A probe is declarative data (Spec) evaluated by a Prober. Probes are
// read-only with respect to host state, honor context deadlines, and report
// failure detail through the returned error rather than a panic or log-only
// path. Command probes take literal argument vectors; no probe interpolates
// text into a shell.
package probe
