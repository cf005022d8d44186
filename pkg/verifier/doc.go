// Package verifier confirms post-operation module readiness with a bounded
// fixed-interval poll, reporting "not yet ready" as an observation distinct
// from failure so callers can tell slow starts from broken installs.
package verifier
