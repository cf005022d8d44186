// Package reporter delivers fire-and-forget transaction events to
// observability sinks without ever blocking or failing the core flow.
package reporter
