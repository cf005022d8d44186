// Package logging provides structured logging utilities for modctl components.
//
// It wraps the standard library slog package with project defaults: JSON
// output to stderr, module/version context on every record, LOG_LEVEL
// environment configuration, and source location tracking for debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("modctl", version)
//	    slog.Info("starting", "version", version)
//	}
//
// Setting an explicit level (e.g. from a --log-level flag):
//
//	logging.SetDefaultStructuredLoggerWithLevel("modctl", version, "warn")
//
// Supported levels (case-insensitive): DEBUG, INFO (default), WARN/WARNING,
// ERROR. Unknown values fall back to INFO rather than failing startup.
package logging
