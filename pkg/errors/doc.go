// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeStepFailed,
//	    "failed to enable module",
//	    cause,
//	    map[string]interface{}{
//	        "module": "node-exporter",
//	        "step":   2,
//	    },
//	)
package errors
