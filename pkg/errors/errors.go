/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a requested module or resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeDuplicateModule indicates a module identifier was registered twice.
	ErrCodeDuplicateModule ErrorCode = "DUPLICATE_MODULE"
	// ErrCodeCyclicDependency indicates a dependency cycle among requested modules.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
	// ErrCodeDetectionTimeout indicates a detection rule exceeded its timeout.
	// Detection treats this as a non-match, never as a pass failure.
	ErrCodeDetectionTimeout ErrorCode = "DETECTION_TIMEOUT"
	// ErrCodeUnsafeHook indicates a hook action failed argument vector validation.
	ErrCodeUnsafeHook ErrorCode = "UNSAFE_HOOK_REJECTED"
	// ErrCodeStepFailed indicates a transaction step failed, triggering rollback.
	ErrCodeStepFailed ErrorCode = "TRANSACTION_STEP_FAILED"
	// ErrCodeRollbackFailed indicates one or more rollback hooks failed.
	// The transaction is left in the terminal Failed state and requires
	// operator attention.
	ErrCodeRollbackFailed ErrorCode = "ROLLBACK_FAILED"
	// ErrCodeLockContended indicates another transaction holds the host lock.
	ErrCodeLockContended ErrorCode = "LOCK_CONTENDED"
	// ErrCodeConfigWriteFailed indicates the persisted state could not be
	// replaced atomically. Prior state remains untouched.
	ErrCodeConfigWriteFailed ErrorCode = "CONFIG_WRITE_FAILED"
	// ErrCodeFetchFailed indicates an artifact could not be retrieved or
	// failed checksum verification.
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the ErrorCode of the outermost StructuredError in err's
// chain, or ErrCodeInternal if the chain carries no structured error.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether any error in err's chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}
