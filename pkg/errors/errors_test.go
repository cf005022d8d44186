package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "module not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "module not found" {
		t.Errorf("expected message 'module not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("timeout")
	ctx := map[string]interface{}{
		"module": "node-exporter",
		"step":   "enable",
	}

	err := WrapWithContext(ErrCodeStepFailed, "step failed", cause, ctx)

	if err.Code != ErrCodeStepFailed {
		t.Errorf("expected code %s, got %s", ErrCodeStepFailed, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["module"] != "node-exporter" {
		t.Errorf("expected module to be node-exporter")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "structured error",
			err:  New(ErrCodeLockContended, "lock held"),
			want: ErrCodeLockContended,
		},
		{
			name: "wrapped structured error",
			err:  fmt.Errorf("transaction: %w", New(ErrCodeRollbackFailed, "unwind incomplete")),
			want: ErrCodeRollbackFailed,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			want: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeStepFailed, "hook failed")
	outer := Wrap(ErrCodeRollbackFailed, "rollback incomplete", inner)

	if !IsCode(outer, ErrCodeRollbackFailed) {
		t.Error("expected outer code to match")
	}
	if !IsCode(outer, ErrCodeStepFailed) {
		t.Error("expected inner code to match through the chain")
	}
	if IsCode(outer, ErrCodeLockContended) {
		t.Error("unexpected code match")
	}
	if IsCode(nil, ErrCodeStepFailed) {
		t.Error("nil error should never match")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeNotFound,
		ErrCodeDuplicateModule,
		ErrCodeCyclicDependency,
		ErrCodeDetectionTimeout,
		ErrCodeUnsafeHook,
		ErrCodeStepFailed,
		ErrCodeRollbackFailed,
		ErrCodeLockContended,
		ErrCodeConfigWriteFailed,
		ErrCodeFetchFailed,
		ErrCodeInvalidRequest,
		ErrCodeTimeout,
		ErrCodeInternal,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
