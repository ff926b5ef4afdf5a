package vybiumtracevm

import (
	"errors"
	"strings"
	"testing"
)

func TestVMError(t *testing.T) {
	cause := errors.New("boom")
	err := newVMError(ErrTraceGeneration, "failed", cause)

	if !strings.Contains(err.Error(), "failed") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("VMError does not unwrap to its cause")
	}
	if !errors.Is(err, &VMError{Code: ErrTraceGeneration}) {
		t.Error("VMError does not match its own code")
	}
	if errors.Is(err, &VMError{Code: ErrVMExecution}) {
		t.Error("VMError matches a different code")
	}

	plain := newVMError(ErrInvalidInput, "bad input", nil)
	if strings.Contains(plain.Error(), "caused by") {
		t.Errorf("Error() = %q mentions a missing cause", plain.Error())
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrConstraintViolation.String() != "constraint violation" {
		t.Errorf("String() = %q", ErrConstraintViolation.String())
	}
	if ErrorCode(99).String() != "ErrorCode(99)" {
		t.Errorf("String() = %q", ErrorCode(99).String())
	}
}
