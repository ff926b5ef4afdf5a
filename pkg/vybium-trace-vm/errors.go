package vybiumtracevm

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// ErrorCode represents a Vybium trace VM error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidInput represents an invalid program or input error
	ErrInvalidInput

	// ErrVMExecution represents a failure while executing a program
	ErrVMExecution

	// ErrTraceGeneration represents a failure while building the trace
	ErrTraceGeneration

	// ErrConstraintViolation represents a trace that does not satisfy the
	// hasher constraints
	ErrConstraintViolation
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:             "unknown",
	ErrInvalidConfig:       "invalid config",
	ErrInvalidInput:        "invalid input",
	ErrVMExecution:         "execution failed",
	ErrTraceGeneration:     "trace generation failed",
	ErrConstraintViolation: "constraint violation",
}

// String returns the name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// VMError represents a Vybium trace VM error
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-trace-vm error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-trace-vm error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *VMError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newVMError(code ErrorCode, message string, cause error) *VMError {
	return &VMError{Code: code, Message: message, Cause: cause}
}

// ExecutionError is the typed failure raised while executing a program
type ExecutionError = core.ExecutionError

// ErrorKind identifies a class of execution failure
type ErrorKind = core.ErrorKind

// Execution error sentinels for errors.Is
var (
	ErrAdviceTapeReadFailed         = core.ErrAdviceTapeReadFailed
	ErrAdviceKeyNotFound            = core.ErrAdviceKeyNotFound
	ErrDuplicateAdviceKey           = core.ErrDuplicateAdviceKey
	ErrAdviceSetNotFound            = core.ErrAdviceSetNotFound
	ErrAdviceSetLookupFailed        = core.ErrAdviceSetLookupFailed
	ErrMemoryAddressOutOfBounds     = core.ErrMemoryAddressOutOfBounds
	ErrInvalidMemoryRange           = core.ErrInvalidMemoryRange
	ErrInvalidStackDepthOnReturn    = core.ErrInvalidStackDepthOnReturn
	ErrFailedAssertion              = core.ErrFailedAssertion
	ErrMerklePathVerificationFailed = core.ErrMerklePathVerificationFailed
	ErrNotBinaryValue               = core.ErrNotBinaryValue
	ErrCycleLimitExceeded           = core.ErrCycleLimitExceeded
	ErrDivideByZero                 = core.ErrDivideByZero
)

// ExecutionErrorOf returns the execution error wrapped by err, if any
func ExecutionErrorOf(err error) (*ExecutionError, bool) {
	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		return execErr, true
	}
	return nil, false
}
