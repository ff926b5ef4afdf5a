package core

import "fmt"

// ErrorKind identifies a class of execution failure
type ErrorKind int

const (
	// KindUnknown is the zero kind
	KindUnknown ErrorKind = iota

	// KindAdviceTapeReadFailed means the advice tape held fewer elements than requested
	KindAdviceTapeReadFailed

	// KindAdviceKeyNotFound means the advice map had no entry for a key
	KindAdviceKeyNotFound

	// KindDuplicateAdviceKey means an advice map key was inserted twice
	KindDuplicateAdviceKey

	// KindAdviceSetNotFound means no advice set is registered under a root
	KindAdviceSetNotFound

	// KindAdviceSetLookupFailed means an advice set rejected a node or path query
	KindAdviceSetLookupFailed

	// KindMemoryAddressOutOfBounds means an address does not fit in 32 bits
	KindMemoryAddressOutOfBounds

	// KindInvalidMemoryRange means a memory range starts after it ends
	KindInvalidMemoryRange

	// KindInvalidStackDepthOnReturn means a call returned with overflow rows left behind
	KindInvalidStackDepthOnReturn

	// KindFailedAssertion means an assert operation saw a value other than one
	KindFailedAssertion

	// KindMerklePathVerificationFailed means a computed root did not match the stack
	KindMerklePathVerificationFailed

	// KindNotBinaryValue means a branch or loop condition was neither zero nor one
	KindNotBinaryValue

	// KindCycleLimitExceeded means execution ran past the configured cycle limit
	KindCycleLimitExceeded

	// KindDivideByZero means an inversion was applied to zero
	KindDivideByZero
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                      "unknown",
	KindAdviceTapeReadFailed:         "advice tape read failed",
	KindAdviceKeyNotFound:            "advice key not found",
	KindDuplicateAdviceKey:           "duplicate advice key",
	KindAdviceSetNotFound:            "advice set not found",
	KindAdviceSetLookupFailed:        "advice set lookup failed",
	KindMemoryAddressOutOfBounds:     "memory address out of bounds",
	KindInvalidMemoryRange:           "invalid memory range",
	KindInvalidStackDepthOnReturn:    "invalid stack depth on return",
	KindFailedAssertion:              "failed assertion",
	KindMerklePathVerificationFailed: "merkle path verification failed",
	KindNotBinaryValue:               "not a binary value",
	KindCycleLimitExceeded:           "cycle limit exceeded",
	KindDivideByZero:                 "divide by zero",
}

// String returns the name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ExecutionError is the error type returned by the processor and its collaborators.
// Only the fields relevant to Kind are populated.
type ExecutionError struct {
	Kind  ErrorKind
	Step  uint32 // clock cycle at which the error was raised
	Word  Word   // advice key or advice set root
	Addr  uint64 // out-of-range memory address
	Start uint64
	End   uint64
	Depth uint64 // stack depth on return or requested tree depth
	Value uint64 // offending value for binary checks
	Err   error
}

// Sentinels for errors.Is matching by kind
var (
	ErrAdviceTapeReadFailed         = &ExecutionError{Kind: KindAdviceTapeReadFailed}
	ErrAdviceKeyNotFound            = &ExecutionError{Kind: KindAdviceKeyNotFound}
	ErrDuplicateAdviceKey           = &ExecutionError{Kind: KindDuplicateAdviceKey}
	ErrAdviceSetNotFound            = &ExecutionError{Kind: KindAdviceSetNotFound}
	ErrAdviceSetLookupFailed        = &ExecutionError{Kind: KindAdviceSetLookupFailed}
	ErrMemoryAddressOutOfBounds     = &ExecutionError{Kind: KindMemoryAddressOutOfBounds}
	ErrInvalidMemoryRange           = &ExecutionError{Kind: KindInvalidMemoryRange}
	ErrInvalidStackDepthOnReturn    = &ExecutionError{Kind: KindInvalidStackDepthOnReturn}
	ErrFailedAssertion              = &ExecutionError{Kind: KindFailedAssertion}
	ErrMerklePathVerificationFailed = &ExecutionError{Kind: KindMerklePathVerificationFailed}
	ErrNotBinaryValue               = &ExecutionError{Kind: KindNotBinaryValue}
	ErrCycleLimitExceeded           = &ExecutionError{Kind: KindCycleLimitExceeded}
	ErrDivideByZero                 = &ExecutionError{Kind: KindDivideByZero}
)

// Error returns the error message
func (e *ExecutionError) Error() string {
	switch e.Kind {
	case KindAdviceTapeReadFailed:
		return fmt.Sprintf("%s at step %d", e.Kind, e.Step)
	case KindAdviceKeyNotFound, KindDuplicateAdviceKey:
		return fmt.Sprintf("%s: %s", e.Kind, e.Word)
	case KindAdviceSetNotFound:
		return fmt.Sprintf("%s for root %s", e.Kind, e.Word)
	case KindAdviceSetLookupFailed:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case KindMemoryAddressOutOfBounds:
		return fmt.Sprintf("%s: %d", e.Kind, e.Addr)
	case KindInvalidMemoryRange:
		return fmt.Sprintf("%s: start %d, end %d", e.Kind, e.Start, e.End)
	case KindInvalidStackDepthOnReturn:
		return fmt.Sprintf("%s: %d", e.Kind, e.Depth)
	case KindNotBinaryValue:
		return fmt.Sprintf("%s: %d", e.Kind, e.Value)
	case KindFailedAssertion, KindMerklePathVerificationFailed, KindCycleLimitExceeded, KindDivideByZero:
		return fmt.Sprintf("%s at step %d", e.Kind, e.Step)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause, if any
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an ExecutionError of the same kind
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewAdviceTapeReadFailed returns a tape underflow error raised at step
func NewAdviceTapeReadFailed(step uint32) *ExecutionError {
	return &ExecutionError{Kind: KindAdviceTapeReadFailed, Step: step}
}

// NewAdviceKeyNotFound returns a missing advice map key error
func NewAdviceKeyNotFound(key Word) *ExecutionError {
	return &ExecutionError{Kind: KindAdviceKeyNotFound, Word: key}
}

// NewDuplicateAdviceKey returns a repeated advice map key error
func NewDuplicateAdviceKey(key Word) *ExecutionError {
	return &ExecutionError{Kind: KindDuplicateAdviceKey, Word: key}
}

// NewAdviceSetNotFound returns an unknown advice set root error
func NewAdviceSetNotFound(root Word) *ExecutionError {
	return &ExecutionError{Kind: KindAdviceSetNotFound, Word: root}
}

// NewAdviceSetLookupFailed wraps an advice set query failure
func NewAdviceSetLookupFailed(cause error) *ExecutionError {
	return &ExecutionError{Kind: KindAdviceSetLookupFailed, Err: cause}
}

// NewMemoryAddressOutOfBounds returns an address overflow error
func NewMemoryAddressOutOfBounds(addr uint64) *ExecutionError {
	return &ExecutionError{Kind: KindMemoryAddressOutOfBounds, Addr: addr}
}

// NewInvalidMemoryRange returns a reversed range error
func NewInvalidMemoryRange(start, end uint64) *ExecutionError {
	return &ExecutionError{Kind: KindInvalidMemoryRange, Start: start, End: end}
}

// NewInvalidStackDepthOnReturn returns a call depth mismatch error
func NewInvalidStackDepthOnReturn(depth int) *ExecutionError {
	return &ExecutionError{Kind: KindInvalidStackDepthOnReturn, Depth: uint64(depth)}
}

// NewFailedAssertion returns an assertion failure raised at step
func NewFailedAssertion(step uint32) *ExecutionError {
	return &ExecutionError{Kind: KindFailedAssertion, Step: step}
}

// NewMerklePathVerificationFailed returns a root mismatch error raised at step
func NewMerklePathVerificationFailed(step uint32, root Word) *ExecutionError {
	return &ExecutionError{Kind: KindMerklePathVerificationFailed, Step: step, Word: root}
}

// NewNotBinaryValue returns a non-binary condition error
func NewNotBinaryValue(step uint32, value uint64) *ExecutionError {
	return &ExecutionError{Kind: KindNotBinaryValue, Step: step, Value: value}
}

// NewCycleLimitExceeded returns a cycle limit error raised at step
func NewCycleLimitExceeded(step uint32) *ExecutionError {
	return &ExecutionError{Kind: KindCycleLimitExceeded, Step: step}
}

// NewDivideByZero returns an inversion-of-zero error raised at step
func NewDivideByZero(step uint32) *ExecutionError {
	return &ExecutionError{Kind: KindDivideByZero, Step: step}
}
