// Package processor executes programs and records the main execution trace
package processor

import (
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// CodeBlock is a node of a program's control-flow tree. The set of variants
// is closed: Span, Join, Split, Loop and Call.
type CodeBlock interface {
	codeBlock()
}

// DecoratorEntry attaches a decorator to the operation at index At of a span.
// An index equal to the number of operations runs after the last operation.
type DecoratorEntry struct {
	At        int
	Decorator Decorator
}

// Span is a linear sequence of operations
type Span struct {
	Ops        []core.Operation
	Decorators []DecoratorEntry
}

// Join executes First then Second
type Join struct {
	First  CodeBlock
	Second CodeBlock
}

// Split pops a binary condition and executes OnTrue or OnFalse
type Split struct {
	OnTrue  CodeBlock
	OnFalse CodeBlock
}

// Loop pops a binary condition and executes Body while it is one. The body
// must leave the next condition on top of the stack.
type Loop struct {
	Body CodeBlock
}

// Call executes Body in a fresh stack context: the caller's overflow rows are
// hidden and the callee must return with exactly 16 elements
type Call struct {
	Body CodeBlock
}

func (*Span) codeBlock()  {}
func (*Join) codeBlock()  {}
func (*Split) codeBlock() {}
func (*Loop) codeBlock()  {}
func (*Call) codeBlock()  {}

// NewSpan creates a span without decorators
func NewSpan(ops ...core.Operation) *Span {
	return &Span{Ops: ops}
}

// WithDecorator attaches d before the operation at index at
func (s *Span) WithDecorator(at int, d Decorator) *Span {
	s.Decorators = append(s.Decorators, DecoratorEntry{At: at, Decorator: d})
	return s
}

// NewJoin creates a join of two or more blocks, nesting to the right
func NewJoin(first, second CodeBlock, rest ...CodeBlock) *Join {
	if len(rest) == 0 {
		return &Join{First: first, Second: second}
	}
	return &Join{First: first, Second: NewJoin(second, rest[0], rest[1:]...)}
}

// NewSplit creates a conditional block
func NewSplit(onTrue, onFalse CodeBlock) *Split {
	return &Split{OnTrue: onTrue, OnFalse: onFalse}
}

// NewLoop creates a loop block
func NewLoop(body CodeBlock) *Loop {
	return &Loop{Body: body}
}

// NewCall creates a call block
func NewCall(body CodeBlock) *Call {
	return &Call{Body: body}
}
