package core

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// OpCode identifies a VM operation. The numeric value is written into the op
// column of the main trace.
type OpCode uint8

const (
	OpNoop OpCode = iota

	// control flow
	OpSpan
	OpJoin
	OpSplit
	OpLoop
	OpRepeat
	OpEnd
	OpEndLoop
	OpCall

	// stack manipulation
	OpPad
	OpPush
	OpDrop
	OpDup
	OpSwap
	OpSwapW
	OpMovUp
	OpMovDn

	// field arithmetic
	OpAdd
	OpMul
	OpNeg
	OpInv
	OpIncr
	OpEq
	OpEqz
	OpAssert

	// input/output
	OpAdvPop
	OpAdvPopW
	OpMStoreW
	OpMLoadW
	OpAdvPipe

	// cryptographic
	OpHPerm
	OpMpVerify
	OpMrUpdate

	numOpCodes
)

// StackShift describes how an operation moves the stack window
type StackShift int

const (
	// ShiftNone leaves stack depth unchanged
	ShiftNone StackShift = iota
	// ShiftLeft removes one element
	ShiftLeft
	// ShiftRight inserts one element
	ShiftRight
)

// OpInfo holds static metadata about an opcode
type OpInfo struct {
	Name  string
	Shift StackShift
}

var opInfo = [numOpCodes]OpInfo{
	OpNoop:     {"noop", ShiftNone},
	OpSpan:     {"span", ShiftNone},
	OpJoin:     {"join", ShiftNone},
	OpSplit:    {"split", ShiftLeft},
	OpLoop:     {"loop", ShiftLeft},
	OpRepeat:   {"repeat", ShiftLeft},
	OpEnd:      {"end", ShiftNone},
	OpEndLoop:  {"end.loop", ShiftLeft},
	OpCall:     {"call", ShiftNone},
	OpPad:      {"pad", ShiftRight},
	OpPush:     {"push", ShiftRight},
	OpDrop:     {"drop", ShiftLeft},
	OpDup:      {"dup", ShiftRight},
	OpSwap:     {"swap", ShiftNone},
	OpSwapW:    {"swapw", ShiftNone},
	OpMovUp:    {"movup", ShiftNone},
	OpMovDn:    {"movdn", ShiftNone},
	OpAdd:      {"add", ShiftLeft},
	OpMul:      {"mul", ShiftLeft},
	OpNeg:      {"neg", ShiftNone},
	OpInv:      {"inv", ShiftNone},
	OpIncr:     {"incr", ShiftNone},
	OpEq:       {"eq", ShiftLeft},
	OpEqz:      {"eqz", ShiftNone},
	OpAssert:   {"assert", ShiftLeft},
	OpAdvPop:   {"advpop", ShiftRight},
	OpAdvPopW:  {"advpopw", ShiftNone},
	OpMStoreW:  {"mstorew", ShiftLeft},
	OpMLoadW:   {"mloadw", ShiftLeft},
	OpAdvPipe:  {"advpipe", ShiftNone},
	OpHPerm:    {"hperm", ShiftNone},
	OpMpVerify: {"mpverify", ShiftNone},
	OpMrUpdate: {"mrupdate", ShiftNone},
}

// Info returns the metadata for the opcode
func (c OpCode) Info() OpInfo {
	if c >= numOpCodes {
		return OpInfo{Name: fmt.Sprintf("op(%d)", uint8(c)), Shift: ShiftNone}
	}
	return opInfo[c]
}

// String returns the mnemonic of the opcode
func (c OpCode) String() string {
	return c.Info().Name
}

// Felt returns the opcode as a field element
func (c OpCode) Felt() field.Element {
	return field.New(uint64(c))
}

// OpCodeFromFelt decodes an op column cell
func OpCodeFromFelt(e field.Element) OpCode {
	v := e.Value()
	if v >= uint64(numOpCodes) {
		return OpNoop
	}
	return OpCode(v)
}

// Operation is a single VM instruction with an optional immediate
type Operation struct {
	Code OpCode
	Imm  field.Element
}

// Op returns an operation without an immediate
func Op(code OpCode) Operation {
	return Operation{Code: code, Imm: field.Zero}
}

// Push returns a push operation for value
func Push(value uint64) Operation {
	return Operation{Code: OpPush, Imm: field.New(value)}
}

// Dup returns an operation that copies the element at position n to the top
func Dup(n int) Operation {
	return Operation{Code: OpDup, Imm: field.New(uint64(n))}
}

// MovUp returns an operation that moves the element at position n to the top
func MovUp(n int) Operation {
	return Operation{Code: OpMovUp, Imm: field.New(uint64(n))}
}

// MovDn returns an operation that moves the top element to position n
func MovDn(n int) Operation {
	return Operation{Code: OpMovDn, Imm: field.New(uint64(n))}
}

// MrUpdate returns a Merkle root update; copy keeps the old tree
func MrUpdate(copy bool) Operation {
	return Operation{Code: OpMrUpdate, Imm: FeltFromBool(copy)}
}

// AdvPipe returns an operation that moves n double words from the advice
// tape into memory and hashes them
func AdvPipe(n int) Operation {
	return Operation{Code: OpAdvPipe, Imm: field.New(uint64(n))}
}

// Shift returns the stack shift the operation causes
func (o Operation) Shift() StackShift {
	return o.Code.Info().Shift
}

// String returns a string representation of the operation
func (o Operation) String() string {
	switch o.Code {
	case OpPush, OpDup, OpMovUp, OpMovDn, OpMrUpdate, OpAdvPipe:
		return fmt.Sprintf("%s(%d)", o.Code, o.Imm.Value())
	default:
		return o.Code.String()
	}
}
