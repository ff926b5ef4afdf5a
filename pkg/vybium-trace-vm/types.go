package vybiumtracevm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/advice"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/processor"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/trace"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/utils"
)

// Felt is an element of the Goldilocks field
type Felt = field.Element

// Word is four field elements
type Word = core.Word

// NewWord creates a word from four canonical values
var NewWord = core.NewWord

// Config holds the execution and trace-building parameters
type Config = utils.Config

// DefaultConfig returns the default configuration
var DefaultConfig = utils.DefaultConfig

// ProgramInputs holds the initial stack and the advice available to a program
type ProgramInputs = advice.ProgramInputs

// AdviceSet is a Merkle advice set addressed by its root
type AdviceSet = advice.AdviceSet

// MerkleTree is a complete Merkle tree advice set
type MerkleTree = advice.MerkleTree

// MerklePathSet is a sparse advice set of authentication paths under one root
type MerklePathSet = advice.MerklePathSet

var (
	// NewProgramInputs validates raw inputs
	NewProgramInputs = advice.NewProgramInputs
	// NoInputs returns inputs with an empty stack and no advice
	NoInputs = advice.NoInputs
	// NewMerkleTree builds a Merkle tree over a power-of-two number of leaves
	NewMerkleTree = advice.NewMerkleTree
	// NewMerklePathSet creates an empty path set of the given depth
	NewMerklePathSet = advice.NewMerklePathSet
)

// ExecutionTrace is the main trace of a finished program with its
// auxiliary segment
type ExecutionTrace = trace.ExecutionTrace

// Program building blocks
type (
	CodeBlock = processor.CodeBlock
	Span      = processor.Span
	Join      = processor.Join
	Split     = processor.Split
	Loop      = processor.Loop
	Call      = processor.Call

	Decorator           = processor.Decorator
	MerkleNodeInjector  = processor.MerkleNodeInjector
	MapValueInjector    = processor.MapValueInjector
	MemToMapInjector    = processor.MemToMapInjector
	HdwordToMapInjector = processor.HdwordToMapInjector
	HpermToMapInjector  = processor.HpermToMapInjector

	Operation = core.Operation
	OpCode    = core.OpCode
)

var (
	NewSpan  = processor.NewSpan
	NewJoin  = processor.NewJoin
	NewSplit = processor.NewSplit
	NewLoop  = processor.NewLoop
	NewCall  = processor.NewCall

	Op       = core.Op
	Push     = core.Push
	Dup      = core.Dup
	MovUp    = core.MovUp
	MovDn    = core.MovDn
	MrUpdate = core.MrUpdate
	AdvPipe  = core.AdvPipe
)

// Op codes accepted inside a span
const (
	OpNoop     = core.OpNoop
	OpPad      = core.OpPad
	OpDrop     = core.OpDrop
	OpSwap     = core.OpSwap
	OpSwapW    = core.OpSwapW
	OpAdd      = core.OpAdd
	OpMul      = core.OpMul
	OpNeg      = core.OpNeg
	OpInv      = core.OpInv
	OpIncr     = core.OpIncr
	OpEq       = core.OpEq
	OpEqz      = core.OpEqz
	OpAssert   = core.OpAssert
	OpAdvPop   = core.OpAdvPop
	OpAdvPopW  = core.OpAdvPopW
	OpMStoreW  = core.OpMStoreW
	OpMLoadW   = core.OpMLoadW
	OpAdvPipe  = core.OpAdvPipe
	OpHPerm    = core.OpHPerm
	OpMpVerify = core.OpMpVerify
)

// Result summarises an execution
type Result struct {
	Cycles     uint32   `json:"cycles"`
	TraceLen   int      `json:"trace_len"`
	Outputs    []uint64 `json:"outputs"`
	Commitment []uint64 `json:"commitment,omitempty"`
}
