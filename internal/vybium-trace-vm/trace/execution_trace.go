package trace

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/air"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/processor"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/stack"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/utils"
)

// ExecutionTrace is the main trace of a finished process together with its
// auxiliary segment
type ExecutionTrace struct {
	main *air.MainTrace
	aux  [][]field.Element

	// commitment to the main trace; zero when commitment is disabled
	root      hash.Digest
	committed bool
	alphas    []field.Element

	// bytes absorbed into and elements drawn from the channel
	sent, drawn int

	cycles  uint32
	outputs []field.Element
}

// NewExecutionTrace builds the trace of p in two phases: the main trace is
// fixed and committed, then the auxiliary randomness is drawn from a channel
// seeded with the commitment and the overflow running product is built
func NewExecutionTrace(p *processor.Process, config *utils.Config) (*ExecutionTrace, error) {
	if config == nil {
		config = utils.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	main, err := BuildMainTrace(p, config.MinTraceLength)
	if err != nil {
		return nil, err
	}

	t := &ExecutionTrace{
		main:    main,
		cycles:  p.Clk(),
		outputs: p.Outputs(),
	}

	channel := utils.NewChannel(config.HashFunction)
	if config.CommitTrace {
		tree, err := Commit(main, config.Workers)
		if err != nil {
			return nil, err
		}
		t.root = tree.Root()
		t.committed = true
		channel.SendElements(DigestElements(t.root))
	}
	t.alphas = channel.ReceiveRandomBFieldElements(config.NumAuxRandElements)
	t.sent, t.drawn = channel.Counts()

	builder := p.Stack().AuxTraceBuilder()
	aux, err := builder.BuildAuxColumns(main, t.alphas[:stack.NumAuxRandElements], config.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to build auxiliary segment: %w", err)
	}
	t.aux = aux
	return t, nil
}

// Main returns the main trace
func (t *ExecutionTrace) Main() *air.MainTrace {
	return t.main
}

// Length returns the number of rows
func (t *ExecutionTrace) Length() int {
	return t.main.NumRows()
}

// LogLength returns log2 of the number of rows
func (t *ExecutionTrace) LogLength() int {
	return utils.Log2(t.main.NumRows())
}

// Transcript returns how many bytes the channel absorbed and how many
// elements it drew while the auxiliary randomness was derived
func (t *ExecutionTrace) Transcript() (sent, drawn int) {
	return t.sent, t.drawn
}

// AuxColumns returns the auxiliary segment
func (t *ExecutionTrace) AuxColumns() [][]field.Element {
	return t.aux
}

// Alphas returns the random elements the auxiliary segment was built with
func (t *ExecutionTrace) Alphas() []field.Element {
	out := make([]field.Element, len(t.alphas))
	copy(out, t.alphas)
	return out
}

// Commitment returns the main trace commitment and whether one was made
func (t *ExecutionTrace) Commitment() (hash.Digest, bool) {
	return t.root, t.committed
}

// Cycles returns the number of executed clock cycles
func (t *ExecutionTrace) Cycles() uint32 {
	return t.cycles
}

// Outputs returns the final stack, top first
func (t *ExecutionTrace) Outputs() []field.Element {
	out := make([]field.Element, len(t.outputs))
	copy(out, t.outputs)
	return out
}

// CheckConstraints evaluates the hasher transition constraints over every
// row pair
func (t *ExecutionTrace) CheckConstraints(workers int) error {
	return air.CheckHasherTransitions(t.main, workers)
}
