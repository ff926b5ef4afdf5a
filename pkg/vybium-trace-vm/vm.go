package vybiumtracevm

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/processor"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/trace"
)

// VM executes programs and builds their traces
type VM struct {
	config *Config
	logger log.Logger
}

// NewVM creates a VM with the given configuration
func NewVM(config *Config) (*VM, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, newVMError(ErrInvalidConfig, "invalid configuration", err)
	}
	return &VM{
		config: config.Clone(),
		logger: log.New("module", "vybium-trace-vm"),
	}, nil
}

// Config returns a copy of the VM configuration
func (v *VM) Config() *Config {
	return v.config.Clone()
}

// Execute runs program over inputs and returns its execution trace
func (v *VM) Execute(program CodeBlock, inputs *ProgramInputs) (*ExecutionTrace, error) {
	if program == nil {
		return nil, newVMError(ErrInvalidInput, "program is nil", nil)
	}
	if inputs == nil {
		inputs = NoInputs()
	}

	start := time.Now()
	process, err := processor.NewProcess(inputs, v.config)
	if err != nil {
		return nil, newVMError(ErrInvalidConfig, "failed to create process", err)
	}
	if err := process.Execute(program); err != nil {
		v.logger.Debug("Program execution failed", "clk", process.Clk(), "err", err)
		return nil, newVMError(ErrVMExecution, "program execution failed", err)
	}
	v.logger.Debug("Program executed", "cycles", process.Clk(), "hasher_rows", process.Hasher().GetHeight(), "elapsed", time.Since(start))

	t, err := trace.NewExecutionTrace(process, v.config)
	if err != nil {
		return nil, newVMError(ErrTraceGeneration, "failed to build execution trace", err)
	}
	sent, drawn := t.Transcript()
	v.logger.Debug("Execution trace built", "rows", t.Length(), "log_rows", t.LogLength(),
		"transcript_sent", sent, "transcript_drawn", drawn, "elapsed", time.Since(start))
	return t, nil
}

// Check verifies that t satisfies the hasher transition constraints
func (v *VM) Check(t *ExecutionTrace) error {
	if err := t.CheckConstraints(v.config.Workers); err != nil {
		return newVMError(ErrConstraintViolation, "trace does not satisfy the hasher constraints", err)
	}
	return nil
}

// Run executes program, checks the resulting trace and summarises it
func (v *VM) Run(program CodeBlock, inputs *ProgramInputs) (*Result, error) {
	t, err := v.Execute(program, inputs)
	if err != nil {
		return nil, err
	}
	if err := v.Check(t); err != nil {
		return nil, err
	}

	res := &Result{
		Cycles:   t.Cycles(),
		TraceLen: t.Length(),
	}
	for _, e := range t.Outputs() {
		res.Outputs = append(res.Outputs, e.Value())
	}
	if root, ok := t.Commitment(); ok {
		for _, e := range root {
			res.Commitment = append(res.Commitment, e.Value())
		}
	}
	v.logger.Info("Program run", "cycles", res.Cycles, "trace_len", res.TraceLen)
	return res, nil
}
