package processor

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/advice"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/stack"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/utils"
)

// Process executes a program one clock cycle at a time. Every cycle executes
// exactly one operation and records one stack row; the hasher chiplet grows
// independently as operations request permutations.
type Process struct {
	maxCycles uint32

	stack  *stack.Stack
	advice *advice.Provider
	hasher *hasher.Chiplet
	memory *Memory

	// op executed at each cycle; row i of the trace transitions with ops[i]
	ops []core.OpCode
}

// NewProcess creates a process over inputs
func NewProcess(inputs *advice.ProgramInputs, config *utils.Config) (*Process, error) {
	if inputs == nil {
		inputs = advice.NoInputs()
	}
	if config == nil {
		config = utils.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Process{
		maxCycles: config.MaxCycles,
		stack:     stack.NewStack(inputs.StackInit()),
		advice:    advice.NewProvider(inputs),
		hasher:    hasher.NewChiplet(),
		memory:    NewMemory(),
		ops:       make([]core.OpCode, 0, 64),
	}, nil
}

// Execute runs program to completion. The process is left in its final state
// on success and in the state of the failing cycle on error.
func (p *Process) Execute(program CodeBlock) error {
	if program == nil {
		return fmt.Errorf("program is nil")
	}
	return p.executeBlock(program)
}

// Clk returns the current clock cycle
func (p *Process) Clk() uint32 {
	return p.stack.Clk()
}

// Stack returns the operand stack
func (p *Process) Stack() *stack.Stack {
	return p.stack
}

// Advice returns the advice provider
func (p *Process) Advice() *advice.Provider {
	return p.advice
}

// Hasher returns the hasher chiplet
func (p *Process) Hasher() *hasher.Chiplet {
	return p.hasher
}

// Memory returns the memory store
func (p *Process) Memory() *Memory {
	return p.memory
}

// Ops returns the op code executed at each cycle
func (p *Process) Ops() []core.OpCode {
	out := make([]core.OpCode, len(p.ops))
	copy(out, p.ops)
	return out
}

func (p *Process) executeBlock(block CodeBlock) error {
	switch b := block.(type) {
	case *Span:
		return p.executeSpan(b)
	case *Join:
		return p.executeJoin(b)
	case *Split:
		return p.executeSplit(b)
	case *Loop:
		return p.executeLoop(b)
	case *Call:
		return p.executeCall(b)
	default:
		return fmt.Errorf("unsupported code block %T", block)
	}
}

func (p *Process) executeSpan(span *Span) error {
	if err := checkDecoratorOrder(span); err != nil {
		return err
	}
	if err := p.controlOp(core.OpSpan); err != nil {
		return err
	}

	next := 0
	runDecorators := func(at int) error {
		for next < len(span.Decorators) && span.Decorators[next].At == at {
			if err := p.executeDecorator(span.Decorators[next].Decorator); err != nil {
				return err
			}
			next++
		}
		return nil
	}

	for i, op := range span.Ops {
		if err := runDecorators(i); err != nil {
			return err
		}
		if err := p.execute(op); err != nil {
			return err
		}
	}
	if err := runDecorators(len(span.Ops)); err != nil {
		return err
	}

	return p.controlOp(core.OpEnd)
}

func checkDecoratorOrder(span *Span) error {
	prev := 0
	for _, d := range span.Decorators {
		if d.At < prev || d.At > len(span.Ops) {
			return fmt.Errorf("decorator at %d is out of order in a span of %d operations", d.At, len(span.Ops))
		}
		prev = d.At
	}
	return nil
}

func (p *Process) executeJoin(join *Join) error {
	if err := p.controlOp(core.OpJoin); err != nil {
		return err
	}
	if err := p.executeBlock(join.First); err != nil {
		return err
	}
	if err := p.executeBlock(join.Second); err != nil {
		return err
	}
	return p.controlOp(core.OpEnd)
}

func (p *Process) executeSplit(split *Split) error {
	cond, err := p.condition()
	if err != nil {
		return err
	}
	if err := p.controlOp(core.OpSplit); err != nil {
		return err
	}

	if cond {
		err = p.executeBlock(split.OnTrue)
	} else {
		err = p.executeBlock(split.OnFalse)
	}
	if err != nil {
		return err
	}
	return p.controlOp(core.OpEnd)
}

func (p *Process) executeLoop(loop *Loop) error {
	cond, err := p.condition()
	if err != nil {
		return err
	}
	if err := p.controlOp(core.OpLoop); err != nil {
		return err
	}
	if !cond {
		return p.controlOp(core.OpEnd)
	}

	for {
		if err := p.executeBlock(loop.Body); err != nil {
			return err
		}
		cond, err := p.condition()
		if err != nil {
			return err
		}
		if !cond {
			break
		}
		if err := p.controlOp(core.OpRepeat); err != nil {
			return err
		}
	}
	// the body left a zero on top; END drops it
	return p.controlOp(core.OpEndLoop)
}

func (p *Process) executeCall(call *Call) error {
	if err := p.checkCycleLimit(); err != nil {
		return err
	}
	p.stack.CopyState(0)
	depth, addr := p.stack.StartContext()
	p.advanceClock(core.OpCall)

	if err := p.executeBlock(call.Body); err != nil {
		return err
	}

	if err := p.checkCycleLimit(); err != nil {
		return err
	}
	p.stack.CopyState(0)
	if err := p.stack.RestoreContext(depth, addr); err != nil {
		var execErr *core.ExecutionError
		if errors.As(err, &execErr) {
			execErr.Step = p.Clk()
		}
		return err
	}
	p.advanceClock(core.OpEnd)
	return nil
}

// condition reads the binary value on top of the stack
func (p *Process) condition() (bool, error) {
	v := p.stack.Get(0)
	switch {
	case v.IsZero():
		return false, nil
	case v.IsOne():
		return true, nil
	default:
		return false, core.NewNotBinaryValue(p.Clk(), v.Value())
	}
}

// controlOp executes a flow-control row. SPLIT, LOOP, REPEAT and the END of
// an entered loop drop the condition; the others leave the stack unchanged.
func (p *Process) controlOp(code core.OpCode) error {
	if err := p.checkCycleLimit(); err != nil {
		return err
	}
	switch code.Info().Shift {
	case core.ShiftLeft:
		if err := p.stack.ShiftLeft(0); err != nil {
			return err
		}
	default:
		p.stack.CopyState(0)
	}
	p.advanceClock(code)
	return nil
}

// execute runs one user operation as one cycle
func (p *Process) execute(op core.Operation) error {
	if err := p.checkCycleLimit(); err != nil {
		return err
	}
	if err := p.applyOp(op); err != nil {
		return err
	}
	p.advanceClock(op.Code)
	return nil
}

func (p *Process) checkCycleLimit() error {
	if p.Clk() >= p.maxCycles {
		return core.NewCycleLimitExceeded(p.Clk())
	}
	return nil
}

func (p *Process) advanceClock(code core.OpCode) {
	p.ops = append(p.ops, code)
	p.stack.AdvanceClock()
}

// readHasherState reads a 12-element state from the top of the stack with
// s11 as state[0] and s0 as state[11]
func (p *Process) readHasherState() hasher.State {
	var state hasher.State
	for i := 0; i < hasher.StateWidth; i++ {
		state[i] = p.stack.Get(hasher.StateWidth - 1 - i)
	}
	return state
}

// writeHasherState writes state to the next row in the layout read by
// readHasherState
func (p *Process) writeHasherState(state hasher.State) {
	for i := 0; i < hasher.StateWidth; i++ {
		p.stack.Set(hasher.StateWidth-1-i, state[i])
	}
}

// Outputs returns the final stack, top first
func (p *Process) Outputs() []field.Element {
	return p.stack.Outputs()
}
