package trace

import (
	"errors"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/advice"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/air"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/processor"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/utils"
)

func testTree(t *testing.T) *advice.MerkleTree {
	t.Helper()
	leaves := make([]core.Word, 8)
	for i := range leaves {
		leaves[i] = core.NewWord(uint64(i), uint64(i*i), 3, 4)
	}
	tree, err := advice.NewMerkleTree(leaves)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

// mixedProgram overflows the stack, verifies a Merkle path, permutes and
// drains the stack again
func mixedProgram(t *testing.T) (*advice.ProgramInputs, processor.CodeBlock) {
	t.Helper()
	tree := testTree(t)
	leaf := tree.Leaves()[5]
	root := tree.Root()

	stackInit := []uint64{
		leaf[3].Value(), leaf[2].Value(), leaf[1].Value(), leaf[0].Value(),
		3, 5,
		root[3].Value(), root[2].Value(), root[1].Value(), root[0].Value(),
		0, 0, 0, 0, 0, 0,
		91, 92,
	}
	inputs, err := advice.NewProgramInputs(stackInit, []uint64{8, 9}, []advice.AdviceSet{tree})
	if err != nil {
		t.Fatal(err)
	}

	program := processor.NewJoin(
		processor.NewSpan(
			core.Op(core.OpMpVerify),
			core.Push(1), core.Push(2), core.Push(3),
			core.Op(core.OpAdvPop), core.Op(core.OpAdvPop),
			core.Op(core.OpHPerm),
			core.Push(1),
		),
		processor.NewSplit(
			processor.NewSpan(core.Op(core.OpDrop)),
			processor.NewSpan(core.Op(core.OpDrop), core.Op(core.OpDrop)),
		),
		processor.NewCall(processor.NewSpan(core.Push(4), core.Op(core.OpDrop))),
		processor.NewSpan(
			core.Op(core.OpDrop), core.Op(core.OpDrop), core.Op(core.OpDrop),
			core.Op(core.OpDrop), core.Op(core.OpDrop), core.Op(core.OpDrop),
		),
	)
	return inputs, program
}

func executeProgram(t *testing.T, config *utils.Config) (*processor.Process, *ExecutionTrace) {
	t.Helper()
	inputs, program := mixedProgram(t)
	p, err := processor.NewProcess(inputs, config)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Execute(program); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	trace, err := NewExecutionTrace(p, config)
	if err != nil {
		t.Fatalf("NewExecutionTrace() error = %v", err)
	}
	return p, trace
}

func TestMainTraceLayout(t *testing.T) {
	p, trace := executeProgram(t, utils.DefaultConfig())
	main := trace.Main()

	n := main.NumRows()
	if !utils.IsPowerOfTwo(n) || n < p.Stack().TraceLen() || n < p.Hasher().GetHeight() {
		t.Fatalf("NumRows() = %d (stack %d, hasher %d)", n, p.Stack().TraceLen(), p.Hasher().GetHeight())
	}
	if len(main.Columns()) != air.TraceWidth {
		t.Fatalf("width = %d, want %d", len(main.Columns()), air.TraceWidth)
	}
	if p.Hasher().GetHeight() != n {
		t.Errorf("hasher segment not padded: %d rows", p.Hasher().GetHeight())
	}

	ops := p.Ops()
	last := p.Stack().TraceLen() - 1
	for r := 0; r < n; r++ {
		if main.Clk(r).Value() != uint64(r) {
			t.Fatalf("clk[%d] = %d", r, main.Clk(r).Value())
		}
		if r < len(ops) && main.Op(r) != ops[r] {
			t.Errorf("op[%d] = %s, want %s", r, main.Op(r), ops[r])
		}
		if r >= len(ops) {
			if main.Op(r) != core.OpNoop {
				t.Errorf("padding op[%d] = %s", r, main.Op(r))
			}
			for i := 0; i < air.StackTraceWidth; i++ {
				col := air.StackTraceOffset + i
				if !main.Get(col, r).Equal(main.Get(col, last)) {
					t.Fatalf("padding row %d differs from the last stack row in column %d", r, col)
				}
			}
		}
	}

	if 1<<trace.LogLength() != n {
		t.Errorf("LogLength() = %d for %d rows", trace.LogLength(), n)
	}
	if trace.Cycles() != uint32(len(ops)) {
		t.Errorf("Cycles() = %d, want %d", trace.Cycles(), len(ops))
	}
}

func TestExecutionTraceConstraints(t *testing.T) {
	_, trace := executeProgram(t, utils.DefaultConfig().WithWorkers(4))
	if err := trace.CheckConstraints(4); err != nil {
		t.Fatalf("CheckConstraints() error = %v", err)
	}

	cols := trace.Main().Columns()
	row := air.MinTraceLength + 3
	col := air.HasherStateColStart + 5
	cols[col][row] = cols[col][row].Add(field.One)

	var violation *air.ConstraintViolation
	if err := trace.CheckConstraints(2); !errors.As(err, &violation) {
		t.Fatalf("CheckConstraints() error = %v, want a violation", err)
	}
}

func TestAuxColumn(t *testing.T) {
	p, trace := executeProgram(t, utils.DefaultConfig())

	aux := trace.AuxColumns()
	if len(aux) != 1 || len(aux[0]) != trace.Length() {
		t.Fatalf("aux segment shape = %d columns", len(aux))
	}

	alphas := trace.Alphas()
	if len(alphas) != utils.DefaultConfig().NumAuxRandElements {
		t.Fatalf("len(alphas) = %d", len(alphas))
	}

	initRows := p.Stack().Overflow().AllRows()[:p.Stack().Overflow().NumInitRows()]
	first := field.One
	for _, row := range initRows {
		first = first.Mul(row.ToValue(alphas))
	}
	if !aux[0][0].Equal(first) {
		t.Errorf("p[0] = %d, want %d", aux[0][0].Value(), first.Value())
	}

	remaining := field.One
	for _, row := range p.Stack().Overflow().ActiveRows() {
		remaining = remaining.Mul(row.ToValue(alphas))
	}
	last := aux[0][len(aux[0])-1]
	if !last.Equal(remaining) {
		t.Errorf("terminal p = %d, product of remaining rows = %d", last.Value(), remaining.Value())
	}
}

func TestCommitment(t *testing.T) {
	_, t1 := executeProgram(t, utils.DefaultConfig().WithWorkers(1))
	_, t2 := executeProgram(t, utils.DefaultConfig().WithWorkers(5))

	r1, ok1 := t1.Commitment()
	r2, ok2 := t2.Commitment()
	if !ok1 || !ok2 {
		t.Fatal("trace was not committed")
	}
	if r1 != r2 {
		t.Error("commitment depends on the worker count")
	}
	a1, a2 := t1.Alphas(), t2.Alphas()
	for i := range a1 {
		if !a1[i].Equal(a2[i]) {
			t.Errorf("alpha %d differs between identical runs", i)
		}
	}

	sent, drawn := t1.Transcript()
	if sent != 8*len(DigestElements(r1)) || drawn != len(a1) {
		t.Errorf("Transcript() = %d, %d", sent, drawn)
	}

	_, t3 := executeProgram(t, utils.DefaultConfig().WithCommitTrace(false))
	if sent, _ := t3.Transcript(); sent != 0 {
		t.Errorf("uncommitted trace absorbed %d bytes", sent)
	}
	if _, ok := t3.Commitment(); ok {
		t.Error("Commitment() reported a commitment with CommitTrace disabled")
	}
	if t3.Alphas()[0].Equal(a1[0]) {
		t.Error("alphas do not depend on the commitment")
	}
}
