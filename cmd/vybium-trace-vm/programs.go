package main

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	vybiumtracevm "github.com/vybium/vybium-trace-vm/pkg/vybium-trace-vm"
)

// fibProgram runs n iterations of a loop that leaves F(n+1) and F(n) on top
func fibProgram(n uint64) (vybiumtracevm.CodeBlock, *vybiumtracevm.ProgramInputs, error) {
	if n == 0 {
		return nil, nil, fmt.Errorf("fib needs at least one iteration")
	}
	inputs, err := vybiumtracevm.NewProgramInputs([]uint64{1, n, 1, 0}, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	// [n, x, y] -> [n-1 == 0 ? 0 : 1, n-1, x+y, x]
	body := vybiumtracevm.NewSpan(
		vybiumtracevm.Push(field.P-1), vybiumtracevm.Op(vybiumtracevm.OpAdd),
		vybiumtracevm.MovDn(2),
		vybiumtracevm.Dup(0),
		vybiumtracevm.MovUp(2),
		vybiumtracevm.Op(vybiumtracevm.OpAdd),
		vybiumtracevm.MovUp(2),
		vybiumtracevm.Dup(0),
		vybiumtracevm.Op(vybiumtracevm.OpEqz),
		vybiumtracevm.Op(vybiumtracevm.OpNeg),
		vybiumtracevm.Op(vybiumtracevm.OpIncr),
	)
	program := vybiumtracevm.NewJoin(
		vybiumtracevm.NewLoop(body),
		vybiumtracevm.NewSpan(vybiumtracevm.Op(vybiumtracevm.OpDrop)),
	)
	return program, inputs, nil
}

// merkleProgram verifies leaf index of an eight-leaf tree and replaces it,
// keeping the old tree
func merkleProgram(index uint64) (vybiumtracevm.CodeBlock, *vybiumtracevm.ProgramInputs, error) {
	leaves := make([]vybiumtracevm.Word, 8)
	for i := range leaves {
		leaves[i] = vybiumtracevm.NewWord(uint64(i), uint64(i+1), uint64(i+2), uint64(i+3))
	}
	tree, err := vybiumtracevm.NewMerkleTree(leaves)
	if err != nil {
		return nil, nil, err
	}
	if index >= uint64(len(leaves)) {
		return nil, nil, fmt.Errorf("leaf index %d out of range", index)
	}

	stack := topFirst(leaves[index])
	stack = append(stack, uint64(tree.Depth()), index)
	stack = append(stack, topFirst(tree.Root())...)
	stack = append(stack, topFirst(vybiumtracevm.NewWord(index, 0, 0, 1))...)

	inputs, err := vybiumtracevm.NewProgramInputs(stack, nil, []vybiumtracevm.AdviceSet{tree})
	if err != nil {
		return nil, nil, err
	}
	program := vybiumtracevm.NewSpan(
		vybiumtracevm.Op(vybiumtracevm.OpMpVerify),
		vybiumtracevm.MrUpdate(true),
	)
	return program, inputs, nil
}

// adviceProgram sums the advice tape
func adviceProgram(file *InputFile) (vybiumtracevm.CodeBlock, *vybiumtracevm.ProgramInputs, error) {
	inputs, err := vybiumtracevm.NewProgramInputs(file.StackInit, file.AdviceTape, nil)
	if err != nil {
		return nil, nil, err
	}
	ops := []vybiumtracevm.Operation{vybiumtracevm.Push(0)}
	for range file.AdviceTape {
		ops = append(ops, vybiumtracevm.Op(vybiumtracevm.OpAdvPop), vybiumtracevm.Op(vybiumtracevm.OpAdd))
	}
	return vybiumtracevm.NewSpan(ops...), inputs, nil
}

// topFirst lays a word out for the stack so that GetWordAt reads it back
func topFirst(w vybiumtracevm.Word) []uint64 {
	return []uint64{w[3].Value(), w[2].Value(), w[1].Value(), w[0].Value()}
}
