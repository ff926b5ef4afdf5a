// Package vybiumtracevm executes programs on the Vybium trace VM and returns
// the execution trace a STARK prover consumes.
//
// A program is a tree of code blocks. Spans hold straight-line operations;
// joins, splits, loops and calls combine them:
//
//	program := vybiumtracevm.NewJoin(
//		vybiumtracevm.NewSpan(vybiumtracevm.Push(3), vybiumtracevm.Push(4)),
//		vybiumtracevm.NewSpan(vybiumtracevm.Op(vybiumtracevm.OpAdd)),
//	)
//
//	vm, err := vybiumtracevm.NewVM(vybiumtracevm.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	trace, err := vm.Execute(program, vybiumtracevm.NoInputs())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(trace.Outputs()[0]) // 7
//
// # Trace
//
// The main trace has 37 columns: the clock, the op code, the 16-slot stack
// window with its depth, overflow address and helper column, and the hasher
// chiplet's selectors, state and node index. Its length is a power of two of
// at least 16 rows. The auxiliary segment holds the running product of the
// stack overflow table, built from randomness drawn from a commitment to the
// main trace.
//
// # Advice
//
// Programs read non-deterministic input from an advice tape, an advice map
// keyed by words, and Merkle advice sets addressed by their roots. Decorators
// attached to spans move data between these without consuming cycles.
//
// # Errors
//
// Every error returned by the VM is a *VMError. Execution failures wrap a
// *ExecutionError whose Kind identifies the failure; use errors.Is with the
// Err* sentinels re-exported here to match them.
package vybiumtracevm
