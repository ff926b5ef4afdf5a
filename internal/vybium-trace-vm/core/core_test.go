package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

func TestWordBytes(t *testing.T) {
	w := NewWord(1, 2, field.P-1, 1<<40)
	b := w.Bytes()

	if b[0] != 1 || b[8] != 2 {
		t.Errorf("Bytes() little-endian layout wrong: %x", b)
	}

	if b[31] != 0 || b[24] != 0 || b[29] != 1 {
		t.Errorf("Bytes() encodes 1<<40 wrong: %x", b[24:])
	}
}

func TestBatchInversion(t *testing.T) {
	elements := []field.Element{field.New(2), field.New(3), field.New(42), field.New(field.P - 1)}

	inverses, err := BatchInversion(elements)
	if err != nil {
		t.Fatalf("BatchInversion() error = %v", err)
	}
	for i, inv := range inverses {
		if !elements[i].Mul(inv).IsOne() {
			t.Errorf("element %d: e * e^-1 = %s, want 1", i, elements[i].Mul(inv))
		}
	}

	if _, err := BatchInversion([]field.Element{field.One, field.Zero}); err == nil {
		t.Error("BatchInversion() accepted a zero element")
	}

	empty, err := BatchInversion(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("BatchInversion(nil) = %v, %v", empty, err)
	}
}

func TestParallelBatchInversion(t *testing.T) {
	elements := make([]field.Element, 3000)
	for i := range elements {
		elements[i] = field.New(uint64(i + 1))
	}

	inverses, err := ParallelBatchInversion(elements, 4)
	if err != nil {
		t.Fatalf("ParallelBatchInversion() error = %v", err)
	}
	for i := range elements {
		if !elements[i].Mul(inverses[i]).IsOne() {
			t.Fatalf("element %d not inverted", i)
		}
	}
}

func TestExecutionErrorIs(t *testing.T) {
	err := fmt.Errorf("executing span: %w", NewAdviceTapeReadFailed(7))

	if !errors.Is(err, ErrAdviceTapeReadFailed) {
		t.Error("errors.Is() did not match the tape read sentinel")
	}
	if errors.Is(err, ErrAdviceKeyNotFound) {
		t.Error("errors.Is() matched a different kind")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatal("errors.As() failed")
	}
	if execErr.Step != 7 {
		t.Errorf("Step = %d, want 7", execErr.Step)
	}
}

func TestLookupFailureUnwraps(t *testing.T) {
	cause := errors.New("invalid depth")
	err := NewAdviceSetLookupFailed(cause)
	if !errors.Is(err, cause) {
		t.Error("lookup failure does not unwrap to its cause")
	}
}

func TestOperationShift(t *testing.T) {
	tests := []struct {
		op   Operation
		want StackShift
	}{
		{Push(5), ShiftRight},
		{Op(OpPad), ShiftRight},
		{Op(OpAdd), ShiftLeft},
		{Op(OpDrop), ShiftLeft},
		{Op(OpSwap), ShiftNone},
		{Op(OpHPerm), ShiftNone},
		{Op(OpSplit), ShiftLeft},
		{Op(OpEnd), ShiftNone},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.Shift(); got != tt.want {
				t.Errorf("Shift() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOpCodeFelt(t *testing.T) {
	for c := OpNoop; c < numOpCodes; c++ {
		if got := OpCodeFromFelt(c.Felt()); got != c {
			t.Errorf("OpCodeFromFelt(%s) = %s", c, got)
		}
	}
}
