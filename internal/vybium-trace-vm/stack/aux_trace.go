package stack

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/air"
)

// NumAuxRandElements is the number of challenges used by ToValue
const NumAuxRandElements = 4

// AuxTraceBuilder builds the running-product column of the overflow table.
// A right shift multiplies in the row it adds; a left shift with a non-empty
// table divides out the row it removes.
type AuxTraceBuilder struct {
	overflowRows []OverflowTableRow
	numInitRows  int
}

var _ air.AuxColumnBuilder = (*AuxTraceBuilder)(nil)

// BuildAuxColumns returns the auxiliary columns contributed by the stack
func (b *AuxTraceBuilder) BuildAuxColumns(main *air.MainTrace, alphas []field.Element, workers int) ([][]field.Element, error) {
	p1, err := air.BuildAuxColumn(b, main, alphas, workers)
	if err != nil {
		return nil, err
	}
	return [][]field.Element{p1}, nil
}

// InitResponses returns the product of the rows present before execution
func (b *AuxTraceBuilder) InitResponses(_ *air.MainTrace, alphas []field.Element) field.Element {
	acc := field.One
	for _, row := range b.overflowRows[:b.numInitRows] {
		acc = acc.Mul(row.ToValue(alphas))
	}
	return acc
}

// GetRequestsAt returns the value of the row removed at row i, or one
func (b *AuxTraceBuilder) GetRequestsAt(main *air.MainTrace, alphas []field.Element, i int) field.Element {
	if main.IsLeftShift(i) && main.IsNonEmptyOverflow(i) {
		row := OverflowTableRow{
			Clk:  main.ParentOverflowAddress(i),
			Val:  main.StackElement(MinStackDepth-1, i+1),
			Prev: main.ParentOverflowAddress(i + 1),
		}
		return row.ToValue(alphas)
	}
	return field.One
}

// GetResponsesAt returns the value of the row added at row i, or one
func (b *AuxTraceBuilder) GetResponsesAt(main *air.MainTrace, alphas []field.Element, i int) field.Element {
	if main.IsRightShift(i) {
		row := OverflowTableRow{
			Clk:  main.Clk(i),
			Val:  main.StackElement(MinStackDepth-1, i),
			Prev: main.ParentOverflowAddress(i),
		}
		return row.ToValue(alphas)
	}
	return field.One
}
