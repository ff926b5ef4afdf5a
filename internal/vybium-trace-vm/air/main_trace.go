package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// MainTrace is a read-only view of the main trace columns
type MainTrace struct {
	columns [][]field.Element
	numRows int
}

// NewMainTrace wraps columns laid out as described in this package
func NewMainTrace(columns [][]field.Element) (*MainTrace, error) {
	if len(columns) != TraceWidth {
		return nil, fmt.Errorf("main trace must have %d columns, got %d", TraceWidth, len(columns))
	}
	n := len(columns[0])
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("column %d has %d rows, expected %d", i, len(col), n)
		}
	}
	return &MainTrace{columns: columns, numRows: n}, nil
}

// NumRows returns the trace length
func (t *MainTrace) NumRows() int {
	return t.numRows
}

// Columns returns the underlying columns
func (t *MainTrace) Columns() [][]field.Element {
	return t.columns
}

// Get returns the cell at col and row
func (t *MainTrace) Get(col, row int) field.Element {
	return t.columns[col][row]
}

// ReadRow copies row into buf, which must hold TraceWidth elements
func (t *MainTrace) ReadRow(row int, buf []field.Element) {
	for c := range t.columns {
		buf[c] = t.columns[c][row]
	}
}

// Clk returns the clock at row
func (t *MainTrace) Clk(row int) field.Element {
	return t.columns[ClkColIdx][row]
}

// Op returns the opcode executed at row
func (t *MainTrace) Op(row int) core.OpCode {
	return core.OpCodeFromFelt(t.columns[OpColIdx][row])
}

// StackElement returns stack slot i at row
func (t *MainTrace) StackElement(i, row int) field.Element {
	return t.columns[StackTraceOffset+i][row]
}

// StackDepth returns b0 at row
func (t *MainTrace) StackDepth(row int) field.Element {
	return t.columns[B0ColIdx][row]
}

// ParentOverflowAddress returns b1 at row
func (t *MainTrace) ParentOverflowAddress(row int) field.Element {
	return t.columns[B1ColIdx][row]
}

// IsNonEmptyOverflow reports whether the overflow table has live rows at row
func (t *MainTrace) IsNonEmptyOverflow(row int) bool {
	return !t.columns[H0ColIdx][row].IsZero()
}

// IsLeftShift reports whether the op at row shifts the stack left
func (t *MainTrace) IsLeftShift(row int) bool {
	return t.Op(row).Info().Shift == core.ShiftLeft
}

// IsRightShift reports whether the op at row shifts the stack right
func (t *MainTrace) IsRightShift(row int) bool {
	return t.Op(row).Info().Shift == core.ShiftRight
}
