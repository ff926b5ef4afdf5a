// Package trace assembles the execution trace of a finished process, commits
// to it and builds the auxiliary segment from the commitment's randomness
package trace

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/air"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/processor"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/utils"
)

// BuildMainTrace lays out the stack and hasher segments of p side by side.
// The length is the next power of two holding both segments and at least
// minLength. The stack segment is padded by repeating its last row under
// NOOP; the hasher segment by zero-state permutations.
func BuildMainTrace(p *processor.Process, minLength int) (*air.MainTrace, error) {
	if minLength < air.MinTraceLength {
		minLength = air.MinTraceLength
	}

	st := p.Stack()
	ch := p.Hasher()
	rows := st.TraceLen()
	if ch.GetHeight() > rows {
		rows = ch.GetHeight()
	}
	length := utils.TraceLength(rows, minLength)

	stackCols, err := st.TraceColumns(length)
	if err != nil {
		return nil, fmt.Errorf("failed to build stack segment: %w", err)
	}
	if err := ch.Pad(length); err != nil {
		return nil, fmt.Errorf("failed to pad hasher segment: %w", err)
	}

	columns := make([][]field.Element, 0, air.TraceWidth)

	clk := make([]field.Element, length)
	for r := range clk {
		clk[r] = field.New(uint64(r))
	}
	columns = append(columns, clk)

	opCol := make([]field.Element, length)
	ops := p.Ops()
	noop := core.OpNoop.Felt()
	for r := range opCol {
		if r < len(ops) {
			opCol[r] = ops[r].Felt()
		} else {
			opCol[r] = noop
		}
	}
	columns = append(columns, opCol)

	columns = append(columns, stackCols...)
	columns = append(columns, ch.GetMainColumns()...)

	return air.NewMainTrace(columns)
}
