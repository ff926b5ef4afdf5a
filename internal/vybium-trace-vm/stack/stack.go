package stack

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

const (
	// MinStackDepth is the size of the visible window
	MinStackDepth = 16

	// NumColumns is the number of stack trace columns: s0..s15, b0, b1, h0
	NumColumns = MinStackDepth + 3
)

// Stack is the operand stack. Operations write the next row with Set and then
// complete it with exactly one of CopyState, ShiftLeft or ShiftRight before
// AdvanceClock commits it to the trace.
type Stack struct {
	clk uint32

	current [MinStackDepth]field.Element
	next    [MinStackDepth]field.Element

	depth     int
	addr      field.Element
	nextDepth int
	nextAddr  field.Element

	overflow *OverflowTable
	trace    [NumColumns][]field.Element
}

// NewStack creates a stack from init, listed top first. Values past the
// window start out in the overflow table.
func NewStack(init []field.Element) *Stack {
	s := &Stack{}
	for i := 0; i < MinStackDepth; i++ {
		if i < len(init) {
			s.current[i] = init[i]
		} else {
			s.current[i] = field.Zero
		}
		s.next[i] = field.Zero
	}

	var below []field.Element
	if len(init) > MinStackDepth {
		below = init[MinStackDepth:]
	}
	s.overflow = NewOverflowTable(below)
	s.depth = MinStackDepth + s.overflow.Len()
	s.addr = s.overflow.LastRowAddr()
	s.nextDepth = s.depth
	s.nextAddr = s.addr

	for i := range s.trace {
		s.trace[i] = make([]field.Element, 0)
	}
	s.recordRow()
	return s
}

// Clk returns the clock of the current row
func (s *Stack) Clk() uint32 {
	return s.clk
}

// Depth returns the current stack depth
func (s *Stack) Depth() int {
	return s.depth
}

// Overflow returns the overflow table
func (s *Stack) Overflow() *OverflowTable {
	return s.overflow
}

// Get returns the element at position i of the current row
func (s *Stack) Get(i int) field.Element {
	return s.current[i]
}

// GetWord returns word i of the current row; element 0 of the word is the
// deepest of its four slots
func (s *Stack) GetWord(i int) core.Word {
	return s.GetWordAt(4 * i)
}

// GetWordAt returns the word occupying positions pos..pos+3
func (s *Stack) GetWordAt(pos int) core.Word {
	return core.Word{s.current[pos+3], s.current[pos+2], s.current[pos+1], s.current[pos]}
}

// Set writes v at position i of the next row
func (s *Stack) Set(i int, v field.Element) {
	s.next[i] = v
}

// SetWordAt writes w into positions pos..pos+3 of the next row
func (s *Stack) SetWordAt(pos int, w core.Word) {
	s.next[pos] = w[3]
	s.next[pos+1] = w[2]
	s.next[pos+2] = w[1]
	s.next[pos+3] = w[0]
}

// CopyState copies positions start..15 into the next row unchanged
func (s *Stack) CopyState(start int) {
	copy(s.next[start:], s.current[start:])
	s.nextDepth = s.depth
	s.nextAddr = s.addr
}

// ShiftLeft moves positions start+1..15 up by one. Slot 15 is refilled from
// the overflow table, or with zero when the table is empty.
func (s *Stack) ShiftLeft(start int) error {
	for i := start; i < MinStackDepth-1; i++ {
		s.next[i] = s.current[i+1]
	}

	if s.depth > MinStackDepth {
		row, err := s.overflow.Pop(s.clk)
		if err != nil {
			return err
		}
		s.next[MinStackDepth-1] = row.Val
		s.nextDepth = s.depth - 1
		s.nextAddr = row.Prev
	} else {
		s.next[MinStackDepth-1] = field.Zero
		s.nextDepth = s.depth
		s.nextAddr = s.addr
	}
	return nil
}

// ShiftRight moves positions start..14 down by one and pushes slot 15 into
// the overflow table at the current clock. The caller sets position start.
func (s *Stack) ShiftRight(start int) {
	for i := MinStackDepth - 1; i > start; i-- {
		s.next[i] = s.current[i-1]
	}
	s.overflow.Push(s.current[MinStackDepth-1], s.clk, s.addr)
	s.nextDepth = s.depth + 1
	s.nextAddr = field.New(uint64(s.clk))
}

// StartContext hides the caller's overflow rows from the next row on and
// returns the depth and overflow address to restore on return
func (s *Stack) StartContext() (int, field.Element) {
	s.nextDepth = MinStackDepth
	s.nextAddr = field.Zero
	return s.depth, s.addr
}

// RestoreContext makes the caller's overflow rows visible again from the next
// row on. The callee must not leave rows of its own behind.
func (s *Stack) RestoreContext(depth int, addr field.Element) error {
	if s.depth != MinStackDepth {
		return core.NewInvalidStackDepthOnReturn(s.depth)
	}
	s.nextDepth = depth
	s.nextAddr = addr
	return nil
}

// AdvanceClock commits the next row and records it in the trace
func (s *Stack) AdvanceClock() {
	s.current = s.next
	s.depth = s.nextDepth
	s.addr = s.nextAddr
	s.clk++
	s.recordRow()
}

func (s *Stack) recordRow() {
	for i := 0; i < MinStackDepth; i++ {
		s.trace[i] = append(s.trace[i], s.current[i])
	}
	s.trace[MinStackDepth] = append(s.trace[MinStackDepth], field.New(uint64(s.depth)))
	s.trace[MinStackDepth+1] = append(s.trace[MinStackDepth+1], s.addr)

	h0 := field.Zero
	if s.depth > MinStackDepth {
		h0 = field.New(uint64(s.depth - MinStackDepth)).Inverse()
	}
	s.trace[MinStackDepth+2] = append(s.trace[MinStackDepth+2], h0)
}

// TraceLen returns the number of recorded rows
func (s *Stack) TraceLen() int {
	return len(s.trace[0])
}

// TraceColumns returns the stack columns extended to length by repeating the
// last row
func (s *Stack) TraceColumns(length int) ([][]field.Element, error) {
	n := s.TraceLen()
	if length < n {
		return nil, fmt.Errorf("trace length %d is shorter than the stack trace (%d rows)", length, n)
	}

	cols := make([][]field.Element, NumColumns)
	for i := range cols {
		col := make([]field.Element, length)
		copy(col, s.trace[i])
		last := s.trace[i][n-1]
		for r := n; r < length; r++ {
			col[r] = last
		}
		cols[i] = col
	}
	return cols, nil
}

// Outputs returns the final stack, top first, including overflow rows
// visible in the current context
func (s *Stack) Outputs() []field.Element {
	out := make([]field.Element, 0, s.depth)
	out = append(out, s.current[:]...)

	rows := s.overflow.ActiveRows()
	visible := s.depth - MinStackDepth
	for i := len(rows) - 1; i >= 0 && visible > 0; i-- {
		out = append(out, rows[i].Val)
		visible--
	}
	return out
}

// AuxTraceBuilder returns the builder for the overflow running-product column
func (s *Stack) AuxTraceBuilder() *AuxTraceBuilder {
	return &AuxTraceBuilder{
		overflowRows: s.overflow.AllRows(),
		numInitRows:  s.overflow.NumInitRows(),
	}
}
