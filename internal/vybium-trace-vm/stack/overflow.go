// Package stack implements the 16-slot operand stack window and the overflow
// table that holds the elements below it
package stack

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// OverflowTableRow is one element stored below the visible window. Clk is the
// row's address, Prev the address of the row below it (zero when none).
type OverflowTableRow struct {
	Clk  field.Element
	Val  field.Element
	Prev field.Element
}

// ToValue reduces the row to a single element using alphas[0..4]
func (r OverflowTableRow) ToValue(alphas []field.Element) field.Element {
	return alphas[0].
		Add(alphas[1].Mul(r.Clk)).
		Add(alphas[2].Mul(r.Val)).
		Add(alphas[3].Mul(r.Prev))
}

// OverflowEventKind distinguishes table insertions from removals
type OverflowEventKind int

const (
	// OverflowAdd records a row pushed by a right shift
	OverflowAdd OverflowEventKind = iota
	// OverflowRemove records a row popped by a left shift
	OverflowRemove
)

// OverflowEvent is one entry of the table's event log
type OverflowEvent struct {
	Clk  uint32
	Kind OverflowEventKind
	Row  OverflowTableRow
}

// OverflowTable is a LIFO of rows linked through their Prev addresses. Rows
// are never deleted from the history; the active list tracks what is live.
type OverflowTable struct {
	rows        []OverflowTableRow
	active      []int
	numInitRows int
	events      []OverflowEvent
}

// NewOverflowTable creates a table holding init, listed from the row just
// below the window to the deepest element. Initial rows get addresses
// -len(init)..-1 so they never collide with a clock value or zero.
func NewOverflowTable(init []field.Element) *OverflowTable {
	t := &OverflowTable{
		rows:        make([]OverflowTableRow, 0, len(init)),
		active:      make([]int, 0, len(init)),
		numInitRows: len(init),
		events:      make([]OverflowEvent, 0),
	}

	prev := field.Zero
	n := len(init)
	for i := n - 1; i >= 0; i-- {
		addr := field.New(uint64(i + 1)).Neg()
		t.rows = append(t.rows, OverflowTableRow{Clk: addr, Val: init[i], Prev: prev})
		t.active = append(t.active, len(t.rows)-1)
		prev = addr
	}
	return t
}

// Push adds a row for value at address clk. prev is the address of the row
// visible below it, which is zero at the bottom of a call context even when
// the caller's rows are still live.
func (t *OverflowTable) Push(value field.Element, clk uint32, prev field.Element) {
	row := OverflowTableRow{
		Clk:  field.New(uint64(clk)),
		Val:  value,
		Prev: prev,
	}
	t.rows = append(t.rows, row)
	t.active = append(t.active, len(t.rows)-1)
	t.events = append(t.events, OverflowEvent{Clk: clk, Kind: OverflowAdd, Row: row})
}

// Pop removes the top row at clock clk and returns it
func (t *OverflowTable) Pop(clk uint32) (OverflowTableRow, error) {
	n := len(t.active)
	if n == 0 {
		return OverflowTableRow{}, fmt.Errorf("overflow table is empty at clock %d", clk)
	}
	row := t.rows[t.active[n-1]]
	t.active = t.active[:n-1]
	t.events = append(t.events, OverflowEvent{Clk: clk, Kind: OverflowRemove, Row: row})
	return row, nil
}

// LastRowAddr returns the address of the top row, or zero when empty
func (t *OverflowTable) LastRowAddr() field.Element {
	n := len(t.active)
	if n == 0 {
		return field.Zero
	}
	return t.rows[t.active[n-1]].Clk
}

// Len returns the number of live rows
func (t *OverflowTable) Len() int {
	return len(t.active)
}

// NumInitRows returns the number of rows present before execution
func (t *OverflowTable) NumInitRows() int {
	return t.numInitRows
}

// ActiveRows returns the live rows from the bottom up
func (t *OverflowTable) ActiveRows() []OverflowTableRow {
	out := make([]OverflowTableRow, len(t.active))
	for i, idx := range t.active {
		out[i] = t.rows[idx]
	}
	return out
}

// AllRows returns every row ever added, initial rows first
func (t *OverflowTable) AllRows() []OverflowTableRow {
	out := make([]OverflowTableRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Events returns the add/remove log in execution order
func (t *OverflowTable) Events() []OverflowEvent {
	out := make([]OverflowEvent, len(t.events))
	copy(out, t.events)
	return out
}
