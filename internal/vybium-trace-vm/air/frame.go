package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// EvaluationFrame holds two adjacent trace rows
type EvaluationFrame struct {
	current []field.Element
	next    []field.Element
}

// NewEvaluationFrame creates a zeroed frame of the given width
func NewEvaluationFrame(width int) *EvaluationFrame {
	f := &EvaluationFrame{
		current: make([]field.Element, width),
		next:    make([]field.Element, width),
	}
	for i := 0; i < width; i++ {
		f.current[i] = field.Zero
		f.next[i] = field.Zero
	}
	return f
}

// FrameFromRows wraps two rows without copying them
func FrameFromRows(current, next []field.Element) *EvaluationFrame {
	return &EvaluationFrame{current: current, next: next}
}

// Current returns the current row
func (f *EvaluationFrame) Current() []field.Element {
	return f.current
}

// Next returns the next row
func (f *EvaluationFrame) Next() []field.Element {
	return f.next
}

// ReadFrom loads rows row and row+1 of trace into the frame
func (f *EvaluationFrame) ReadFrom(trace *MainTrace, row int) {
	trace.ReadRow(row, f.current)
	trace.ReadRow(row+1, f.next)
}
