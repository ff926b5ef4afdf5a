// Package air describes the main trace layout and evaluates the transition
// constraints of the hasher chiplet
package air

import (
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// Main trace column layout:
//
//	clk | op | s0..s15 | b0 | b1 | h0 | hs0 hs1 hs2 | h0..h11 | idx
//	 0    1    2..17    18   19   20    21..23        24..35     36
const (
	// ClkColIdx is the clock column
	ClkColIdx = 0

	// OpColIdx holds the opcode executed at the row
	OpColIdx = 1

	// StackTraceOffset is the first stack column
	StackTraceOffset = 2

	// StackTopSize is the number of visible stack slots
	StackTopSize = 16

	// B0ColIdx holds the stack depth
	B0ColIdx = StackTraceOffset + StackTopSize

	// B1ColIdx holds the address of the top overflow row
	B1ColIdx = B0ColIdx + 1

	// H0ColIdx holds 1/(b0 - 16), or zero when the overflow table is empty
	H0ColIdx = B1ColIdx + 1

	// StackTraceWidth is the number of stack columns
	StackTraceWidth = StackTopSize + 3

	// HasherTraceOffset is the first hasher chiplet column
	HasherTraceOffset = StackTraceOffset + StackTraceWidth

	// HasherSelectorColStart is the first hasher selector column
	HasherSelectorColStart = HasherTraceOffset

	// HasherSelectorColEnd is one past the last hasher selector column
	HasherSelectorColEnd = HasherSelectorColStart + hasher.NumSelectors

	// HasherStateColStart is the first hasher state column
	HasherStateColStart = HasherSelectorColEnd

	// HasherStateColEnd is one past the last hasher state column
	HasherStateColEnd = HasherStateColStart + hasher.StateWidth

	// HasherNodeIndexColIdx is the hasher node index column
	HasherNodeIndexColIdx = HasherStateColEnd

	// TraceWidth is the number of main trace columns
	TraceWidth = HasherNodeIndexColIdx + 1

	// MinTraceLength is the shortest trace the builder emits
	MinTraceLength = 16
)
