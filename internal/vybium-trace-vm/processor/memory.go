package processor

import (
	"math"
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// Memory is a word-addressed store. It has no trace of its own; unwritten
// addresses read as the zero word.
type Memory struct {
	words map[uint32]core.Word
}

// NewMemory creates an empty memory
func NewMemory() *Memory {
	return &Memory{words: make(map[uint32]core.Word)}
}

// Read returns the word at addr
func (m *Memory) Read(addr uint32) core.Word {
	if w, ok := m.words[addr]; ok {
		return w
	}
	return core.ZeroWord
}

// Write stores w at addr
func (m *Memory) Write(addr uint32, w core.Word) {
	m.words[addr] = w
}

// Len returns the number of written addresses
func (m *Memory) Len() int {
	return len(m.words)
}

// Addresses returns the written addresses in ascending order
func (m *Memory) Addresses() []uint32 {
	out := make([]uint32, 0, len(m.words))
	for addr := range m.words {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// memAddr converts a stack element to a memory address
func memAddr(e field.Element) (uint32, error) {
	v := e.Value()
	if v > math.MaxUint32 {
		return 0, core.NewMemoryAddressOutOfBounds(v)
	}
	return uint32(v), nil
}
