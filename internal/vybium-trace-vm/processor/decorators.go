package processor

import (
	"errors"
	"fmt"
	"math"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// Decorator runs between operations without consuming a cycle. The set of
// variants is closed.
type Decorator interface {
	decorator()
}

// MerkleNodeInjector pushes the node at depth s0 and index s1 of the tree
// with root s2..s5 onto the advice tape so that advpopw reads it back.
//
//	stack: [d, i, R, ...]
type MerkleNodeInjector struct{}

// MapValueInjector pushes the advice map values stored under the top word
// onto the advice tape.
//
//	stack: [KEY, ...]
type MapValueInjector struct{}

// MemToMapInjector inserts memory words start..end into the advice map under
// the top word.
//
//	stack: [KEY, start, end, ...]
type MemToMapInjector struct{}

// HdwordToMapInjector inserts A || B into the advice map under
// merge_in_domain(A, B, Domain).
//
//	stack: [B, A, ...]
type HdwordToMapInjector struct {
	Domain field.Element
}

// HpermToMapInjector inserts the rate of the 12-element state on top of the
// stack into the advice map under the digest of its permutation.
//
//	stack: [B, A, C, ...]
type HpermToMapInjector struct{}

func (MerkleNodeInjector) decorator()  {}
func (MapValueInjector) decorator()    {}
func (MemToMapInjector) decorator()    {}
func (HdwordToMapInjector) decorator() {}
func (HpermToMapInjector) decorator()  {}

// executeDecorator runs d against the current row of the stack. Errors from
// the advice provider carry the clock of the row they ran on.
func (p *Process) executeDecorator(d Decorator) error {
	err := p.runDecorator(d)
	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		execErr.Step = p.Clk()
	}
	return err
}

func (p *Process) runDecorator(d Decorator) error {
	switch dec := d.(type) {
	case MerkleNodeInjector, *MerkleNodeInjector:
		return p.injectMerkleNode()
	case MapValueInjector, *MapValueInjector:
		return p.advice.WriteTapeFromMap(p.stack.GetWord(0))
	case MemToMapInjector, *MemToMapInjector:
		return p.insertMemValuesIntoMap()
	case HdwordToMapInjector:
		return p.insertHdwordIntoMap(dec.Domain)
	case *HdwordToMapInjector:
		if dec == nil {
			return fmt.Errorf("unsupported decorator %T", d)
		}
		return p.insertHdwordIntoMap(dec.Domain)
	case HpermToMapInjector, *HpermToMapInjector:
		return p.insertHpermIntoMap()
	default:
		return fmt.Errorf("unsupported decorator %T", d)
	}
}

func (p *Process) injectMerkleNode() error {
	depth, err := treeDepth(p.stack.Get(0))
	if err != nil {
		return err
	}
	index := p.stack.Get(1).Value()
	root := p.stack.GetWordAt(2)

	node, err := p.advice.GetTreeNode(root, depth, index)
	if err != nil {
		return err
	}
	for i := core.WordSize - 1; i >= 0; i-- {
		p.advice.WriteTape(node[i])
	}
	return nil
}

func (p *Process) insertMemValuesIntoMap() error {
	start, end, err := p.getMemAddrRange(4, 5)
	if err != nil {
		return err
	}

	values := make([]field.Element, 0, int(end-start)*core.WordSize)
	for addr := start; addr < end; addr++ {
		w := p.memory.Read(addr)
		values = append(values, w[:]...)
	}
	return p.advice.InsertIntoMap(p.stack.GetWord(0), values)
}

func (p *Process) insertHdwordIntoMap(domain field.Element) error {
	word0 := p.stack.GetWord(0)
	word1 := p.stack.GetWord(1)
	key := hasher.MergeInDomain(word1, word0, domain)

	values := make([]field.Element, 0, 2*core.WordSize)
	values = append(values, word1[:]...)
	values = append(values, word0[:]...)
	return p.advice.InsertIntoMap(key, values)
}

func (p *Process) insertHpermIntoMap() error {
	state := p.readHasherState()
	values := make([]field.Element, hasher.RateLen)
	copy(values, state[hasher.RateStart:])

	hasher.ApplyPermutation(&state)
	return p.advice.InsertIntoMap(state.Digest(), values)
}

// getMemAddrRange reads a [start, end) memory range from two stack positions
// without changing the stack
func (p *Process) getMemAddrRange(startIdx, endIdx int) (uint32, uint32, error) {
	return GetMemAddrRange(p.stack.Get(startIdx), p.stack.Get(endIdx))
}

// GetMemAddrRange validates a [start, end) memory range. Both addresses must
// fit in 32 bits and start must not exceed end; equal addresses give an empty
// range.
func GetMemAddrRange(startAddr, endAddr field.Element) (uint32, uint32, error) {
	start := startAddr.Value()
	end := endAddr.Value()

	if start > math.MaxUint32 {
		return 0, 0, core.NewMemoryAddressOutOfBounds(start)
	}
	if end > math.MaxUint32 {
		return 0, 0, core.NewMemoryAddressOutOfBounds(end)
	}
	if start > end {
		return 0, 0, core.NewInvalidMemoryRange(start, end)
	}
	return uint32(start), uint32(end), nil
}
