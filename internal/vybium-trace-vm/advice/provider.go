package advice

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// Provider supplies non-deterministic inputs to the VM. The tape is stored
// reversed so the first declared element is popped first. Methods that can
// fail with a step-tagged error take the current clock explicitly.
type Provider struct {
	tape []field.Element
	kv   map[[32]byte][]field.Element
	sets map[[32]byte]AdviceSet
}

// NewProvider creates a provider from program inputs
func NewProvider(inputs *ProgramInputs) *Provider {
	tape := make([]field.Element, len(inputs.adviceTape))
	for i, v := range inputs.adviceTape {
		tape[len(tape)-1-i] = v
	}

	kv := make(map[[32]byte][]field.Element, len(inputs.adviceMap))
	for k, v := range inputs.adviceMap {
		values := make([]field.Element, len(v))
		copy(values, v)
		kv[k] = values
	}

	sets := make(map[[32]byte]AdviceSet, len(inputs.adviceSets))
	for _, set := range inputs.adviceSets {
		sets[set.Root().Bytes()] = set
	}

	return &Provider{tape: tape, kv: kv, sets: sets}
}

// TapeLen returns the number of elements left on the tape
func (p *Provider) TapeLen() int {
	return len(p.tape)
}

// ReadTape pops the element at the head of the tape
func (p *Provider) ReadTape(step uint32) (field.Element, error) {
	n := len(p.tape)
	if n == 0 {
		return field.Zero, core.NewAdviceTapeReadFailed(step)
	}
	v := p.tape[n-1]
	p.tape = p.tape[:n-1]
	return v, nil
}

// ReadWord pops four elements; the element at the head of the tape becomes
// element 0 of the word
func (p *Provider) ReadWord(step uint32) (core.Word, error) {
	n := len(p.tape)
	if n < core.WordSize {
		return core.ZeroWord, core.NewAdviceTapeReadFailed(step)
	}
	w := core.Word{p.tape[n-1], p.tape[n-2], p.tape[n-3], p.tape[n-4]}
	p.tape = p.tape[:n-core.WordSize]
	return w, nil
}

// ReadDoubleWord pops two words; the tape is left untouched if fewer than
// eight elements remain
func (p *Provider) ReadDoubleWord(step uint32) ([2]core.Word, error) {
	if len(p.tape) < 2*core.WordSize {
		return [2]core.Word{core.ZeroWord, core.ZeroWord}, core.NewAdviceTapeReadFailed(step)
	}
	w0, _ := p.ReadWord(step)
	w1, _ := p.ReadWord(step)
	return [2]core.Word{w0, w1}, nil
}

// WriteTape pushes value to the head of the tape
func (p *Provider) WriteTape(value field.Element) {
	p.tape = append(p.tape, value)
}

// WriteTapeFromMap pushes the values stored under key so that the first
// value ends up at the head of the tape
func (p *Provider) WriteTapeFromMap(key core.Word) error {
	values, ok := p.kv[key.Bytes()]
	if !ok {
		return core.NewAdviceKeyNotFound(key)
	}
	for i := len(values) - 1; i >= 0; i-- {
		p.tape = append(p.tape, values[i])
	}
	return nil
}

// InsertIntoMap stores values under key; keys can be inserted only once
func (p *Provider) InsertIntoMap(key core.Word, values []field.Element) error {
	k := key.Bytes()
	if _, ok := p.kv[k]; ok {
		return core.NewDuplicateAdviceKey(key)
	}
	stored := make([]field.Element, len(values))
	copy(stored, values)
	p.kv[k] = stored
	return nil
}

// HasAdviceSet reports whether a set is registered under root
func (p *Provider) HasAdviceSet(root core.Word) bool {
	_, ok := p.sets[root.Bytes()]
	return ok
}

// CheckTreeDepth validates a caller-supplied depth against the depth of the
// set registered under root
func (p *Provider) CheckTreeDepth(root core.Word, depth uint64) error {
	set, err := p.getSet(root)
	if err != nil {
		return err
	}
	if depth != uint64(set.Depth()) {
		return core.NewAdviceSetLookupFailed(fmt.Errorf("%w: %d (tree depth %d)", ErrInvalidDepth, depth, set.Depth()))
	}
	return nil
}

// GetTreeNode returns the node at depth and index of the set under root
func (p *Provider) GetTreeNode(root core.Word, depth uint32, index uint64) (core.Word, error) {
	set, err := p.getSet(root)
	if err != nil {
		return core.ZeroWord, err
	}
	node, err := set.GetNode(depth, index)
	if err != nil {
		return core.ZeroWord, core.NewAdviceSetLookupFailed(err)
	}
	return node, nil
}

// GetMerklePath returns the authentication path of the node at depth and
// index of the set under root, ordered from the node upwards
func (p *Provider) GetMerklePath(root core.Word, depth uint32, index uint64) ([]core.Word, error) {
	set, err := p.getSet(root)
	if err != nil {
		return nil, err
	}
	path, err := set.GetPath(depth, index)
	if err != nil {
		return nil, core.NewAdviceSetLookupFailed(err)
	}
	return path, nil
}

// UpdateMerkleLeaf replaces the leaf at index of the set under root and
// returns the leaf's path before the update. The updated set is stored under
// its new root; with copyTree set the old set stays registered, otherwise it is
// removed once the update has succeeded.
func (p *Provider) UpdateMerkleLeaf(root core.Word, index uint64, leaf core.Word, copyTree bool) ([]core.Word, error) {
	set, err := p.getSet(root)
	if err != nil {
		return nil, err
	}

	path, err := set.GetPath(set.Depth(), index)
	if err != nil {
		return nil, core.NewAdviceSetLookupFailed(err)
	}
	updated, err := set.UpdateLeaf(index, leaf)
	if err != nil {
		return nil, core.NewAdviceSetLookupFailed(err)
	}

	if !copyTree {
		delete(p.sets, root.Bytes())
	}
	p.sets[updated.Root().Bytes()] = updated
	return path, nil
}

func (p *Provider) getSet(root core.Word) (AdviceSet, error) {
	set, ok := p.sets[root.Bytes()]
	if !ok {
		return nil, core.NewAdviceSetNotFound(root)
	}
	return set, nil
}
