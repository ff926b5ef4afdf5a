package hasher

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// Selectors is the 3-column selector value of a chiplet row
type Selectors [NumSelectors]field.Element

var (
	// LinearHash starts or continues a linear hash
	LinearHash = Selectors{field.One, field.Zero, field.Zero}
	// MPVerify starts or continues a Merkle path verification
	MPVerify = Selectors{field.One, field.Zero, field.One}
	// MRUpdateOld starts or continues the old-path half of a Merkle root update
	MRUpdateOld = Selectors{field.One, field.One, field.Zero}
	// MRUpdateNew starts or continues the new-path half of a Merkle root update
	MRUpdateNew = Selectors{field.One, field.One, field.One}
	// ReturnHash ends a computation returning the digest
	ReturnHash = Selectors{field.Zero, field.Zero, field.Zero}
	// ReturnState ends a computation returning the whole state
	ReturnState = Selectors{field.Zero, field.Zero, field.One}
)

// NumColumns is the width of the chiplet trace: selectors, state, node index
const NumColumns = NumSelectors + StateWidth + 1

// Chiplet records every permutation executed by the VM, one 8-row cycle per
// permutation. Row 0 of a cycle carries the initial selectors, rows 1..6 the
// selectors with s0 cleared, and row 7 the final selectors.
type Chiplet struct {
	selectors [NumSelectors][]field.Element
	state     [StateWidth][]field.Element
	nodeIndex []field.Element

	height int
}

// NewChiplet creates an empty hasher chiplet
func NewChiplet() *Chiplet {
	c := &Chiplet{}
	for i := range c.selectors {
		c.selectors[i] = make([]field.Element, 0)
	}
	for i := range c.state {
		c.state[i] = make([]field.Element, 0)
	}
	c.nodeIndex = make([]field.Element, 0)
	return c
}

// GetHeight returns the number of rows recorded so far
func (c *Chiplet) GetHeight() int {
	return c.height
}

// NextAddress returns the address the next operation will start at.
// Addresses are one-based row numbers.
func (c *Chiplet) NextAddress() uint32 {
	return uint32(c.height) + 1
}

// GetMainColumns returns the chiplet columns: selectors, state, node index
func (c *Chiplet) GetMainColumns() [][]field.Element {
	cols := make([][]field.Element, 0, NumColumns)
	for i := range c.selectors {
		cols = append(cols, c.selectors[i])
	}
	for i := range c.state {
		cols = append(cols, c.state[i])
	}
	return append(cols, c.nodeIndex)
}

// Permute applies the permutation to state and returns the start address and
// the resulting state
func (c *Chiplet) Permute(state State) (uint32, State) {
	addr := c.NextAddress()
	c.appendPermutation(&state, LinearHash, ReturnState, field.Zero)
	return addr, state
}

// Merge hashes two words and returns the start address and the digest
func (c *Chiplet) Merge(a, b core.Word) (uint32, core.Word) {
	addr := c.NextAddress()
	state := initMergeState(a, b, field.Zero)
	c.appendPermutation(&state, LinearHash, ReturnHash, field.Zero)
	return addr, state.Digest()
}

// HashElements hashes a sequence of elements, one cycle per absorbed block,
// and returns the start address and the digest
func (c *Chiplet) HashElements(elements []field.Element) (uint32, core.Word) {
	addr := c.NextAddress()
	state := initLinearHashState(len(elements))
	blocks := absorbBlocks(elements)
	for i, block := range blocks {
		copy(state[RateStart:], block[:])
		final := LinearHash
		if i == len(blocks)-1 {
			final = ReturnHash
		}
		c.appendPermutation(&state, LinearHash, final, field.Zero)
	}
	return addr, state.Digest()
}

// BuildMerkleRoot computes the root of the path for value at index and
// returns the start address and the root
func (c *Chiplet) BuildMerkleRoot(value core.Word, path []core.Word, index uint64) (uint32, core.Word, error) {
	if err := checkPath(path, index); err != nil {
		return 0, core.ZeroWord, err
	}
	addr := c.NextAddress()
	root := c.verifyPath(MPVerify, value, path, index)
	return addr, root, nil
}

// UpdateMerkleRoot computes the roots of the path for the old and the new
// value at index and returns the start address and both roots
func (c *Chiplet) UpdateMerkleRoot(oldValue, newValue core.Word, path []core.Word, index uint64) (uint32, core.Word, core.Word, error) {
	if err := checkPath(path, index); err != nil {
		return 0, core.ZeroWord, core.ZeroWord, err
	}
	addr := c.NextAddress()
	oldRoot := c.verifyPath(MRUpdateOld, oldValue, path, index)
	newRoot := c.verifyPath(MRUpdateNew, newValue, path, index)
	return addr, oldRoot, newRoot, nil
}

// Pad appends zero-state permutations until the chiplet reaches length.
// length - height must be a multiple of the cycle length.
func (c *Chiplet) Pad(length int) error {
	if length < c.height || (length-c.height)%CycleLen != 0 {
		return fmt.Errorf("cannot pad hasher chiplet of height %d to %d", c.height, length)
	}
	for c.height < length {
		state := NewState()
		c.appendPermutation(&state, LinearHash, ReturnHash, field.Zero)
	}
	return nil
}

func checkPath(path []core.Word, index uint64) error {
	if len(path) == 0 {
		return fmt.Errorf("merkle path cannot be empty")
	}
	if len(path) < 64 && index>>uint(len(path)) != 0 {
		return fmt.Errorf("index %d does not fit a path of length %d", index, len(path))
	}
	return nil
}

// verifyPath records one cycle per path node. The index bit of cycle k
// decides whether the running node is the left or the right input.
func (c *Chiplet) verifyPath(sel Selectors, value core.Word, path []core.Word, index uint64) core.Word {
	node := value
	for k, sibling := range path {
		var state State
		if index&1 == 0 {
			state = initMergeState(node, sibling, field.Zero)
		} else {
			state = initMergeState(sibling, node, field.Zero)
		}

		final := sel
		if k == len(path)-1 {
			final = ReturnHash
		}
		// the column holds the index of the node this cycle outputs; its low
		// bit at the cycle boundary orders the next merge
		index >>= 1
		c.appendPermutation(&state, sel, final, field.New(index))

		node = state.Digest()
	}
	return node
}

// appendPermutation records one cycle and permutes state in place
func (c *Chiplet) appendPermutation(state *State, init, final Selectors, index field.Element) {
	c.appendRow(init, state, index)

	inner := Selectors{field.Zero, init[1], init[2]}
	for r := 0; r < NumRounds; r++ {
		ApplyRound(state, r)
		sel := inner
		if r == NumRounds-1 {
			sel = final
		}
		c.appendRow(sel, state, index)
	}
}

func (c *Chiplet) appendRow(sel Selectors, state *State, index field.Element) {
	for i := range c.selectors {
		c.selectors[i] = append(c.selectors[i], sel[i])
	}
	for i := range c.state {
		c.state[i] = append(c.state[i], state[i])
	}
	c.nodeIndex = append(c.nodeIndex, index)
	c.height++
}
