package advice

import (
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// MerkleTree is a full binary tree over a power-of-two number of leaves.
// Node (depth, index) lives at nodes[2^depth + index]; the root is nodes[1].
type MerkleTree struct {
	nodes []core.Word
	depth uint32
}

// NewMerkleTree builds a tree from at least two leaves
func NewMerkleTree(leaves []core.Word) (*MerkleTree, error) {
	n := len(leaves)
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("number of leaves must be a power of two >= 2, got %d", n)
	}

	nodes := make([]core.Word, 2*n)
	copy(nodes[n:], leaves)
	for i := n - 1; i > 0; i-- {
		nodes[i] = hasher.Merge(nodes[2*i], nodes[2*i+1])
	}

	return &MerkleTree{
		nodes: nodes,
		depth: uint32(bits.TrailingZeros(uint(n))),
	}, nil
}

// Root returns the root of the tree
func (t *MerkleTree) Root() core.Word {
	return t.nodes[1]
}

// Depth returns the depth of the tree
func (t *MerkleTree) Depth() uint32 {
	return t.depth
}

// Leaves returns a copy of the leaves
func (t *MerkleTree) Leaves() []core.Word {
	n := len(t.nodes) / 2
	out := make([]core.Word, n)
	copy(out, t.nodes[n:])
	return out
}

// GetNode returns the node at depth and index
func (t *MerkleTree) GetNode(depth uint32, index uint64) (core.Word, error) {
	if err := checkDepthIndex(t.depth, depth, index); err != nil {
		return core.ZeroWord, err
	}
	return t.nodes[(uint64(1)<<depth)+index], nil
}

// GetPath returns the authentication path of the node at depth and index
func (t *MerkleTree) GetPath(depth uint32, index uint64) ([]core.Word, error) {
	if err := checkDepthIndex(t.depth, depth, index); err != nil {
		return nil, err
	}

	path := make([]core.Word, 0, depth)
	pos := (uint64(1) << depth) + index
	for pos > 1 {
		path = append(path, t.nodes[pos^1])
		pos >>= 1
	}
	return path, nil
}

// UpdateLeaf returns a new tree with the leaf at index replaced
func (t *MerkleTree) UpdateLeaf(index uint64, value core.Word) (AdviceSet, error) {
	if err := checkDepthIndex(t.depth, t.depth, index); err != nil {
		return nil, err
	}

	nodes := make([]core.Word, len(t.nodes))
	copy(nodes, t.nodes)

	pos := (uint64(1) << t.depth) + index
	nodes[pos] = value
	for pos > 1 {
		pos >>= 1
		nodes[pos] = hasher.Merge(nodes[2*pos], nodes[2*pos+1])
	}

	return &MerkleTree{nodes: nodes, depth: t.depth}, nil
}
