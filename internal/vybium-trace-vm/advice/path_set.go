package advice

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// MerklePathSet is a sparse advice set: a collection of leaves and their
// authentication paths that all resolve to the same root
type MerklePathSet struct {
	root   core.Word
	depth  uint32
	leaves map[uint64]core.Word
	paths  map[uint64][]core.Word
}

// NewMerklePathSet creates an empty path set of the given depth
func NewMerklePathSet(depth uint32) (*MerklePathSet, error) {
	if depth == 0 || depth > 63 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	return &MerklePathSet{
		root:   core.ZeroWord,
		depth:  depth,
		leaves: make(map[uint64]core.Word),
		paths:  make(map[uint64][]core.Word),
	}, nil
}

// AddPath registers the leaf at index with its path. Every path after the
// first must resolve to the root of the first.
func (s *MerklePathSet) AddPath(index uint64, value core.Word, path []core.Word) error {
	if uint32(len(path)) != s.depth {
		return fmt.Errorf("%w: path length %d, set depth %d", ErrInvalidDepth, len(path), s.depth)
	}
	if err := checkDepthIndex(s.depth, s.depth, index); err != nil {
		return err
	}

	root := computeRoot(value, path, index)
	if len(s.leaves) == 0 {
		s.root = root
	} else if !root.Equal(s.root) {
		return fmt.Errorf("%w: leaf %d resolves to %s, set root is %s", ErrInvalidPath, index, root, s.root)
	}

	stored := make([]core.Word, len(path))
	copy(stored, path)
	s.leaves[index] = value
	s.paths[index] = stored
	return nil
}

// Root returns the root shared by every path in the set
func (s *MerklePathSet) Root() core.Word {
	return s.root
}

// Depth returns the depth of the set
func (s *MerklePathSet) Depth() uint32 {
	return s.depth
}

// Indexes returns the leaf indexes held by the set in ascending order
func (s *MerklePathSet) Indexes() []uint64 {
	out := make([]uint64, 0, len(s.leaves))
	for idx := range s.leaves {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetNode returns the node at depth and index if any stored path covers it
func (s *MerklePathSet) GetNode(depth uint32, index uint64) (core.Word, error) {
	if err := checkDepthIndex(s.depth, depth, index); err != nil {
		return core.ZeroWord, err
	}
	level := s.depth - depth

	for _, leaf := range s.Indexes() {
		pos := leaf >> level
		if pos == index {
			return s.ancestor(leaf, level), nil
		}
		if pos^1 == index {
			return s.paths[leaf][level], nil
		}
	}
	return core.ZeroWord, fmt.Errorf("%w: depth %d, index %d", ErrNodeNotInSet, depth, index)
}

// GetPath returns the authentication path of the node at depth and index
func (s *MerklePathSet) GetPath(depth uint32, index uint64) ([]core.Word, error) {
	if err := checkDepthIndex(s.depth, depth, index); err != nil {
		return nil, err
	}
	level := s.depth - depth

	for _, leaf := range s.Indexes() {
		if leaf>>level == index {
			path := make([]core.Word, depth)
			copy(path, s.paths[leaf][level:])
			return path, nil
		}
	}
	return nil, fmt.Errorf("%w: depth %d, index %d", ErrNodeNotInSet, depth, index)
}

// UpdateLeaf returns a new set with the leaf at index replaced. Paths of other
// leaves are rewritten at the level where they branch off from index.
func (s *MerklePathSet) UpdateLeaf(index uint64, value core.Word) (AdviceSet, error) {
	path, ok := s.paths[index]
	if !ok {
		return nil, fmt.Errorf("%w: leaf %d", ErrNodeNotInSet, index)
	}

	// ancestors[l] is the node of index at height l after the update
	ancestors := make([]core.Word, s.depth+1)
	ancestors[0] = value
	pos := index
	for l := uint32(0); l < s.depth; l++ {
		if pos&1 == 0 {
			ancestors[l+1] = hasher.Merge(ancestors[l], path[l])
		} else {
			ancestors[l+1] = hasher.Merge(path[l], ancestors[l])
		}
		pos >>= 1
	}

	next := &MerklePathSet{
		root:   ancestors[s.depth],
		depth:  s.depth,
		leaves: make(map[uint64]core.Word, len(s.leaves)),
		paths:  make(map[uint64][]core.Word, len(s.paths)),
	}
	for leaf, v := range s.leaves {
		p := make([]core.Word, len(s.paths[leaf]))
		copy(p, s.paths[leaf])
		if leaf == index {
			v = value
		} else {
			level := bits.Len64(leaf^index) - 1
			p[level] = ancestors[level]
		}
		next.leaves[leaf] = v
		next.paths[leaf] = p
	}
	return next, nil
}

// ancestor hashes the stored leaf up by level steps
func (s *MerklePathSet) ancestor(leaf uint64, level uint32) core.Word {
	node := s.leaves[leaf]
	pos := leaf
	for l := uint32(0); l < level; l++ {
		if pos&1 == 0 {
			node = hasher.Merge(node, s.paths[leaf][l])
		} else {
			node = hasher.Merge(s.paths[leaf][l], node)
		}
		pos >>= 1
	}
	return node
}

// computeRoot hashes value up its path using the bits of index
func computeRoot(value core.Word, path []core.Word, index uint64) core.Word {
	node := value
	for _, sibling := range path {
		if index&1 == 0 {
			node = hasher.Merge(node, sibling)
		} else {
			node = hasher.Merge(sibling, node)
		}
		index >>= 1
	}
	return node
}
