// Package advice implements the advice provider: the non-deterministic tape,
// the key/value advice map and the Merkle advice sets queried by the VM
package advice

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

var (
	// ErrInvalidDepth is returned when a depth is zero or exceeds the set depth
	ErrInvalidDepth = errors.New("invalid depth")

	// ErrInvalidIndex is returned when an index does not fit the requested depth
	ErrInvalidIndex = errors.New("invalid index")

	// ErrNodeNotInSet is returned when a sparse set cannot resolve a node
	ErrNodeNotInSet = errors.New("node not in set")

	// ErrInvalidPath is returned when a path does not authenticate to the set root
	ErrInvalidPath = errors.New("invalid path")
)

// AdviceSet is an authenticated collection of Merkle nodes under one root.
// Sets are immutable snapshots: UpdateLeaf returns a new set.
type AdviceSet interface {
	// Root returns the root of the set
	Root() core.Word

	// Depth returns the number of levels below the root
	Depth() uint32

	// GetNode returns the node at depth and index; depth 1 is just below the root
	GetNode(depth uint32, index uint64) (core.Word, error)

	// GetPath returns the siblings of the node at depth and index, ordered
	// from the node's level up to the level just below the root
	GetPath(depth uint32, index uint64) ([]core.Word, error)

	// UpdateLeaf returns a new set with the leaf at index replaced
	UpdateLeaf(index uint64, value core.Word) (AdviceSet, error)
}

// checkDepthIndex validates 0 < depth <= treeDepth and index < 2^depth
func checkDepthIndex(treeDepth, depth uint32, index uint64) error {
	if depth == 0 || depth > treeDepth {
		return fmt.Errorf("%w: %d (tree depth %d)", ErrInvalidDepth, depth, treeDepth)
	}
	if depth < 64 && index>>depth != 0 {
		return fmt.Errorf("%w: %d at depth %d", ErrInvalidIndex, index, depth)
	}
	return nil
}
