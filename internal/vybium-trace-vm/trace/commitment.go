package trace

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/air"
)

// rowBatchSize is the number of rows each commitment worker hashes at a time
const rowBatchSize = 256

// Commit hashes every row of the main trace and builds a Merkle tree over
// the row digests
func Commit(main *air.MainTrace, workers int) (*merkle.MerkleTree, error) {
	numRows := main.NumRows()
	if numRows == 0 {
		return nil, fmt.Errorf("cannot commit to an empty trace")
	}
	if workers <= 0 {
		workers = 1
	}

	leaves := make([]hash.Digest, numRows)

	var wg sync.WaitGroup
	batches := make(chan int, (numRows+rowBatchSize-1)/rowBatchSize)
	for start := 0; start < numRows; start += rowBatchSize {
		batches <- start
	}
	close(batches)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			row := make([]field.Element, air.TraceWidth)
			for start := range batches {
				end := start + rowBatchSize
				if end > numRows {
					end = numRows
				}
				for r := start; r < end; r++ {
					main.ReadRow(r, row)
					leaves[r] = hash.HashVarlen(row)
				}
			}
		}()
	}
	wg.Wait()

	tree, err := merkle.New(leaves)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace commitment: %w", err)
	}
	return tree, nil
}

// DigestElements flattens a digest for the Fiat-Shamir channel
func DigestElements(d hash.Digest) []field.Element {
	out := make([]field.Element, len(d))
	copy(out, d[:])
	return out
}
