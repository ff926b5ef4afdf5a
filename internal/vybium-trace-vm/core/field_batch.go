package core

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// BatchInversion inverts every element with a single field inversion using
// Montgomery's trick: acc[i] = e[0]*...*e[i], then e[i]^-1 = acc[i-1] * acc[i]^-1
func BatchInversion(elements []field.Element) ([]field.Element, error) {
	n := len(elements)
	if n == 0 {
		return []field.Element{}, nil
	}

	for i, elem := range elements {
		if elem.IsZero() {
			return nil, fmt.Errorf("cannot invert zero element at index %d", i)
		}
	}

	acc := make([]field.Element, n)
	acc[0] = elements[0]
	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Mul(elements[i])
	}

	accInv := acc[n-1].Inverse()

	results := make([]field.Element, n)
	for i := n - 1; i > 0; i-- {
		results[i] = accInv.Mul(acc[i-1])
		accInv = accInv.Mul(elements[i])
	}
	results[0] = accInv

	return results, nil
}

// ParallelBatchInversion splits large batches into chunks inverted on separate workers
func ParallelBatchInversion(elements []field.Element, numWorkers int) ([]field.Element, error) {
	n := len(elements)
	if n < 1024 || numWorkers <= 1 {
		return BatchInversion(elements)
	}

	chunkSize := (n + numWorkers - 1) / numWorkers
	results := make([]field.Element, n)

	var wg sync.WaitGroup
	errChan := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			start := workerID * chunkSize
			if start >= n {
				return
			}
			end := min(start+chunkSize, n)

			inverted, err := BatchInversion(elements[start:end])
			if err != nil {
				errChan <- fmt.Errorf("worker %d failed: %w", workerID, err)
				return
			}
			copy(results[start:end], inverted)
		}(w)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}

	return results, nil
}
