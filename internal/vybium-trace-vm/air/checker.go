package air

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// ConstraintViolation reports the first row pair on which a constraint did not vanish
type ConstraintViolation struct {
	Row        int
	Constraint int
	Value      field.Element
}

// Error returns the error message
func (v *ConstraintViolation) Error() string {
	return fmt.Sprintf("hasher constraint %d does not vanish at row %d: %d", v.Constraint, v.Row, v.Value.Value())
}

// CheckHasherTransitions evaluates the hasher constraints on every adjacent
// row pair of trace, splitting the rows across workers. Periodic values come
// from the interpolated periodic polynomials, as an outer prover reads them.
// It returns the violation with the lowest row, if any.
func CheckHasherTransitions(trace *MainTrace, workers int) error {
	numPairs := trace.NumRows() - 1
	if numPairs <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (numPairs + workers - 1) / workers
	schedule := periodicSchedule()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first *ConstraintViolation
	)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= numPairs {
			break
		}
		end := min(start+chunkSize, numPairs)

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			frame := NewEvaluationFrame(TraceWidth)
			result := make([]field.Element, NumHasherConstraints)
			for row := start; row < end; row++ {
				frame.ReadFrom(trace, row)
				EnforceHasherConstraints(frame, schedule[row%hasher.CycleLen], result, field.One)

				for i, v := range result {
					if v.IsZero() {
						continue
					}
					mu.Lock()
					if first == nil || row < first.Row {
						first = &ConstraintViolation{Row: row, Constraint: i, Value: v}
					}
					mu.Unlock()
					return
				}
			}
		}(start, end)
	}

	wg.Wait()
	if first != nil {
		return first
	}
	return nil
}
