package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// AuxColumnBuilder supplies the factors of a running-product column
type AuxColumnBuilder interface {
	// InitResponses returns the column value at row 0
	InitResponses(main *MainTrace, alphas []field.Element) field.Element

	// GetRequestsAt returns the divisor applied between row i and row i+1
	GetRequestsAt(main *MainTrace, alphas []field.Element, i int) field.Element

	// GetResponsesAt returns the multiplier applied between row i and row i+1
	GetResponsesAt(main *MainTrace, alphas []field.Element, i int) field.Element
}

// BuildAuxColumn computes p[0] = init and p[i+1] = p[i] * response(i) / request(i)
// with the divisions done through batch inversion split across workers
func BuildAuxColumn(builder AuxColumnBuilder, main *MainTrace, alphas []field.Element, workers int) ([]field.Element, error) {
	n := main.NumRows()
	if n == 0 {
		return []field.Element{}, nil
	}

	requests := make([]field.Element, n-1)
	responses := make([]field.Element, n-1)
	for i := 0; i < n-1; i++ {
		requests[i] = builder.GetRequestsAt(main, alphas, i)
		responses[i] = builder.GetResponsesAt(main, alphas, i)
	}

	invRequests, err := core.ParallelBatchInversion(requests, workers)
	if err != nil {
		return nil, fmt.Errorf("failed to invert aux column requests: %w", err)
	}

	column := make([]field.Element, n)
	column[0] = builder.InitResponses(main, alphas)
	for i := 0; i < n-1; i++ {
		column[i+1] = column[i].Mul(responses[i]).Mul(invRequests[i])
	}
	return column, nil
}
