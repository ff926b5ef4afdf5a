package advice

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// ProgramInputs holds the initial stack and the advice available to a program
type ProgramInputs struct {
	stackInit  []field.Element
	adviceTape []field.Element
	adviceMap  map[[32]byte][]field.Element
	adviceSets []AdviceSet
}

// NewProgramInputs validates raw inputs. stackInit is listed top first;
// adviceTape is listed in read order.
func NewProgramInputs(stackInit, adviceTape []uint64, adviceSets []AdviceSet) (*ProgramInputs, error) {
	for i, v := range stackInit {
		if v >= field.P {
			return nil, fmt.Errorf("stack input %d is not a valid field element: %d", i, v)
		}
	}
	for i, v := range adviceTape {
		if v >= field.P {
			return nil, fmt.Errorf("advice tape value %d is not a valid field element: %d", i, v)
		}
	}

	seen := make(map[[32]byte]bool, len(adviceSets))
	for _, set := range adviceSets {
		root := set.Root().Bytes()
		if seen[root] {
			return nil, fmt.Errorf("duplicate advice set root %s", set.Root())
		}
		seen[root] = true
	}

	return &ProgramInputs{
		stackInit:  core.FeltsFromUint64(stackInit),
		adviceTape: core.FeltsFromUint64(adviceTape),
		adviceMap:  make(map[[32]byte][]field.Element),
		adviceSets: adviceSets,
	}, nil
}

// NoInputs returns inputs with an empty stack and no advice
func NoInputs() *ProgramInputs {
	return &ProgramInputs{
		stackInit:  []field.Element{},
		adviceTape: []field.Element{},
		adviceMap:  make(map[[32]byte][]field.Element),
		adviceSets: []AdviceSet{},
	}
}

// WithAdviceMap adds an initial advice map entry
func (i *ProgramInputs) WithAdviceMap(key core.Word, values []uint64) (*ProgramInputs, error) {
	k := key.Bytes()
	if _, ok := i.adviceMap[k]; ok {
		return nil, core.NewDuplicateAdviceKey(key)
	}
	i.adviceMap[k] = core.FeltsFromUint64(values)
	return i, nil
}

// StackInit returns the initial stack, top first
func (i *ProgramInputs) StackInit() []field.Element {
	out := make([]field.Element, len(i.stackInit))
	copy(out, i.stackInit)
	return out
}

// AdviceTape returns the advice tape in read order
func (i *ProgramInputs) AdviceTape() []field.Element {
	out := make([]field.Element, len(i.adviceTape))
	copy(out, i.adviceTape)
	return out
}

// AdviceSets returns the initial advice sets
func (i *ProgramInputs) AdviceSets() []AdviceSet {
	return i.adviceSets
}
