package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// Constraint group offsets within the result buffer
const (
	selectorBinaryOffset  = 0
	selectorPhaseOffset   = selectorBinaryOffset + hasher.NumSelectors
	nodeIndexOffset       = selectorPhaseOffset + 7
	roundOffset           = nodeIndexOffset + 4
	absorbOffset          = roundOffset + hasher.StateWidth
	capacityResetOffset   = absorbOffset + hasher.CapacityLen
	digestPlacementOffset = capacityResetOffset + hasher.CapacityLen
)

// NumHasherConstraints is the number of values written by EnforceHasherConstraints
const NumHasherConstraints = digestPlacementOffset + hasher.DigestLen

// hasherRow is a view of the hasher chiplet columns of one trace row
type hasherRow struct {
	s     [hasher.NumSelectors]field.Element
	h     hasher.State
	index field.Element
}

func readHasherRow(row []field.Element) hasherRow {
	var r hasherRow
	copy(r.s[:], row[HasherSelectorColStart:HasherSelectorColEnd])
	copy(r.h[:], row[HasherStateColStart:HasherStateColEnd])
	r.index = row[HasherNodeIndexColIdx]
	return r
}

// EnforceHasherConstraints evaluates every hasher transition constraint on
// frame and writes each value times coefficient into result, which must hold
// NumHasherConstraints elements. All values are zero for a valid transition.
func EnforceHasherConstraints(frame *EvaluationFrame, periodic []field.Element, result []field.Element, coefficient field.Element) {
	cur := readHasherRow(frame.Current())
	next := readHasherRow(frame.Next())

	k0 := periodic[K0Idx]
	k1 := periodic[K1Idx]

	enforceSelectors(cur, next, k0, k1, result[selectorBinaryOffset:nodeIndexOffset])
	enforceNodeIndex(cur, next, k0, result[nodeIndexOffset:roundOffset])
	enforceRound(cur, next, k0, periodic, result[roundOffset:absorbOffset])
	enforceContinuation(cur, next, k0, result[absorbOffset:NumHasherConstraints])

	for i := 0; i < NumHasherConstraints; i++ {
		result[i] = result[i].Mul(coefficient)
	}
}

// enforceSelectors writes the binary checks and the phase rules:
// selectors only change on the last two rows of a cycle, s0 is set exactly on
// the first row of a cycle, and a continuing computation keeps its mode
func enforceSelectors(cur, next hasherRow, k0, k1 field.Element, result []field.Element) {
	for i, s := range cur.s {
		result[i] = s.Mul(s).Sub(s)
	}
	out := result[hasher.NumSelectors:]

	s0 := cur.s[0]
	notK0K1 := field.One.Sub(k0).Sub(k1)

	// no row 7 may carry s0 = 0 with s1 = 1
	out[0] = k0.Mul(field.One.Sub(s0)).Mul(cur.s[1])
	out[1] = notK0K1.Mul(next.s[1].Sub(cur.s[1]))
	out[2] = notK0K1.Mul(next.s[2].Sub(cur.s[2]))
	out[3] = notK0K1.Mul(next.s[0])
	out[4] = k0.Mul(field.One.Sub(next.s[0]))
	out[5] = k0.Mul(s0).Mul(next.s[1].Sub(cur.s[1]))
	out[6] = k0.Mul(s0).Mul(next.s[2].Sub(cur.s[2]))
}

// enforceNodeIndex writes the node index rules: inner rows copy, a
// continuing path shifts exactly one bit out at the cycle boundary, and
// returns and linear hashes keep the index at zero
func enforceNodeIndex(cur, next hasherRow, k0 field.Element, result []field.Element) {
	_, fMpx := continuationFlags(cur, k0)

	bit := boundaryBit(cur, next)
	result[0] = fMpx.Mul(bit.Mul(bit).Sub(bit))
	result[1] = field.One.Sub(k0).Mul(next.index.Sub(cur.index))
	result[2] = k0.Mul(field.One.Sub(cur.s[0])).Mul(cur.index)
	result[3] = field.One.Sub(cur.s[1]).Mul(field.One.Sub(cur.s[2])).Mul(cur.index)
}

// boundaryBit is the bit shifted out between cur and next; on a Merkle path
// boundary it orders the merge of the next cycle
func boundaryBit(cur, next hasherRow) field.Element {
	return cur.index.Sub(field.New(2).Mul(next.index))
}

// continuationFlags returns the row 7 flags of an absorbing linear hash and
// of a continuing Merkle path
func continuationFlags(cur hasherRow, k0 field.Element) (fAbp, fMpx field.Element) {
	isLinear := field.One.Sub(cur.s[1]).Mul(field.One.Sub(cur.s[2]))
	active := k0.Mul(cur.s[0])
	return active.Mul(isLinear), active.Mul(field.One.Sub(isLinear))
}

// enforceRound compares both halves of the round function: the forward half
// applied to the current state must equal the backward half applied to the
// next state
func enforceRound(cur, next hasherRow, k0 field.Element, periodic []field.Element, result []field.Element) {
	notK0 := field.One.Sub(k0)

	forward := cur.h
	hasher.ApplySbox(&forward)
	hasher.ApplyMDS(&forward)

	backward := next.h
	for i := range backward {
		backward[i] = backward[i].Sub(periodic[Ark2Offset+i])
	}
	hasher.ApplyInvMDS(&backward)
	hasher.ApplySbox(&backward)

	for i := 0; i < hasher.StateWidth; i++ {
		expected := forward[i].Add(periodic[Ark1Offset+i])
		result[i] = notK0.Mul(backward[i].Sub(expected))
	}
}

// enforceContinuation writes the row 7 to row 0 rules: an absorbing linear
// hash keeps its capacity; a continuing Merkle path resets the capacity and
// places the current digest in the rate half selected by the boundary bit
func enforceContinuation(cur, next hasherRow, k0 field.Element, result []field.Element) {
	fAbp, fMpx := continuationFlags(cur, k0)

	for j := 0; j < hasher.CapacityLen; j++ {
		result[j] = fAbp.Mul(next.h[j].Sub(cur.h[j]))
	}
	reset := result[hasher.CapacityLen:]
	for j := 0; j < hasher.CapacityLen; j++ {
		reset[j] = fMpx.Mul(next.h[j])
	}

	bit := boundaryBit(cur, next)
	notBit := field.One.Sub(bit)
	place := reset[hasher.CapacityLen:]
	for j := 0; j < hasher.DigestLen; j++ {
		digest := cur.h[hasher.DigestStart+j]
		left := next.h[hasher.RateStart+j].Sub(digest)
		right := next.h[hasher.RateStart+hasher.DigestLen+j].Sub(digest)
		place[j] = fMpx.Mul(notBit.Mul(left).Add(bit.Mul(right)))
	}
}
