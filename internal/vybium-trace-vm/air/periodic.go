package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/hasher"
)

// Periodic value layout: k0, k1, k2, ARK1[0..12], ARK2[0..12]
const (
	// K0Idx is 1 on the last row of a cycle
	K0Idx = 0
	// K1Idx is 1 on the second-to-last row of a cycle
	K1Idx = 1
	// K2Idx is 1 on the first row of a cycle
	K2Idx = 2
	// Ark1Offset is the first ARK1 value
	Ark1Offset = 3
	// Ark2Offset is the first ARK2 value
	Ark2Offset = Ark1Offset + hasher.StateWidth
	// NumPeriodicValues is the number of periodic columns
	NumPeriodicValues = Ark2Offset + hasher.StateWidth
)

// HasherPeriodicValues returns the periodic values for row. Rows 0..6 carry
// the round constants of the round that maps them to the next row; row 7
// carries zero constants.
func HasherPeriodicValues(row int) []field.Element {
	r := row % hasher.CycleLen
	values := make([]field.Element, NumPeriodicValues)
	for i := range values {
		values[i] = field.Zero
	}

	if r == hasher.CycleLen-1 {
		values[K0Idx] = field.One
	}
	if r == hasher.CycleLen-2 {
		values[K1Idx] = field.One
	}
	if r == 0 {
		values[K2Idx] = field.One
	}
	if r < hasher.NumRounds {
		copy(values[Ark1Offset:Ark2Offset], hasher.ARK1[r][:])
		copy(values[Ark2Offset:], hasher.ARK2[r][:])
	}
	return values
}

// PeriodicColumns returns every periodic column over one cycle
func PeriodicColumns() [][]field.Element {
	cols := make([][]field.Element, NumPeriodicValues)
	for i := range cols {
		cols[i] = make([]field.Element, hasher.CycleLen)
	}
	for r := 0; r < hasher.CycleLen; r++ {
		values := HasherPeriodicValues(r)
		for i, v := range values {
			cols[i][r] = v
		}
	}
	return cols
}

// PeriodicColumnPolys interpolates each periodic column over the subgroup of
// order 8, so column i at trace row r equals poly_i(omega^(r mod 8)) where
// omega generates the trace domain raised to n/8
func PeriodicColumnPolys() []*polynomial.Polynomial {
	omega := field.PrimitiveRootOfUnity(uint64(hasher.CycleLen))

	domain := make([]field.Element, hasher.CycleLen)
	x := field.One
	for r := range domain {
		domain[r] = x
		x = x.Mul(omega)
	}

	cols := PeriodicColumns()
	polys := make([]*polynomial.Polynomial, len(cols))
	for i, col := range cols {
		points := make([][2]field.Element, hasher.CycleLen)
		for r := range col {
			points[r] = [2]field.Element{domain[r], col[r]}
		}
		polys[i] = polynomial.Interpolate(points)
	}
	return polys
}

// PeriodicValuesAt evaluates every periodic column polynomial at x. At
// x = omega^r it returns the values of cycle row r.
func PeriodicValuesAt(polys []*polynomial.Polynomial, x field.Element) []field.Element {
	values := make([]field.Element, len(polys))
	for i, p := range polys {
		values[i] = p.Evaluate(x)
	}
	return values
}

// periodicSchedule evaluates the periodic polynomials over one cycle of the
// trace domain
func periodicSchedule() [hasher.CycleLen][]field.Element {
	polys := PeriodicColumnPolys()
	omega := field.PrimitiveRootOfUnity(uint64(hasher.CycleLen))

	var schedule [hasher.CycleLen][]field.Element
	x := field.One
	for r := range schedule {
		schedule[r] = PeriodicValuesAt(polys, x)
		x = x.Mul(omega)
	}
	return schedule
}
