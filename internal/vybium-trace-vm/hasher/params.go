// Package hasher implements the 12-element algebraic permutation used by the VM
// and the hasher chiplet that records it in the execution trace
package hasher

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

const (
	// StateWidth is the number of elements in the permutation state
	StateWidth = 12

	// CapacityLen is the number of capacity elements at the start of the state
	CapacityLen = 4

	// RateStart is the index of the first rate element
	RateStart = 4

	// RateLen is the number of rate elements
	RateLen = 8

	// DigestStart is the index of the first digest element
	DigestStart = 4

	// DigestLen is the number of digest elements
	DigestLen = 4

	// NumRounds is the number of rounds in one permutation
	NumRounds = 7

	// CycleLen is the number of chiplet rows used by one permutation
	CycleLen = NumRounds + 1

	// NumSelectors is the number of selector columns in the chiplet
	NumSelectors = 3

	// invAlpha satisfies 7 * invAlpha = 1 mod (p - 1)
	invAlpha uint64 = 10540996611094048183

	roundConstantDomain = "vybium-trace-vm/hasher/round-constants/v1"
)

// State is the permutation state
type State [StateWidth]field.Element

var mdsFirstRow = [StateWidth]uint64{7, 23, 8, 26, 13, 10, 9, 7, 6, 22, 21, 8}

var (
	// MDS is the circulant diffusion matrix
	MDS [StateWidth][StateWidth]field.Element

	// InvMDS is the inverse of MDS
	InvMDS [StateWidth][StateWidth]field.Element

	// ARK1 holds the constants added after the first half of each round
	ARK1 [NumRounds][StateWidth]field.Element

	// ARK2 holds the constants added after the second half of each round
	ARK2 [NumRounds][StateWidth]field.Element
)

func init() {
	for i := 0; i < StateWidth; i++ {
		for j := 0; j < StateWidth; j++ {
			MDS[i][j] = field.New(mdsFirstRow[(j-i+StateWidth)%StateWidth])
		}
	}

	inv, err := invertMatrix(MDS)
	if err != nil {
		panic(fmt.Sprintf("hasher: %v", err))
	}
	InvMDS = inv

	ARK1, ARK2 = deriveRoundConstants(roundConstantDomain)
}

// deriveRoundConstants squeezes SHAKE256 over the domain tag, rejecting
// 64-bit samples that are not canonical field elements
func deriveRoundConstants(domain string) (ark1, ark2 [NumRounds][StateWidth]field.Element) {
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte(domain))

	var buf [8]byte
	next := func() field.Element {
		for {
			_, _ = shake.Read(buf[:])
			v := binary.LittleEndian.Uint64(buf[:])
			if v < field.P {
				return field.New(v)
			}
		}
	}

	for r := 0; r < NumRounds; r++ {
		for i := 0; i < StateWidth; i++ {
			ark1[r][i] = next()
		}
	}
	for r := 0; r < NumRounds; r++ {
		for i := 0; i < StateWidth; i++ {
			ark2[r][i] = next()
		}
	}
	return ark1, ark2
}

// invertMatrix computes the inverse by Gauss-Jordan elimination
func invertMatrix(m [StateWidth][StateWidth]field.Element) ([StateWidth][StateWidth]field.Element, error) {
	var a, inv [StateWidth][StateWidth]field.Element
	for i := 0; i < StateWidth; i++ {
		for j := 0; j < StateWidth; j++ {
			a[i][j] = m[i][j]
			if i == j {
				inv[i][j] = field.One
			} else {
				inv[i][j] = field.Zero
			}
		}
	}

	for col := 0; col < StateWidth; col++ {
		pivot := -1
		for row := col; row < StateWidth; row++ {
			if !a[row][col].IsZero() {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return inv, fmt.Errorf("matrix is singular at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := a[col][col].Inverse()
		for j := 0; j < StateWidth; j++ {
			a[col][j] = a[col][j].Mul(scale)
			inv[col][j] = inv[col][j].Mul(scale)
		}

		for row := 0; row < StateWidth; row++ {
			if row == col || a[row][col].IsZero() {
				continue
			}
			factor := a[row][col]
			for j := 0; j < StateWidth; j++ {
				a[row][j] = a[row][j].Sub(factor.Mul(a[col][j]))
				inv[row][j] = inv[row][j].Sub(factor.Mul(inv[col][j]))
			}
		}
	}
	return inv, nil
}
