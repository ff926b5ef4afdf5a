package hasher

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

// ApplyPermutation runs all rounds of the permutation in place
func ApplyPermutation(state *State) {
	for r := 0; r < NumRounds; r++ {
		ApplyRound(state, r)
	}
}

// ApplyRound runs round r in place: S-box, MDS, ARK1, inverse S-box, MDS, ARK2
func ApplyRound(state *State, round int) {
	ApplySbox(state)
	ApplyMDS(state)
	AddConstants(state, &ARK1[round])

	ApplyInvSbox(state)
	ApplyMDS(state)
	AddConstants(state, &ARK2[round])
}

// Sbox raises x to the 7th power
func Sbox(x field.Element) field.Element {
	x2 := x.Mul(x)
	x4 := x2.Mul(x2)
	x3 := x2.Mul(x)
	return x4.Mul(x3)
}

// InvSbox raises x to the inverse of 7 modulo p - 1
func InvSbox(x field.Element) field.Element {
	return x.ModPow(invAlpha)
}

// ApplySbox applies Sbox to every element
func ApplySbox(state *State) {
	for i := range state {
		state[i] = Sbox(state[i])
	}
}

// ApplyInvSbox applies InvSbox to every element
func ApplyInvSbox(state *State) {
	for i := range state {
		state[i] = InvSbox(state[i])
	}
}

// ApplyMDS multiplies the state by MDS
func ApplyMDS(state *State) {
	*state = matVec(&MDS, state)
}

// ApplyInvMDS multiplies the state by InvMDS
func ApplyInvMDS(state *State) {
	*state = matVec(&InvMDS, state)
}

// AddConstants adds a row of round constants to the state
func AddConstants(state *State, ark *[StateWidth]field.Element) {
	for i := range state {
		state[i] = state[i].Add(ark[i])
	}
}

func matVec(m *[StateWidth][StateWidth]field.Element, state *State) State {
	var result State
	for i := 0; i < StateWidth; i++ {
		acc := field.Zero
		for j := 0; j < StateWidth; j++ {
			acc = acc.Add(m[i][j].Mul(state[j]))
		}
		result[i] = acc
	}
	return result
}

// Digest returns the digest portion of the state
func (s *State) Digest() core.Word {
	return core.Word{s[DigestStart], s[DigestStart+1], s[DigestStart+2], s[DigestStart+3]}
}

// NewState returns a zeroed state
func NewState() State {
	var s State
	for i := range s {
		s[i] = field.Zero
	}
	return s
}

// initMergeState places a and b in the rate with the given domain in the capacity
func initMergeState(a, b core.Word, domain field.Element) State {
	s := NewState()
	s[1] = domain
	copy(s[RateStart:RateStart+4], a[:])
	copy(s[RateStart+4:RateStart+8], b[:])
	return s
}

// Merge returns the 2-to-1 hash of two words
func Merge(a, b core.Word) core.Word {
	return MergeInDomain(a, b, field.Zero)
}

// MergeInDomain returns the 2-to-1 hash of two words separated by domain
func MergeInDomain(a, b core.Word, domain field.Element) core.Word {
	s := initMergeState(a, b, domain)
	ApplyPermutation(&s)
	return s.Digest()
}

// HashElements hashes an arbitrary sequence: the element count seeds the
// capacity, blocks of 8 overwrite the rate and the last block is zero padded
func HashElements(elements []field.Element) core.Word {
	s := initLinearHashState(len(elements))
	blocks := absorbBlocks(elements)
	for _, block := range blocks {
		copy(s[RateStart:], block[:])
		ApplyPermutation(&s)
	}
	return s.Digest()
}

func initLinearHashState(n int) State {
	s := NewState()
	s[0] = field.New(uint64(n))
	return s
}

// absorbBlocks splits elements into zero-padded rate blocks; an empty input
// still yields one block
func absorbBlocks(elements []field.Element) [][RateLen]field.Element {
	numBlocks := (len(elements) + RateLen - 1) / RateLen
	if numBlocks == 0 {
		numBlocks = 1
	}
	blocks := make([][RateLen]field.Element, numBlocks)
	for b := range blocks {
		for i := 0; i < RateLen; i++ {
			idx := b*RateLen + i
			if idx < len(elements) {
				blocks[b][i] = elements[idx]
			} else {
				blocks[b][i] = field.Zero
			}
		}
	}
	return blocks
}
