// Package core provides the field and word types shared by every VM component
package core

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// WordSize is the number of field elements in a word
const WordSize = 4

// Word is a group of four field elements
type Word [WordSize]field.Element

// ZeroWord is a word with all elements set to zero
var ZeroWord = Word{field.Zero, field.Zero, field.Zero, field.Zero}

// NewWord builds a word from raw integers, reducing each modulo p
func NewWord(a, b, c, d uint64) Word {
	return Word{field.New(a), field.New(b), field.New(c), field.New(d)}
}

// Bytes returns the 32-byte encoding of the word: each element's canonical
// value in little-endian order
func (w Word) Bytes() [32]byte {
	var out [32]byte
	for i, e := range w {
		binary.LittleEndian.PutUint64(out[i*8:], e.Value())
	}
	return out
}

// Equal reports whether two words hold the same elements
func (w Word) Equal(other Word) bool {
	for i := range w {
		if !w[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether every element of the word is zero
func (w Word) IsZero() bool {
	for _, e := range w {
		if !e.IsZero() {
			return false
		}
	}
	return true
}

// Elements returns the word as a slice
func (w Word) Elements() []field.Element {
	out := make([]field.Element, WordSize)
	copy(out, w[:])
	return out
}

// String returns a string representation of the word
func (w Word) String() string {
	parts := make([]string, WordSize)
	for i, e := range w {
		parts[i] = fmt.Sprintf("%d", e.Value())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FeltFromBool maps true to one and false to zero
func FeltFromBool(b bool) field.Element {
	if b {
		return field.One
	}
	return field.Zero
}

// FeltsFromUint64 converts raw integers to field elements
func FeltsFromUint64(values []uint64) []field.Element {
	out := make([]field.Element, len(values))
	for i, v := range values {
		out[i] = field.New(v)
	}
	return out
}
