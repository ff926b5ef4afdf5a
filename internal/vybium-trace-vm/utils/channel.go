package utils

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Channel is a Fiat-Shamir transcript. Everything the prover commits to is
// sent into the state; challenges are squeezed out of it.
type Channel struct {
	state    []byte
	hashFunc string

	sent  int // bytes absorbed
	drawn int // elements squeezed
}

// NewChannel creates a channel hashing with hashFunc ("sha3" or "sha256")
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	c := &Channel{hashFunc: hashFunc}
	c.state = c.hash([]byte("vybium-trace-vm/" + hashFunc))
	return c
}

// Send absorbs data into the channel state
func (c *Channel) Send(data []byte) {
	buf := make([]byte, 0, len(c.state)+len(data))
	buf = append(buf, c.state...)
	buf = append(buf, data...)
	c.state = c.hash(buf)
	c.sent += len(data)
}

// SendElements absorbs field elements, each encoded as 8 little-endian bytes
func (c *Channel) SendElements(elements []field.Element) {
	buf := make([]byte, 8*len(elements))
	for i, e := range elements {
		binary.LittleEndian.PutUint64(buf[8*i:], e.Value())
	}
	c.Send(buf)
}

// ReceiveRandomBFieldElement squeezes one uniformly random base field
// element. Each squeeze rehashes the state; 8-byte chunks at or above p are
// rejected.
func (c *Channel) ReceiveRandomBFieldElement() field.Element {
	for {
		c.state = c.hash(append([]byte{0x01}, c.state...))
		for off := 0; off+8 <= len(c.state); off += 8 {
			v := binary.LittleEndian.Uint64(c.state[off:])
			if v < field.P {
				c.drawn++
				return field.New(v)
			}
		}
	}
}

// ReceiveRandomBFieldElements squeezes n elements
func (c *Channel) ReceiveRandomBFieldElements(n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = c.ReceiveRandomBFieldElement()
	}
	return out
}

// State returns a copy of the current channel state
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Counts returns the number of bytes absorbed and elements squeezed so far
func (c *Channel) Counts() (sent, drawn int) {
	return c.sent, c.drawn
}

func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:]
	default:
		h := sha3.Sum256(data)
		return h[:]
	}
}
