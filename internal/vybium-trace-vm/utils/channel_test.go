package utils

import (
	"bytes"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// TestNewChannel tests creating a new channel
func TestNewChannel(t *testing.T) {
	tests := []struct {
		name         string
		hashFunc     string
		expectedHash string
	}{
		{"default (empty string)", "", "sha3"},
		{"sha256", "sha256", "sha256"},
		{"sha3", "sha3", "sha3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewChannel(tt.hashFunc)
			if ch.hashFunc != tt.expectedHash {
				t.Errorf("Expected hash function %s, got %s", tt.expectedHash, ch.hashFunc)
			}
			if len(ch.state) == 0 {
				t.Error("Channel state not initialized")
			}
		})
	}
}

// TestChannelSend tests sending data to the channel
func TestChannelSend(t *testing.T) {
	ch := NewChannel("sha256")
	initialState := ch.State()

	ch.Send([]byte("test data"))

	if bytes.Equal(initialState, ch.State()) {
		t.Error("Channel state should change after Send")
	}
	if sent, drawn := ch.Counts(); sent != 9 || drawn != 0 {
		t.Errorf("Counts() = %d, %d, want 9, 0", sent, drawn)
	}

	ch.ReceiveRandomBFieldElements(3)
	if _, drawn := ch.Counts(); drawn != 3 {
		t.Errorf("drawn = %d, want 3", drawn)
	}
}

// TestChannelHashFunctions tests that the hash function separates transcripts
func TestChannelHashFunctions(t *testing.T) {
	a := NewChannel("sha256")
	b := NewChannel("sha3")
	if bytes.Equal(a.State(), b.State()) {
		t.Error("sha256 and sha3 channels start from the same state")
	}
	if a.ReceiveRandomBFieldElement().Equal(b.ReceiveRandomBFieldElement()) {
		t.Error("sha256 and sha3 channels drew the same element")
	}
}

// TestChannelDeterminism tests that identical transcripts draw identical elements
func TestChannelDeterminism(t *testing.T) {
	for _, hashFunc := range []string{"sha256", "sha3"} {
		t.Run(hashFunc, func(t *testing.T) {
			elements := []field.Element{field.New(1), field.New(2), field.New(field.P - 1)}

			ch1 := NewChannel(hashFunc)
			ch1.SendElements(elements)
			ch2 := NewChannel(hashFunc)
			ch2.SendElements(elements)

			a := ch1.ReceiveRandomBFieldElements(4)
			b := ch2.ReceiveRandomBFieldElements(4)
			for i := range a {
				if !a[i].Equal(b[i]) {
					t.Errorf("element %d differs: %d vs %d", i, a[i].Value(), b[i].Value())
				}
				if a[i].Value() >= field.P {
					t.Errorf("element %d is not canonical", i)
				}
			}
			if a[0].Equal(a[1]) && a[1].Equal(a[2]) {
				t.Error("consecutive draws are identical")
			}

			ch3 := NewChannel(hashFunc)
			ch3.SendElements(elements[:2])
			if ch3.ReceiveRandomBFieldElement().Equal(a[0]) {
				t.Error("different transcripts drew the same element")
			}
		})
	}
}
