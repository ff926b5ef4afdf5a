package hasher

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
)

func testState() State {
	var s State
	for i := range s {
		s[i] = field.New(uint64(i*31 + 7))
	}
	return s
}

func TestSboxInverse(t *testing.T) {
	for _, v := range []uint64{0, 1, 2, 42, field.P - 1, 1 << 63} {
		x := field.New(v)
		if got := InvSbox(Sbox(x)); !got.Equal(x) {
			t.Errorf("InvSbox(Sbox(%d)) = %d", v, got.Value())
		}
		if got := Sbox(InvSbox(x)); !got.Equal(x) {
			t.Errorf("Sbox(InvSbox(%d)) = %d", v, got.Value())
		}
	}
}

func TestMDSInverse(t *testing.T) {
	s := testState()
	orig := s
	ApplyMDS(&s)
	ApplyInvMDS(&s)
	if s != orig {
		t.Errorf("InvMDS(MDS(s)) = %v, want %v", s, orig)
	}
}

func TestRoundConstantsDeterministic(t *testing.T) {
	ark1, ark2 := deriveRoundConstants(roundConstantDomain)
	if ark1 != ARK1 || ark2 != ARK2 {
		t.Error("round constants differ between derivations")
	}
	other1, _ := deriveRoundConstants("other-domain")
	if other1 == ARK1 {
		t.Error("round constants do not depend on the domain")
	}
	if ARK1[0][0].Equal(ARK2[0][0]) {
		t.Error("ARK1 and ARK2 start with the same constant")
	}
}

func TestPermutationIsRoundComposition(t *testing.T) {
	a := testState()
	b := a
	ApplyPermutation(&a)
	for r := 0; r < NumRounds; r++ {
		ApplyRound(&b, r)
	}
	if a != b {
		t.Error("ApplyPermutation() differs from applying each round")
	}
	if a == testState() {
		t.Error("permutation left the state unchanged")
	}
}

func TestMerge(t *testing.T) {
	a := core.NewWord(1, 2, 3, 4)
	b := core.NewWord(5, 6, 7, 8)

	ab := Merge(a, b)
	if !ab.Equal(Merge(a, b)) {
		t.Error("Merge() is not deterministic")
	}
	if ab.Equal(Merge(b, a)) {
		t.Error("Merge() is symmetric")
	}
	if ab.Equal(MergeInDomain(a, b, field.New(1))) {
		t.Error("MergeInDomain() ignores the domain")
	}
}

func TestHashElementsPadding(t *testing.T) {
	eight := make([]field.Element, 8)
	nine := make([]field.Element, 9)
	for i := range nine {
		nine[i] = field.Zero
	}
	for i := range eight {
		eight[i] = field.Zero
	}

	if HashElements(eight).Equal(HashElements(nine)) {
		t.Error("length is not bound into the hash")
	}
	if HashElements(nil).Equal(HashElements(eight)) {
		t.Error("empty input hashes like eight zeros")
	}
}

func TestChipletOperations(t *testing.T) {
	c := NewChiplet()

	addr, out := c.Permute(testState())
	if addr != 1 {
		t.Errorf("first address = %d, want 1", addr)
	}
	expected := testState()
	ApplyPermutation(&expected)
	if out != expected {
		t.Error("Permute() result differs from ApplyPermutation()")
	}

	a := core.NewWord(1, 2, 3, 4)
	b := core.NewWord(5, 6, 7, 8)
	addr, digest := c.Merge(a, b)
	if addr != CycleLen+1 {
		t.Errorf("second address = %d, want %d", addr, CycleLen+1)
	}
	if !digest.Equal(Merge(a, b)) {
		t.Error("chiplet Merge() differs from Merge()")
	}

	elems := core.FeltsFromUint64([]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	addr, digest = c.HashElements(elems)
	if addr != 2*CycleLen+1 {
		t.Errorf("third address = %d, want %d", addr, 2*CycleLen+1)
	}
	if !digest.Equal(HashElements(elems)) {
		t.Error("chiplet HashElements() differs from HashElements()")
	}
	if c.GetHeight() != 4*CycleLen {
		t.Errorf("height = %d, want %d", c.GetHeight(), 4*CycleLen)
	}
}

func TestChipletMerklePath(t *testing.T) {
	leaves := []core.Word{
		core.NewWord(1, 0, 0, 0), core.NewWord(2, 0, 0, 0),
		core.NewWord(3, 0, 0, 0), core.NewWord(4, 0, 0, 0),
	}
	n01 := Merge(leaves[0], leaves[1])
	n23 := Merge(leaves[2], leaves[3])
	root := Merge(n01, n23)

	c := NewChiplet()
	_, got, err := c.BuildMerkleRoot(leaves[2], []core.Word{leaves[3], n01}, 2)
	if err != nil {
		t.Fatalf("BuildMerkleRoot() error = %v", err)
	}
	if !got.Equal(root) {
		t.Errorf("BuildMerkleRoot() = %s, want %s", got, root)
	}

	newLeaf := core.NewWord(9, 9, 9, 9)
	_, oldRoot, newRoot, err := c.UpdateMerkleRoot(leaves[1], newLeaf, []core.Word{leaves[0], n23}, 1)
	if err != nil {
		t.Fatalf("UpdateMerkleRoot() error = %v", err)
	}
	if !oldRoot.Equal(root) {
		t.Errorf("old root = %s, want %s", oldRoot, root)
	}
	want := Merge(Merge(leaves[0], newLeaf), n23)
	if !newRoot.Equal(want) {
		t.Errorf("new root = %s, want %s", newRoot, want)
	}

	cols := c.GetMainColumns()
	idx := cols[NumColumns-1]
	// path of depth 2 at index 2: the first cycle outputs node 1, the second the root
	for row := 0; row < CycleLen; row++ {
		if idx[row].Value() != 1 || idx[CycleLen+row].Value() != 0 {
			t.Fatalf("node index column = %v", idx[:2*CycleLen])
		}
	}

	if _, _, err := c.BuildMerkleRoot(leaves[0], []core.Word{leaves[1]}, 2); err == nil {
		t.Error("BuildMerkleRoot() accepted an index wider than the path")
	}
}

func TestChipletSelectorsPerCycle(t *testing.T) {
	c := NewChiplet()
	c.Merge(core.ZeroWord, core.ZeroWord)
	cols := c.GetMainColumns()

	wantS0 := []uint64{1, 0, 0, 0, 0, 0, 0, 0}
	for row, want := range wantS0 {
		if got := cols[0][row].Value(); got != want {
			t.Errorf("s0[%d] = %d, want %d", row, got, want)
		}
	}
}

func TestChipletPad(t *testing.T) {
	c := NewChiplet()
	c.Merge(core.ZeroWord, core.ZeroWord)
	if err := c.Pad(32); err != nil {
		t.Fatalf("Pad() error = %v", err)
	}
	if c.GetHeight() != 32 {
		t.Errorf("height = %d, want 32", c.GetHeight())
	}
	if err := c.Pad(36); err == nil {
		t.Error("Pad() accepted a length that is not cycle aligned")
	}
}
