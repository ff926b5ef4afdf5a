package processor

import (
	"fmt"
	"math"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/advice"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/core"
	"github.com/vybium/vybium-trace-vm/internal/vybium-trace-vm/stack"
)

// maxTreeDepth bounds the depth an advice set query may name; node indexes
// are 64-bit
const maxTreeDepth = 64

// applyOp writes the next stack row for op. Flow-control op codes are not
// valid inside a span.
func (p *Process) applyOp(op core.Operation) error {
	switch op.Code {
	case core.OpNoop:
		p.stack.CopyState(0)
	case core.OpPad:
		p.stack.Set(0, field.Zero)
		p.stack.ShiftRight(0)
	case core.OpPush:
		p.stack.Set(0, op.Imm)
		p.stack.ShiftRight(0)
	case core.OpDup:
		n, err := stackPosition(op)
		if err != nil {
			return err
		}
		p.stack.Set(0, p.stack.Get(n))
		p.stack.ShiftRight(0)
	case core.OpDrop:
		return p.stack.ShiftLeft(0)
	case core.OpSwap:
		p.stack.Set(0, p.stack.Get(1))
		p.stack.Set(1, p.stack.Get(0))
		p.stack.CopyState(2)
	case core.OpSwapW:
		for i := 0; i < core.WordSize; i++ {
			p.stack.Set(i, p.stack.Get(i+core.WordSize))
			p.stack.Set(i+core.WordSize, p.stack.Get(i))
		}
		p.stack.CopyState(2 * core.WordSize)
	case core.OpMovUp:
		return p.opMovUp(op)
	case core.OpMovDn:
		return p.opMovDn(op)
	case core.OpAdd:
		p.stack.Set(0, p.stack.Get(0).Add(p.stack.Get(1)))
		return p.stack.ShiftLeft(1)
	case core.OpMul:
		p.stack.Set(0, p.stack.Get(0).Mul(p.stack.Get(1)))
		return p.stack.ShiftLeft(1)
	case core.OpNeg:
		p.stack.Set(0, p.stack.Get(0).Neg())
		p.stack.CopyState(1)
	case core.OpInv:
		a := p.stack.Get(0)
		if a.IsZero() {
			return core.NewDivideByZero(p.Clk())
		}
		p.stack.Set(0, a.Inverse())
		p.stack.CopyState(1)
	case core.OpIncr:
		p.stack.Set(0, p.stack.Get(0).Add(field.One))
		p.stack.CopyState(1)
	case core.OpEq:
		p.stack.Set(0, core.FeltFromBool(p.stack.Get(0).Equal(p.stack.Get(1))))
		return p.stack.ShiftLeft(1)
	case core.OpEqz:
		p.stack.Set(0, core.FeltFromBool(p.stack.Get(0).IsZero()))
		p.stack.CopyState(1)
	case core.OpAssert:
		if !p.stack.Get(0).IsOne() {
			return core.NewFailedAssertion(p.Clk())
		}
		return p.stack.ShiftLeft(0)
	case core.OpAdvPop:
		v, err := p.advice.ReadTape(p.Clk())
		if err != nil {
			return err
		}
		p.stack.Set(0, v)
		p.stack.ShiftRight(0)
	case core.OpAdvPopW:
		w, err := p.advice.ReadWord(p.Clk())
		if err != nil {
			return err
		}
		p.stack.SetWordAt(0, w)
		p.stack.CopyState(core.WordSize)
	case core.OpMStoreW:
		return p.opMStoreW()
	case core.OpMLoadW:
		return p.opMLoadW()
	case core.OpAdvPipe:
		return p.opAdvPipe(op)
	case core.OpHPerm:
		p.opHPerm()
	case core.OpMpVerify:
		return p.opMpVerify()
	case core.OpMrUpdate:
		return p.opMrUpdate(op.Imm.IsOne())
	default:
		return fmt.Errorf("operation %s cannot appear inside a span", op.Code)
	}
	return nil
}

// stackPosition returns the immediate of op as a position in the window
func stackPosition(op core.Operation) (int, error) {
	n := op.Imm.Value()
	if n >= stack.MinStackDepth {
		return 0, fmt.Errorf("%s: position %d is outside the stack window", op.Code, n)
	}
	return int(n), nil
}

func (p *Process) opMovUp(op core.Operation) error {
	n, err := stackPosition(op)
	if err != nil {
		return err
	}
	p.stack.Set(0, p.stack.Get(n))
	for i := 1; i <= n; i++ {
		p.stack.Set(i, p.stack.Get(i-1))
	}
	p.stack.CopyState(n + 1)
	return nil
}

func (p *Process) opMovDn(op core.Operation) error {
	n, err := stackPosition(op)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		p.stack.Set(i, p.stack.Get(i+1))
	}
	p.stack.Set(n, p.stack.Get(0))
	p.stack.CopyState(n + 1)
	return nil
}

// opMStoreW stores the word below the address and drops the address
//
//	[addr, V, ...] -> [V, ...]
func (p *Process) opMStoreW() error {
	addr, err := memAddr(p.stack.Get(0))
	if err != nil {
		return err
	}
	p.memory.Write(addr, p.stack.GetWordAt(1))
	return p.stack.ShiftLeft(0)
}

// opMLoadW replaces the address and the word below it with the stored word
//
//	[addr, _, _, _, _, ...] -> [V, ...]
func (p *Process) opMLoadW() error {
	addr, err := memAddr(p.stack.Get(0))
	if err != nil {
		return err
	}
	if err := p.stack.ShiftLeft(core.WordSize); err != nil {
		return err
	}
	p.stack.SetWordAt(0, p.memory.Read(addr))
	return nil
}

// maxPipeWords bounds the double words one advpipe may move
const maxPipeWords = 64

// opAdvPipe moves n double words from the advice tape into memory starting
// at addr and replaces the top word with the hash of everything it moved.
// n is the immediate.
//
//	[_, _, _, _, addr, ...] -> [D, addr+2n, ...]
func (p *Process) opAdvPipe(op core.Operation) error {
	n := op.Imm.Value()
	if n == 0 || n > maxPipeWords {
		return fmt.Errorf("%s: %d double words is outside 1..%d", op.Code, n, maxPipeWords)
	}
	addr, err := memAddr(p.stack.Get(core.WordSize))
	if err != nil {
		return err
	}
	if end := uint64(addr) + 2*n; end > math.MaxUint32 {
		return core.NewMemoryAddressOutOfBounds(end)
	}
	if p.advice.TapeLen() < int(n)*2*core.WordSize {
		return core.NewAdviceTapeReadFailed(p.Clk())
	}

	elements := make([]field.Element, 0, n*2*core.WordSize)
	for i := uint32(0); i < uint32(n); i++ {
		words, err := p.advice.ReadDoubleWord(p.Clk())
		if err != nil {
			return err
		}
		p.memory.Write(addr+2*i, words[0])
		p.memory.Write(addr+2*i+1, words[1])
		elements = append(elements, words[0][:]...)
		elements = append(elements, words[1][:]...)
	}

	_, digest := p.hasher.HashElements(elements)
	p.stack.SetWordAt(0, digest)
	p.stack.Set(core.WordSize, field.New(uint64(addr)+2*n))
	p.stack.CopyState(core.WordSize + 1)
	return nil
}

// opHPerm applies the permutation to the top 12 elements
func (p *Process) opHPerm() {
	_, state := p.hasher.Permute(p.readHasherState())
	p.writeHasherState(state)
	p.stack.CopyState(12)
}

// opMpVerify checks that V is the node at depth d and index i of the tree
// with root R; the stack is unchanged
//
//	[V, d, i, R, ...]
func (p *Process) opMpVerify() error {
	value := p.stack.GetWordAt(0)
	depth, err := treeDepth(p.stack.Get(4))
	if err != nil {
		return err
	}
	index := p.stack.Get(5).Value()
	root := p.stack.GetWordAt(6)

	path, err := p.advice.GetMerklePath(root, depth, index)
	if err != nil {
		return err
	}
	_, computed, err := p.hasher.BuildMerkleRoot(value, path, index)
	if err != nil {
		return core.NewAdviceSetLookupFailed(err)
	}
	if !computed.Equal(root) {
		return core.NewMerklePathVerificationFailed(p.Clk(), root)
	}

	p.stack.CopyState(0)
	return nil
}

// opMrUpdate replaces leaf V with NV in the tree with root R and writes the
// new root over V. With copyTree set the old tree stays available.
//
//	[V, d, i, R, NV, ...] -> [NR, d, i, R, NV, ...]
func (p *Process) opMrUpdate(copyTree bool) error {
	oldValue := p.stack.GetWordAt(0)
	depth, err := treeDepth(p.stack.Get(4))
	if err != nil {
		return err
	}
	index := p.stack.Get(5).Value()
	root := p.stack.GetWordAt(6)
	newValue := p.stack.GetWordAt(10)

	if err := p.advice.CheckTreeDepth(root, uint64(depth)); err != nil {
		return err
	}
	path, err := p.advice.GetMerklePath(root, depth, index)
	if err != nil {
		return err
	}

	_, oldRoot, newRoot, err := p.hasher.UpdateMerkleRoot(oldValue, newValue, path, index)
	if err != nil {
		return core.NewAdviceSetLookupFailed(err)
	}
	if !oldRoot.Equal(root) {
		return core.NewMerklePathVerificationFailed(p.Clk(), root)
	}
	if _, err := p.advice.UpdateMerkleLeaf(root, index, newValue, copyTree); err != nil {
		return err
	}

	p.stack.SetWordAt(0, newRoot)
	p.stack.CopyState(core.WordSize)
	return nil
}

// treeDepth converts a stack element to a tree depth
func treeDepth(e field.Element) (uint32, error) {
	d := e.Value()
	if d == 0 || d > maxTreeDepth {
		return 0, core.NewAdviceSetLookupFailed(fmt.Errorf("%w: %d", advice.ErrInvalidDepth, d))
	}
	return uint32(d), nil
}
