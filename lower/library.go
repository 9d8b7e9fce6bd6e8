package lower

import (
	"fmt"

	"github.com/sarchlab/nazuki/emit"
	"github.com/sarchlab/nazuki/isa"
)

// Operand temps used by Xor. Below xorSplit the left head, which holds 1,
// is closer to the bits; from xorSplit on the cleared right head is.
const xorSplit = 13

// Library emits the routine of each instruction.
type Library struct{}

// NewLibrary returns the standard routine library.
func NewLibrary() *Library {
	return &Library{}
}

// Lower emits the routine of inst at the terminus.
func (l *Library) Lower(e *emit.Emitter, inst isa.Inst) {
	switch inst.Op {
	case isa.OpConst:
		l.Const(e, inst.Value)
	case isa.OpNot:
		l.Not(e)
	case isa.OpAnd:
		l.And(e)
	case isa.OpOr:
		l.Or(e)
	case isa.OpXor:
		l.Xor(e)
	case isa.OpShl:
		l.Shl(e)
	case isa.OpInc:
		l.Inc(e)
	case isa.OpPrint:
		l.Print(e)
	default:
		panic(fmt.Sprintf("lower: unknown op %s", inst.Op))
	}
}

// Const pushes n.
func (l *Library) Const(e *emit.Emitter, n int32) {
	e.Add(0, 1)
	for i := 0; i < WordBits; i++ {
		if uint32(n)>>i&1 == 1 {
			e.Add(1+i, 1)
		}
	}
	e.MoveBy(BlockWidth)
}

// Not inverts every bit of the top element. The bits are first shifted one
// cell up while being inverted, using the terminus as the extra cell, and
// then shifted back.
func (l *Library) Not(e *emit.Emitter) {
	for i := WordBits - 1; i >= 0; i-- {
		src := bit(1, i)
		e.Add(src+1, 1)
		e.Move(src, emit.Neg(src+1))
	}
	for i := 0; i < WordBits; i++ {
		dst := bit(1, i)
		e.Move(dst+1, emit.To(dst))
	}
}

// And pops b and a and pushes a&b.
func (l *Library) And(e *emit.Emitter) {
	for i := 0; i < WordBits; i++ {
		r, a := bit(1, i), bit(2, i)
		// r is 255 exactly when b's bit was clear
		e.Add(r, -1)
		e.WhileNonzero(r, func() {
			e.Clear(a)
			e.Add(r, 1)
		})
	}
	e.Add(head(1), -1)
	e.MoveBy(-BlockWidth)
}

// Or pops b and a and pushes a|b.
func (l *Library) Or(e *emit.Emitter) {
	for i := 0; i < WordBits; i++ {
		r, a := bit(1, i), bit(2, i)
		e.WhileNonzero(r, func() {
			e.Set(a, 1)
			e.Add(r, -1)
		})
	}
	e.Add(head(1), -1)
	e.MoveBy(-BlockWidth)
}

// Xor pops b and a and pushes a^b. Flipping a bit needs a temp cell that
// holds 1 around the flip; the two heads take turns.
func (l *Library) Xor(e *emit.Emitter) {
	e.Add(head(1), -1)

	flip := func(a, t int) {
		e.WhileNonzero(a, func() {
			e.Add(a, -1)
			e.Add(t, -1)
		})
		e.WhileNonzero(t, func() {
			e.Add(t, -1)
			e.Add(a, 1)
		})
	}

	for i := 0; i < WordBits; i++ {
		r, a := bit(1, i), bit(2, i)
		if i < xorSplit {
			t := head(2)
			e.WhileNonzero(r, func() {
				e.Add(r, -1)
				flip(a, t)
				e.Add(t, 1)
			})
		} else {
			t := head(1)
			e.WhileNonzero(r, func() {
				e.Add(r, -1)
				e.Add(t, 1)
				flip(a, t)
			})
		}
	}
	e.MoveBy(-BlockWidth)
}

// Shl pops n and a and pushes a<<n, which is 0 for any n of 32 or more.
// The low five bits of n are summed into the right head, which then counts
// single-bit shifts.
func (l *Library) Shl(e *emit.Emitter) {
	count := head(1)
	e.Add(count, -1)

	for j := 5; j < WordBits; j++ {
		r := bit(1, j)
		e.WhileNonzero(r, func() {
			e.Add(r, -1)
			for k := 0; k < WordBits; k++ {
				e.Clear(bit(2, k))
			}
		})
	}
	for j := 0; j < 5; j++ {
		e.Move(bit(1, j), emit.Dest{Slot: count, Factor: 1 << j})
	}

	e.WhileNonzero(count, func() {
		e.Add(count, -1)
		e.Clear(bit(2, WordBits-1))
		for k := WordBits - 2; k >= 0; k-- {
			e.Move(bit(2, k), emit.To(bit(2, k+1)))
		}
	})
	e.MoveBy(-BlockWidth)
}

// Inc adds one to the top element. The carry ripples through the run of
// set bits starting at b0; a carry out of b31 lands on the terminus and is
// discarded.
func (l *Library) Inc(e *emit.Emitter) {
	h := head(1)
	e.Add(h, -1)

	e.Enter(bit(1, 0))
	// find the lowest clear bit, set it, and clear the bits below it; the
	// backward walk stops on the cleared head
	if err := e.Raw("[>]+<[-<]"); err != nil {
		panic(err)
	}
	e.Add(0, 1)
	e.Exit(h)

	e.Clear(0)
}
