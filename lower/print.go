package lower

import (
	"fmt"
	"strconv"

	"github.com/sarchlab/nazuki/emit"
)

// Scratch slots of Print, to the right of the terminus.
const (
	signFlag = 1 + iota
	charCell
	copyTmp
	digit0
)

// Digits is the number of decimal digits of the largest 32-bit magnitude.
const Digits = 10

const (
	divRem = digit0 + Digits + iota
	divCount
	tmpA
	tmpB
	wrapFlag
	started
)

// powerDigits[i][k] is the k-th decimal digit of 2^i, least significant first.
var powerDigits [WordBits][Digits]int

func init() {
	for i := 0; i < WordBits; i++ {
		s := strconv.FormatUint(1<<i, 10)
		for k := 0; k < len(s); k++ {
			powerDigits[i][k] = int(s[len(s)-1-k] - '0')
		}
	}
	for k, load := range DigitLoad() {
		if load > 255 {
			panic(fmt.Sprintf("lower: digit %d can reach %d, which does not fit a cell", k, load))
		}
	}
}

// DigitLoad returns, per decimal position, the largest value the position's
// cell can hold while Print runs: the sum of that digit over all 32 powers
// of two plus the largest carry from the position below.
func DigitLoad() []int {
	load := make([]int, Digits)
	carry := 0
	for k := 0; k < Digits; k++ {
		for i := 0; i < WordBits; i++ {
			load[k] += powerDigits[i][k]
		}
		load[k] += carry
		carry = load[k] / 10
	}
	return load
}

func digit(k int) int {
	return digit0 + k
}

// Print pops the top element and writes it in signed decimal.
//
// A negative value is negated first, so the bits hold the magnitude as an
// unsigned number; this also covers the most negative value, whose
// magnitude is 2^31. Every set bit then adds the decimal digits of its power
// of two into ten digit cells, which are normalized by carrying the tens
// upward. Leading zeros are suppressed and the last digit is always
// written.
func (l *Library) Print(e *emit.Emitter) {
	l.printSign(e)

	for i := 0; i < WordBits; i++ {
		b := bit(1, i)
		e.WhileNonzero(b, func() {
			e.Add(b, -1)
			for k, d := range powerDigits[i] {
				if d != 0 {
					e.Add(digit(k), d)
				}
			}
		})
	}
	e.Add(head(1), -1)

	for k := 0; k < Digits-1; k++ {
		divmod10(e, digit(k), digit(k+1))
	}

	for k := Digits - 1; k > 0; k-- {
		d := digit(k)
		copyCell(e, d)
		e.WhileNonzero(tmpA, func() {
			e.Clear(tmpA)
			e.Set(started, 1)
		})
		copyCell(e, started)
		e.WhileNonzero(tmpA, func() {
			e.Add(tmpA, -1)
			e.Add(d, '0')
			e.Write(d)
			e.Add(d, -'0')
		})
		e.Clear(d)
	}
	e.Add(digit(0), '0')
	e.Write(digit(0))
	e.Clear(digit(0))
	e.Clear(started)

	e.MoveBy(-BlockWidth)
}

// printSign writes '-' and negates the top element when its sign bit is set.
func (l *Library) printSign(e *emit.Emitter) {
	sign := bit(1, WordBits-1)
	e.Move(sign, emit.To(signFlag), emit.To(copyTmp))
	e.Move(copyTmp, emit.To(sign))

	e.WhileNonzero(signFlag, func() {
		e.Add(signFlag, -1)
		e.Add(charCell, '-')
		e.Write(charCell)
		e.Add(charCell, -'-')
		l.Not(e)
		l.Inc(e)
	})
}

// copyCell copies slot into tmpA through tmpB.
func copyCell(e *emit.Emitter, slot int) {
	e.Move(slot, emit.To(tmpA), emit.To(tmpB))
	e.Move(tmpB, emit.To(slot))
}

// divmod10 leaves n mod 10 in n and adds n / 10 to q.
func divmod10(e *emit.Emitter, n, q int) {
	e.Add(divCount, 10)
	e.WhileNonzero(n, func() {
		e.Add(n, -1)
		e.Add(divRem, 1)
		e.Add(divCount, -1)
		e.Add(wrapFlag, 1)

		copyCell(e, divCount)
		e.WhileNonzero(tmpA, func() {
			e.Clear(tmpA)
			e.Add(wrapFlag, -1)
		})
		e.WhileNonzero(wrapFlag, func() {
			e.Add(wrapFlag, -1)
			e.Add(q, 1)
			e.Clear(divRem)
			e.Add(divCount, 10)
		})
	})
	e.Move(divRem, emit.To(n))
	e.Clear(divCount)
}
