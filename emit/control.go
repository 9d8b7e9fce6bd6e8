package emit

import "fmt"

// Dest is a destination of Move: Factor is added to Slot once per unit
// drained from the source.
type Dest struct {
	Slot   int
	Factor int
}

// To is a destination receiving the source value unchanged.
func To(slot int) Dest {
	return Dest{Slot: slot, Factor: 1}
}

// Neg is a destination receiving the negated source value.
func Neg(slot int) Dest {
	return Dest{Slot: slot, Factor: -1}
}

func (e *Emitter) checked(what string, body func()) {
	if body == nil {
		return
	}
	start := e.pos
	body()
	if e.strict && e.pos != start {
		panic(fmt.Sprintf("emit: %s body moved the pointer by %d", what, e.pos-start))
	}
}

// WhileNonzero repeats body as long as the cell at slot is nonzero. The
// body must leave the pointer where it found it.
func (e *Emitter) WhileNonzero(slot int, body func()) {
	e.Enter(slot)
	e.cmd(Open)
	e.Exit(slot)
	e.checked("loop", body)
	e.Enter(slot)
	e.cmd(Close)
	e.Exit(slot)
}

// Clear zeroes the cell at slot.
func (e *Emitter) Clear(slot int) {
	e.WhileNonzero(slot, func() { e.Add(slot, -1) })
}

// Set stores k in the cell at slot.
func (e *Emitter) Set(slot, k int) {
	e.Clear(slot)
	e.Add(slot, k)
}

// Move drains src into every destination. src ends at zero.
func (e *Emitter) Move(src int, dsts ...Dest) {
	e.WhileNonzero(src, func() {
		e.Add(src, -1)
		for _, d := range dsts {
			e.Add(d.Slot, d.Factor)
		}
	})
}

// IfElse runs then when flag is 1 and els when it is 0. scratch must hold
// zero on entry. Both branches start with flag and scratch at zero,
// and both cells are zero on exit.
func (e *Emitter) IfElse(flag, scratch int, then, els func()) {
	e.Add(scratch, 1)
	e.WhileNonzero(flag, func() {
		e.Add(flag, -1)
		e.Add(scratch, -1)
		e.checked("then", then)
	})
	e.WhileNonzero(scratch, func() {
		e.Add(scratch, -1)
		e.checked("else", els)
	})
}

// Walk emits a loop that runs body and then moves step cells, until it
// reaches a zero cell. The final position depends on the tape, so the
// tracked position is reset to where the loop started.
func (e *Emitter) Walk(step int, body func()) {
	start := e.pos
	e.cmd(Open)
	e.checked("walk", body)
	e.MoveBy(step)
	e.cmd(Close)
	e.pos = start
}

// Scan moves step cells at a time until it reaches a zero cell.
func (e *Emitter) Scan(step int) {
	e.Walk(step, nil)
}
