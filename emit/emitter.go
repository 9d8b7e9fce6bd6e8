package emit

import (
	"fmt"
	"strings"
)

// Emitter appends commands to a Buffer and keeps a static record of the
// data pointer. Every slot-addressed helper takes its slot as an offset from
// the current pointer and leaves the pointer where it found it.
type Emitter struct {
	buf    Buffer
	pos    int
	strict bool
}

// NewEmitter returns an empty emitter positioned at offset 0.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// SetStrict makes loop helpers panic when a body that must leave the
// pointer in place moves it.
func (e *Emitter) SetStrict(strict bool) {
	e.strict = strict
}

// Strict reports whether body checks are enabled.
func (e *Emitter) Strict() bool {
	return e.strict
}

// Pos returns the statically tracked pointer offset.
func (e *Emitter) Pos() int {
	return e.pos
}

// Len returns the number of commands emitted so far.
func (e *Emitter) Len() int {
	return e.buf.Len()
}

// Build renders the program emitted so far.
func (e *Emitter) Build() string {
	return e.buf.Build()
}

// Raw appends literal command text. Pointer moves in code are tracked; any
// other character is an error and nothing is appended.
func (e *Emitter) Raw(code string) error {
	if i := strings.IndexFunc(code, func(r rune) bool {
		return !strings.ContainsRune(symbols, r)
	}); i >= 0 {
		return fmt.Errorf("%w: %q at %d", ErrBadSymbol, code[i], i)
	}
	for i := 0; i < len(code); i++ {
		c, _ := ParseCmd(code[i])
		e.cmd(c)
	}
	return nil
}

func (e *Emitter) cmd(c Cmd) {
	switch c {
	case Right:
		e.pos++
	case Left:
		e.pos--
	}
	e.buf.Append(c)
}

// MoveBy moves the pointer n cells, right for positive n.
func (e *Emitter) MoveBy(n int) {
	for ; n > 0; n-- {
		e.cmd(Right)
	}
	for ; n < 0; n++ {
		e.cmd(Left)
	}
}

// Enter moves the pointer to slot.
func (e *Emitter) Enter(slot int) {
	e.MoveBy(slot)
}

// Exit undoes Enter(slot).
func (e *Emitter) Exit(slot int) {
	e.MoveBy(-slot)
}

// Add adds k to the cell at slot, modulo 256.
func (e *Emitter) Add(slot, k int) {
	k %= 256
	if k > 128 {
		k -= 256
	} else if k < -128 {
		k += 256
	}

	e.Enter(slot)
	for ; k > 0; k-- {
		e.cmd(Inc)
	}
	for ; k < 0; k++ {
		e.cmd(Dec)
	}
	e.Exit(slot)
}

// Write outputs the cell at slot.
func (e *Emitter) Write(slot int) {
	e.Enter(slot)
	e.cmd(Put)
	e.Exit(slot)
}

// Mark is a saved pointer position.
type Mark int

// Mark returns the current tracked position.
func (e *Emitter) Mark() Mark {
	return Mark(e.pos)
}

// Restore resets the tracked position to m without emitting anything. The
// caller guarantees the real pointer is back where it was when m was taken.
func (e *Emitter) Restore(m Mark) {
	e.pos = int(m)
}
