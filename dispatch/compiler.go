// Package dispatch compiles a whole program into tape-machine text.
//
// In dispatch mode the program is stored on the tape as an opcode queue, one
// QueueStride-cell block per instruction:
//
//	[sentinel][id b0] ... [id b7]
//
// A single loop walks the queue. For each block it clears the sentinel and
// runs a decision tree over the opcode bits; each leaf moves the pointer
// past the queue and the floor block to the stack terminus, runs the
// instruction's routine and moves back. The cleared sentinel is how the leaf
// finds its block again.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/nazuki/emit"
	"github.com/sarchlab/nazuki/isa"
	"github.com/sarchlab/nazuki/lower"
)

// QueueStride is the number of cells of an opcode queue block.
const QueueStride = 1 + OpcodeBits

// Lowerer emits the routine of a single instruction at the stack terminus.
type Lowerer interface {
	Lower(e *emit.Emitter, inst isa.Inst)
}

// Mode selects how a program is laid out.
type Mode int

const (
	// ModeDispatch stores the program as an opcode queue and emits every
	// distinct routine once.
	ModeDispatch Mode = iota
	// ModeInline emits the routines one after another in program order.
	ModeInline
)

func (m Mode) String() string {
	switch m {
	case ModeDispatch:
		return "dispatch"
	case ModeInline:
		return "inline"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "dispatch", "":
		return ModeDispatch, nil
	case "inline":
		return ModeInline, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Builder can create new compilers.
type Builder struct {
	lowerer Lowerer
	mode    Mode
	strict  bool
}

// NewBuilder returns a builder for a dispatch-mode compiler using the
// standard routine library.
func NewBuilder() Builder {
	return Builder{
		lowerer: lower.NewLibrary(),
		mode:    ModeDispatch,
	}
}

// WithLowerer sets the routine library.
func (b Builder) WithLowerer(l Lowerer) Builder {
	b.lowerer = l
	return b
}

// WithMode sets the layout mode.
func (b Builder) WithMode(m Mode) Builder {
	if m != ModeDispatch && m != ModeInline {
		panic(fmt.Sprintf("unknown mode %d", int(m)))
	}
	b.mode = m
	return b
}

// WithStrict enables pointer-neutrality checks during emission.
func (b Builder) WithStrict(strict bool) Builder {
	b.strict = strict
	return b
}

// Build creates a compiler.
func (b Builder) Build(name string) *Compiler {
	l := b.lowerer
	if l == nil {
		l = lower.NewLibrary()
	}
	return &Compiler{
		name:    name,
		lowerer: l,
		mode:    b.mode,
		strict:  b.strict,
	}
}

// Compiler turns programs into tape-machine text.
type Compiler struct {
	name    string
	lowerer Lowerer
	mode    Mode
	strict  bool
}

// Name returns the name given at Build.
func (c *Compiler) Name() string {
	return c.name
}

// Mode returns the layout mode.
func (c *Compiler) Mode() Mode {
	return c.mode
}

// Compile generates the tape-machine text of p. It fails with
// ErrTooManyInstructions when p has more than MaxOpcodes distinct
// instructions, in either mode. An empty program compiles to empty text.
func (c *Compiler) Compile(p isa.Program) (string, error) {
	table, err := BuildOpcodeTable(p)
	if err != nil {
		return "", err
	}

	e := emit.NewEmitter()
	e.SetStrict(c.strict)

	if len(p) > 0 {
		switch c.mode {
		case ModeInline:
			c.compileInline(e, p)
		default:
			c.compileDispatch(e, p, table)
		}
	}

	code := e.Build()
	slog.Debug("program compiled",
		"compiler", c.name,
		"mode", c.mode.String(),
		"strict", e.Strict(),
		"instructions", len(p),
		"opcodes", table.Len(),
		"length", len(code),
	)
	return code, nil
}

func (c *Compiler) compileInline(e *emit.Emitter, p isa.Program) {
	e.MoveBy(lower.BlockWidth)
	for _, inst := range p {
		c.lowerer.Lower(e, inst)
	}
}

func (c *Compiler) compileDispatch(e *emit.Emitter, p isa.Program, table *OpcodeTable) {
	for pos, inst := range p {
		id, _ := table.ID(inst)
		block := pos * QueueStride
		e.Add(block, 1)
		for b := 0; b < OpcodeBits; b++ {
			if id>>b&1 == 1 {
				e.Add(block+1+b, 1)
			}
		}
	}

	ids := make([]int, table.Len())
	for id := range ids {
		ids[id] = id
	}

	e.Walk(QueueStride, func() {
		e.Add(0, -1)
		c.branch(e, table, 0, ids)
	})
}

// branch emits the decision tree that tells the ids in cands apart, testing
// opcode bits from bit upward.
func (c *Compiler) branch(e *emit.Emitter, table *OpcodeTable, bit int, cands []int) {
	if len(cands) == 0 {
		return
	}
	if len(cands) == 1 || bit == OpcodeBits {
		c.leaf(e, table.Inst(cands[0]))
		return
	}

	var ones, zeros []int
	for _, id := range cands {
		if id>>bit&1 == 1 {
			ones = append(ones, id)
		} else {
			zeros = append(zeros, id)
		}
	}

	if len(ones) == 0 || len(zeros) == 0 {
		c.branch(e, table, bit+1, cands)
		return
	}
	e.IfElse(1+bit, 0,
		func() { c.branch(e, table, bit+1, ones) },
		func() { c.branch(e, table, bit+1, zeros) },
	)
}

// leaf runs the routine of inst. The pointer starts and ends on the
// sentinel of the current queue block, which is the only zero sentinel to
// the left of the floor.
func (c *Compiler) leaf(e *emit.Emitter, inst isa.Inst) {
	Trace("routine emitted", "compiler", c.name, "inst", inst.String())

	m := e.Mark()

	e.MoveBy(QueueStride)
	e.Scan(QueueStride)
	e.MoveBy(lower.BlockWidth)
	e.Scan(lower.BlockWidth)

	c.lowerer.Lower(e, inst)

	e.MoveBy(-lower.BlockWidth)
	e.Scan(-lower.BlockWidth)
	e.MoveBy(-QueueStride)
	e.Scan(-QueueStride)

	e.Restore(m)
}
