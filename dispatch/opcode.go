package dispatch

import (
	"errors"
	"fmt"

	"github.com/sarchlab/nazuki/isa"
)

const (
	// OpcodeBits is the width of an opcode.
	OpcodeBits = 8
	// MaxOpcodes is the number of distinct instructions a program may use.
	MaxOpcodes = 1 << OpcodeBits
)

// ErrTooManyInstructions is returned when a program has more distinct
// instructions than there are opcodes.
var ErrTooManyInstructions = errors.New("too many distinct instructions")

// OpcodeTable assigns a dense opcode to every distinct instruction.
type OpcodeTable struct {
	ids   map[isa.Inst]int
	insts []isa.Inst
}

// BuildOpcodeTable walks p from the last instruction to the first and gives
// each instruction not seen before the next free opcode.
func BuildOpcodeTable(p isa.Program) (*OpcodeTable, error) {
	t := &OpcodeTable{
		ids: make(map[isa.Inst]int),
	}

	for pos := len(p) - 1; pos >= 0; pos-- {
		inst := p[pos]
		if _, ok := t.ids[inst]; ok {
			continue
		}
		if len(t.insts) == MaxOpcodes {
			return nil, fmt.Errorf("%w: %s at %d would need opcode %d",
				ErrTooManyInstructions, inst, pos, MaxOpcodes)
		}

		t.ids[inst] = len(t.insts)
		t.insts = append(t.insts, inst)
		Trace("opcode assigned", "id", t.ids[inst], "inst", inst.String())
	}

	return t, nil
}

// ID returns the opcode of inst.
func (t *OpcodeTable) ID(inst isa.Inst) (int, bool) {
	id, ok := t.ids[inst]
	return id, ok
}

// Inst returns the instruction with opcode id.
func (t *OpcodeTable) Inst(id int) isa.Inst {
	return t.insts[id]
}

// Len returns the number of assigned opcodes.
func (t *OpcodeTable) Len() int {
	return len(t.insts)
}
