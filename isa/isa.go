// Package isa defines the 32-bit integer instruction set that nazuki lowers
// to tape-machine code.
package isa

import (
	"fmt"
	"strings"
)

// Op identifies the operation of an instruction.
type Op uint8

const (
	OpConst Op = iota
	OpNot
	OpAnd
	OpOr
	OpXor
	OpShl
	OpInc
	OpPrint

	numOps
)

var opNames = [numOps]string{
	OpConst: "i32.const",
	OpNot:   "i32.not",
	OpAnd:   "i32.and",
	OpOr:    "i32.or",
	OpXor:   "i32.xor",
	OpShl:   "i32.shl",
	OpInc:   "i32.inc",
	OpPrint: "i32.print",
}

// String returns the mnemonic of the operation.
func (o Op) String() string {
	if o >= numOps {
		return fmt.Sprintf("op(%d)", uint8(o))
	}
	return opNames[o]
}

// Valid reports whether o is one of the defined operations.
func (o Op) Valid() bool {
	return o < numOps
}

// Pops returns how many stack values the operation consumes.
func (o Op) Pops() int {
	switch o {
	case OpConst:
		return 0
	case OpNot, OpInc, OpPrint:
		return 1
	case OpAnd, OpOr, OpXor, OpShl:
		return 2
	default:
		panic(fmt.Sprintf("unknown op %d", uint8(o)))
	}
}

// Pushes returns how many stack values the operation produces.
func (o Op) Pushes() int {
	switch o {
	case OpPrint:
		return 0
	case OpConst, OpNot, OpInc, OpAnd, OpOr, OpXor, OpShl:
		return 1
	default:
		panic(fmt.Sprintf("unknown op %d", uint8(o)))
	}
}

// ParseOp looks an operation up by mnemonic. The "i32." prefix is optional.
func ParseOp(name string) (Op, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "i32.") {
		n = "i32." + n
	}
	for o, s := range opNames {
		if s == n {
			return Op(o), nil
		}
	}
	return 0, fmt.Errorf("unknown instruction %q", name)
}

// Inst is a single instruction. Inst values are comparable, so they can be
// used as map keys; two instructions are the same instruction iff they are ==.
type Inst struct {
	Op Op
	// Value is the literal of OpConst and zero for every other operation.
	Value int32
}

func Const(n int32) Inst { return Inst{Op: OpConst, Value: n} }
func Not() Inst          { return Inst{Op: OpNot} }
func And() Inst          { return Inst{Op: OpAnd} }
func Or() Inst           { return Inst{Op: OpOr} }
func Xor() Inst          { return Inst{Op: OpXor} }
func Shl() Inst          { return Inst{Op: OpShl} }
func Inc() Inst          { return Inst{Op: OpInc} }
func Print() Inst        { return Inst{Op: OpPrint} }

func (i Inst) String() string {
	if i.Op == OpConst {
		return fmt.Sprintf("%s %d", i.Op, i.Value)
	}
	return i.Op.String()
}

// Program is an ordered instruction sequence.
type Program []Inst

// Distinct returns the number of distinct instructions in p.
func (p Program) Distinct() int {
	seen := make(map[Inst]struct{}, len(p))
	for _, inst := range p {
		seen[inst] = struct{}{}
	}
	return len(seen)
}

func (p Program) String() string {
	lines := make([]string, len(p))
	for i, inst := range p {
		lines[i] = inst.String()
	}
	return strings.Join(lines, "\n")
}

// DemoProgram returns the fixed program generated by the host entry point.
// It prints "334" followed by "-31".
func DemoProgram() Program {
	return Program{
		Const(334),
		Print(),
		Const(12),
		Const(10),
		Xor(), // 6
		Const(2),
		Shl(), // 24
		Inc(), // 25
		Const(0x0f),
		Or(), // 31
		Const(-2),
		And(), // 30
		Not(), // -31
		Print(),
	}
}
