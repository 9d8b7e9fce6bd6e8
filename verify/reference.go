package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/nazuki/isa"
)

// Evaluate runs p directly on a word stack and returns what it prints.
// Generated code for p must produce the same text.
func Evaluate(p isa.Program) (string, error) {
	var out strings.Builder
	var stack []int32

	pop := func() int32 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for i, inst := range p {
		if !inst.Op.Valid() {
			return out.String(), fmt.Errorf("instruction %d: unknown op %s", i, inst.Op)
		}
		if len(stack) < inst.Op.Pops() {
			return out.String(), fmt.Errorf("instruction %d: %s: stack underflow", i, inst)
		}

		switch inst.Op {
		case isa.OpConst:
			stack = append(stack, inst.Value)
		case isa.OpNot:
			stack = append(stack, ^pop())
		case isa.OpInc:
			stack = append(stack, pop()+1)
		case isa.OpAnd:
			b, a := pop(), pop()
			stack = append(stack, a&b)
		case isa.OpOr:
			b, a := pop(), pop()
			stack = append(stack, a|b)
		case isa.OpXor:
			b, a := pop(), pop()
			stack = append(stack, a^b)
		case isa.OpShl:
			n, a := uint32(pop()), pop()
			if n >= 32 {
				stack = append(stack, 0)
			} else {
				stack = append(stack, a<<n)
			}
		case isa.OpPrint:
			out.WriteString(strconv.FormatInt(int64(pop()), 10))
		}
	}

	return out.String(), nil
}
