// Package lower implements the arithmetic routines that execute one
// instruction on the tape-resident operand stack.
//
// The stack grows to the right. Each element is a block of BlockWidth cells:
//
//	[head][b0][b1] ... [b31]
//
// The head is 1 for a live element. Each bit cell holds 0 or 1, least
// significant bit first. The pointer rests on the head of the first free
// block, called the terminus. Every cell at or beyond the terminus is zero
// between instructions, so routines use the cells to the right of the
// terminus as scratch space.
//
// A routine is emitted with the pointer on the terminus and leaves it on the
// new terminus, BlockWidth*(pushes-pops) cells away.
package lower

// BlockWidth is the number of cells of one stack element.
const BlockWidth = 1 + WordBits

// WordBits is the width of a machine word.
const WordBits = 32

// head returns the slot of the head of the element depth places below the
// terminus. The top of the stack has depth 1.
func head(depth int) int {
	return -BlockWidth * depth
}

// bit returns the slot of bit i of the element at depth.
func bit(depth, i int) int {
	return head(depth) + 1 + i
}
