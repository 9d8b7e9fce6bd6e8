package verify

import (
	"fmt"
	"strings"
)

const commands = "+-><[],."

// FunctionalSimulator executes tape-machine text.
type FunctionalSimulator struct {
	code  []byte
	jumps []int

	tape   []byte
	ptr    int
	pc     int
	steps  int
	input  []byte
	output strings.Builder
}

// NewFunctionalSimulator prepares code for execution. Characters outside
// the command alphabet are ignored. Loops are matched up front.
func NewFunctionalSimulator(code string) (*FunctionalSimulator, error) {
	fs := &FunctionalSimulator{
		tape: make([]byte, 1, 1024),
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(commands, code[i]) >= 0 {
			fs.code = append(fs.code, code[i])
		}
	}

	fs.jumps = make([]int, len(fs.code))
	var open []int
	for i, c := range fs.code {
		switch c {
		case '[':
			open = append(open, i)
		case ']':
			if len(open) == 0 {
				return nil, fmt.Errorf("%w: ']' at command %d", ErrUnmatchedBracket, i)
			}
			j := open[len(open)-1]
			open = open[:len(open)-1]
			fs.jumps[i] = j
			fs.jumps[j] = i
		}
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: '[' at command %d", ErrUnmatchedBracket, open[len(open)-1])
	}

	return fs, nil
}

// SetInput sets the bytes returned by ','. Reading past the end yields 0.
func (fs *FunctionalSimulator) SetInput(in []byte) {
	fs.input = append([]byte(nil), in...)
}

// Run executes the program for up to maxSteps commands. A non-positive
// maxSteps means DefaultMaxSteps. Run can be called again after
// ErrStepLimit to continue with a fresh budget.
func (fs *FunctionalSimulator) Run(maxSteps int) error {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	for budget := maxSteps; fs.pc < len(fs.code); fs.pc++ {
		if budget == 0 {
			return fmt.Errorf("%w: %d steps", ErrStepLimit, maxSteps)
		}
		budget--
		fs.steps++

		switch fs.code[fs.pc] {
		case '+':
			fs.tape[fs.ptr]++
		case '-':
			fs.tape[fs.ptr]--
		case '>':
			fs.ptr++
			if fs.ptr == len(fs.tape) {
				fs.tape = append(fs.tape, 0)
			}
		case '<':
			if fs.ptr == 0 {
				return fmt.Errorf("%w: command %d", ErrPointerUnderflow, fs.pc)
			}
			fs.ptr--
		case '[':
			if fs.tape[fs.ptr] == 0 {
				fs.pc = fs.jumps[fs.pc]
			}
		case ']':
			if fs.tape[fs.ptr] != 0 {
				fs.pc = fs.jumps[fs.pc]
			}
		case ',':
			var b byte
			if len(fs.input) > 0 {
				b, fs.input = fs.input[0], fs.input[1:]
			}
			fs.tape[fs.ptr] = b
		case '.':
			fs.output.WriteByte(fs.tape[fs.ptr])
		}
	}

	return nil
}

// Output returns everything written so far.
func (fs *FunctionalSimulator) Output() string {
	return fs.output.String()
}

// Pointer returns the current cell index.
func (fs *FunctionalSimulator) Pointer() int {
	return fs.ptr
}

// Steps returns the number of commands executed.
func (fs *FunctionalSimulator) Steps() int {
	return fs.steps
}

// Cell returns the value of cell i. Cells never visited read as 0.
func (fs *FunctionalSimulator) Cell(i int) byte {
	if i < 0 || i >= len(fs.tape) {
		return 0
	}
	return fs.tape[i]
}

// Memory returns a copy of the visited part of the tape.
func (fs *FunctionalSimulator) Memory() []byte {
	return append([]byte(nil), fs.tape...)
}

// Word decodes the 32 bit cells following the head at cell head into an
// integer, b0 first. Any nonzero cell counts as a set bit.
func (fs *FunctionalSimulator) Word(head int) int32 {
	var w uint32
	for i := 0; i < 32; i++ {
		if fs.Cell(head+1+i) != 0 {
			w |= 1 << i
		}
	}
	return int32(w)
}
