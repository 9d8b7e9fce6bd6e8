// Package emit builds tape-machine programs out of the eight primitive
// commands while statically tracking where the data pointer is.
package emit

import "fmt"

// Cmd is one of the eight primitive commands of the tape machine.
type Cmd uint8

const (
	Inc   Cmd = iota // +
	Dec              // -
	Right            // >
	Left             // <
	Open             // [
	Close            // ]
	Get              // ,
	Put              // .
)

const symbols = "+-><[],."

// Symbol returns the single-character spelling of the command.
func (c Cmd) Symbol() byte {
	return symbols[c]
}

func (c Cmd) String() string {
	return string(c.Symbol())
}

// inverse returns the command that cancels c, if any.
func (c Cmd) inverse() (Cmd, bool) {
	switch c {
	case Inc:
		return Dec, true
	case Dec:
		return Inc, true
	case Right:
		return Left, true
	case Left:
		return Right, true
	}
	return 0, false
}

// ParseCmd converts a command symbol back to a Cmd.
func ParseCmd(b byte) (Cmd, error) {
	for i := 0; i < len(symbols); i++ {
		if symbols[i] == b {
			return Cmd(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadSymbol, b)
}
