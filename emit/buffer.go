package emit

import (
	"errors"
	"strings"
)

var (
	// ErrBadSymbol is returned for characters outside the command alphabet.
	ErrBadSymbol = errors.New("not a command symbol")
)

// Buffer is an append-only command sequence. Appending a command that is
// the inverse of the last one removes that last command instead.
type Buffer struct {
	cmds []Cmd
}

// Append adds c to the end of the buffer, cancelling it against the
// previous command where possible.
func (b *Buffer) Append(c Cmd) {
	if n := len(b.cmds); n > 0 {
		if inv, ok := c.inverse(); ok && b.cmds[n-1] == inv {
			b.cmds = b.cmds[:n-1]
			return
		}
	}
	b.cmds = append(b.cmds, c)
}

// AppendString appends every command of code in order.
func (b *Buffer) AppendString(code string) error {
	for i := 0; i < len(code); i++ {
		c, err := ParseCmd(code[i])
		if err != nil {
			return err
		}
		b.Append(c)
	}
	return nil
}

// Len returns the number of buffered commands.
func (b *Buffer) Len() int {
	return len(b.cmds)
}

// Build renders the buffer. It does not modify the buffer.
func (b *Buffer) Build() string {
	var sb strings.Builder
	sb.Grow(len(b.cmds))
	for _, c := range b.cmds {
		sb.WriteByte(c.Symbol())
	}
	return sb.String()
}
