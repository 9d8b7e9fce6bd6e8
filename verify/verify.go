// Package verify provides internal debugging tools for generated tape
// programs.
//
// This package implements two complementary verification stages:
//
// 1. Static Lint (lint.go): fast checks that need no execution
//   - STRUCT checks: bracket balance, adjacent inverse commands left in the text
//   - STACK checks: operand underflow and leftover values in the source program
//
// 2. Functional Simulator (funcsim.go): a small tape-machine interpreter
//   - Byte cells wrapping modulo 256, tape growing to the right
//   - Moving left of the first cell is an error, not a wrap
//   - A step limit guards against non-terminating programs
//
// # Tape Layout
//
// A program produced in dispatch mode leaves the tape as
//
//	[queue block 0 | ... | queue block n-1 | floor | stack element 0 | ...]
//	 9 cells each                            33      33 cells each
//
// and DumpTape groups cells along those boundaries. Inline programs have no
// queue, so the dump starts at the floor.
//
// The simulator is not part of generation. It exists so generated text can
// be checked in tests and from the verify-demo command.
package verify

import (
	"errors"
)

var (
	// ErrStepLimit is returned when a run exceeds its step budget.
	ErrStepLimit = errors.New("step limit exceeded")
	// ErrPointerUnderflow is returned when the pointer moves below cell 0.
	ErrPointerUnderflow = errors.New("pointer moved below the first cell")
	// ErrUnmatchedBracket is returned for programs whose loops do not pair up.
	ErrUnmatchedBracket = errors.New("unmatched bracket")
)

// DefaultMaxSteps is the step budget used when none is configured.
const DefaultMaxSteps = 10_000_000

// Layout widths used when grouping the tape for display.
const (
	QueueStride = 9
	BlockWidth  = 33
)

// IssueType classifies lint findings.
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Malformed or unoptimized command text
	IssueStack  IssueType = "STACK"  // Operand stack misuse in the source program
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT or STACK
	Pos     int                    // Character or instruction index (-1 if not applicable)
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}
