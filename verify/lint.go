package verify

import (
	"fmt"

	"github.com/sarchlab/nazuki/isa"
)

var inversePairs = map[[2]byte]bool{
	{'+', '-'}: true,
	{'-', '+'}: true,
	{'>', '<'}: true,
	{'<', '>'}: true,
}

// RunLint performs static checks on generated command text.
// It reports unbalanced brackets and adjacent inverse commands, which the
// emitter's cancellation rule should never leave behind.
// Returns a list of issues found, or empty list if no issues.
func RunLint(code string) []Issue {
	var issues []Issue

	depth := 0
	var prev byte
	prevPos := -1
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Pos:     i,
					Message: fmt.Sprintf("']' at %d has no matching '['", i),
				})
				depth = 0
			}
		case '+', '-', '>', '<', ',', '.':
		default:
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Pos:     i,
				Message: fmt.Sprintf("character %q at %d is not a command", c, i),
			})
			continue
		}

		if prevPos >= 0 && inversePairs[[2]byte{prev, c}] {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Pos:     prevPos,
				Message: fmt.Sprintf("%q followed by %q at %d cancels out", prev, c, prevPos),
				Details: map[string]interface{}{"pair": string([]byte{prev, c})},
			})
		}
		prev, prevPos = c, i
	}

	if depth > 0 {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Pos:     -1,
			Message: fmt.Sprintf("%d '[' left open at end of program", depth),
			Details: map[string]interface{}{"open": depth},
		})
	}

	return issues
}

// LintProgram checks the operand stack discipline of p: every instruction
// must find enough values, and nothing should be left at the end.
func LintProgram(p isa.Program) []Issue {
	var issues []Issue

	depth := 0
	for i, inst := range p {
		if !inst.Op.Valid() {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Pos:     i,
				Message: fmt.Sprintf("instruction %d has unknown op %s", i, inst.Op),
			})
			continue
		}

		if pops := inst.Op.Pops(); depth < pops {
			issues = append(issues, Issue{
				Type:    IssueStack,
				Pos:     i,
				Message: fmt.Sprintf("%s at %d needs %d values, stack has %d", inst, i, pops, depth),
				Details: map[string]interface{}{"needed": pops, "depth": depth},
			})
			depth = 0
		} else {
			depth -= pops
		}
		depth += inst.Op.Pushes()
	}

	if depth > 0 {
		issues = append(issues, Issue{
			Type:    IssueStack,
			Pos:     -1,
			Message: fmt.Sprintf("%d values left on the stack", depth),
			Details: map[string]interface{}{"depth": depth},
		})
	}

	return issues
}
