package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/nazuki/isa"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program       isa.Program
	CodeLen       int
	LintIssues    []Issue
	StructIssues  []Issue
	StackIssues   []Issue
	SimulationErr error
	SimulationOK  bool
	Output        string
	Expected      string
	OutputOK      bool
	Steps         int
	Tape          []byte

	// QueueBlocks is the number of opcode queue blocks in front of the
	// floor. It is len(Program) for dispatch-mode code and 0 for inline code.
	QueueBlocks int
}

// GenerateReport runs lint, simulates code and compares its output with
// the direct evaluation of p.
func GenerateReport(p isa.Program, code string, maxSteps int) *VerificationReport {
	report := &VerificationReport{
		Program:     p,
		CodeLen:     len(code),
		QueueBlocks: len(p),
	}

	report.LintIssues = append(RunLint(code), LintProgram(p)...)
	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.StackIssues = append(report.StackIssues, issue)
		}
	}

	expected, err := Evaluate(p)
	report.Expected = expected

	fs, simErr := NewFunctionalSimulator(code)
	if simErr == nil {
		simErr = fs.Run(maxSteps)
		report.Output = fs.Output()
		report.Steps = fs.Steps()
		report.Tape = fs.Memory()
	}
	report.SimulationErr = simErr
	report.SimulationOK = simErr == nil
	report.OutputOK = report.SimulationOK && err == nil && report.Output == expected

	return report
}

// Passed reports whether the code ran and printed the expected text.
func (r *VerificationReport) Passed() bool {
	return r.OutputOK && len(r.StructIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "TAPE PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ %d instructions, %d distinct, %d commands generated\n",
		len(r.Program), r.Program.Distinct(), r.CodeLen)
	prog := table.NewWriter()
	prog.SetTitle("Program")
	prog.AppendHeader(table.Row{"#", "Instruction"})
	for i, inst := range r.Program {
		prog.AppendRow(table.Row{i, inst.String()})
	}
	fmt.Fprintln(w, prog.Render())

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))
		for _, group := range []struct {
			name   string
			issues []Issue
		}{
			{"STRUCT", r.StructIssues},
			{"STACK", r.StackIssues},
		} {
			if len(group.issues) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s ISSUES (%d):\n", group.name, len(group.issues))
			fmt.Fprintln(w, dash)
			for _, issue := range group.issues {
				fmt.Fprintf(w, "  [pos=%d] %s\n", issue.Pos, issue.Message)
			}
		}
	}

	// STAGE 2: FUNCTIONAL SIMULATION
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	if r.SimulationOK {
		fmt.Fprintf(w, "✓ Simulation completed in %d steps\n", r.Steps)
	} else {
		fmt.Fprintf(w, "⚠ Simulation error: %v\n", r.SimulationErr)
	}
	fmt.Fprintf(w, "Output:   %q\n", r.Output)
	fmt.Fprintf(w, "Expected: %q\n", r.Expected)

	if len(r.Tape) > 0 {
		fmt.Fprintln(w)
		DumpTape(w, r.Tape, r.QueueBlocks)
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d STACK)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.StackIssues))
	simStatus := "SUCCESS"
	if !r.SimulationOK {
		simStatus = "FAILED: " + r.SimulationErr.Error()
	} else if !r.OutputOK {
		simStatus = "FAILED: output mismatch"
	}
	fmt.Fprintf(w, "Simulation Result: %s\n", simStatus)

	if r.Passed() {
		fmt.Fprintln(w, "✓ PROGRAM PASSED ALL CHECKS")
	}
	fmt.Fprintln(w)
}

// DumpTape renders mem as a table, one row per queue block followed by one
// row per 33-cell stack block starting at the floor.
func DumpTape(w io.Writer, mem []byte, queueBlocks int) {
	t := table.NewWriter()
	t.SetTitle("Tape")
	t.AppendHeader(table.Row{"Region", "Offset", "Cells"})

	end := queueBlocks * QueueStride
	if end > len(mem) {
		end = len(mem)
	}
	for off := 0; off < end; off += QueueStride {
		t.AppendRow(table.Row{
			fmt.Sprintf("queue %d", off/QueueStride),
			off,
			cells(mem, off, QueueStride),
		})
	}
	for off := end; off < len(mem); off += BlockWidth {
		region := "floor"
		if off > end {
			region = fmt.Sprintf("stack %d", (off-end)/BlockWidth-1)
		}
		t.AppendRow(table.Row{region, off, cells(mem, off, BlockWidth)})
	}

	fmt.Fprintln(w, t.Render())
}

func cells(mem []byte, off, n int) string {
	var sb strings.Builder
	for i := off; i < off+n && i < len(mem); i++ {
		if i > off {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", mem[i])
	}
	return sb.String()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
