package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/nazuki/dispatch"
	"github.com/sarchlab/nazuki/isa"
	"github.com/sarchlab/nazuki/verify"
)

func main() {
	program := isa.DemoProgram()

	fmt.Println("==============================================================================")
	fmt.Println("DEMO PROGRAM VERIFICATION")
	fmt.Println("==============================================================================")
	fmt.Printf("\n%s\n\n", program)

	failed := false
	for _, mode := range []dispatch.Mode{dispatch.ModeDispatch, dispatch.ModeInline} {
		compiler := dispatch.NewBuilder().
			WithMode(mode).
			WithStrict(true).
			Build("Demo")

		code, err := compiler.Compile(program)
		if err != nil {
			atexit.Fatalf("%s: %v", mode, err)
		}

		fmt.Printf("MODE: %s (%d commands)\n", mode, len(code))
		report := verify.GenerateReport(program, code, verify.DefaultMaxSteps)
		if mode == dispatch.ModeInline {
			report.QueueBlocks = 0
		}
		report.WriteReport(os.Stdout)

		if !report.Passed() {
			failed = true
		}
	}

	if failed {
		fmt.Println("❌ VERIFICATION FAILED")
		atexit.Exit(1)
	}
	fmt.Println("✅ VERIFICATION PASSED")
	atexit.Exit(0)
}
