package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/nazuki/config"
	"github.com/sarchlab/nazuki/dispatch"
	"github.com/sarchlab/nazuki/verify"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration; the demo program is used when empty")
	output := flag.String("o", "", "output file (default stdout)")
	mode := flag.String("mode", "", "layout mode: dispatch or inline")
	strict := flag.Bool("strict", false, "check pointer neutrality while emitting")
	verifyRun := flag.Bool("verify", false, "simulate the generated code and check its output")
	reportPath := flag.String("report", "", "write a verification report to this file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			atexit.Fatalf("%v", err)
		}
	}
	cfg, err := config.FromEnv(cfg)
	if err != nil {
		atexit.Fatalf("invalid environment: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = *output
		case "mode":
			cfg.Mode = *mode
		case "strict":
			cfg.Strict = *strict
		case "verify":
			cfg.Verify = *verifyRun
		}
	})
	if err := cfg.Validate(); err != nil {
		atexit.Fatalf("invalid configuration: %v", err)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	program := cfg.ProgramOrDemo()
	if issues := verify.LintProgram(program); len(issues) > 0 {
		for _, issue := range issues {
			slog.Warn("program lint", "type", issue.Type, "pos", issue.Pos, "msg", issue.Message)
		}
	}

	compiler := dispatch.NewBuilder().
		WithMode(cfg.CompileMode()).
		WithStrict(cfg.Strict).
		Build("Nazuki")
	code, err := compiler.Compile(program)
	if err != nil {
		atexit.Fatalf("generation failed: %v", err)
	}

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			atexit.Fatalf("failed to create output: %v", err)
		}
		atexit.Register(func() { f.Close() })
		w = f
	}
	fmt.Fprintln(w, code)
	slog.Info("program generated",
		"compiler", compiler.Name(),
		"instructions", len(program),
		"distinct", program.Distinct(),
		"mode", compiler.Mode().String(),
		"length", len(code),
	)

	if cfg.Verify || *reportPath != "" {
		report := verify.GenerateReport(program, code, cfg.MaxSteps)
		if compiler.Mode() == dispatch.ModeInline {
			report.QueueBlocks = 0
		}
		if *reportPath != "" {
			if err := report.SaveReportToFile(*reportPath); err != nil {
				atexit.Fatalf("%v", err)
			}
		}
		if !report.Passed() {
			slog.Error("verification failed",
				"output", report.Output,
				"expected", report.Expected,
				"err", report.SimulationErr,
			)
			atexit.Exit(1)
		}
		slog.Info("verification passed", "steps", report.Steps)
	}

	atexit.Exit(0)
}
