// Package api is the host-facing entry point of the generator.
package api

import (
	"github.com/sarchlab/nazuki/dispatch"
	"github.com/sarchlab/nazuki/isa"
)

// Generate returns the tape-machine text of the demo program.
func Generate() string {
	code, err := GenerateProgram(isa.DemoProgram())
	if err != nil {
		panic(err)
	}
	return code
}

// GenerateProgram compiles p in dispatch mode with the standard routines.
func GenerateProgram(p isa.Program) (string, error) {
	return dispatch.NewBuilder().Build("API").Compile(p)
}
