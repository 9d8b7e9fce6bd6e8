// Package config holds the settings of a generation run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gitlab.com/efronlicht/enve"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/nazuki/dispatch"
	"github.com/sarchlab/nazuki/isa"
	"github.com/sarchlab/nazuki/verify"
)

// Config describes one generation run. Verify runs the generated code on
// the functional simulator and compares its output with the direct
// evaluation of the program. An empty Output means stdout.
type Config struct {
	Mode     string      `yaml:"mode"`
	Strict   bool        `yaml:"strict"`
	LogLevel string      `yaml:"log_level"`
	Verify   bool        `yaml:"verify"`
	MaxSteps int         `yaml:"max_steps"`
	Output   string      `yaml:"output"`
	Program  isa.Program `yaml:"program"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Mode:     dispatch.ModeDispatch.String(),
		LogLevel: "info",
		MaxSteps: verify.DefaultMaxSteps,
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are errors.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return c, nil
}

// FromEnv overrides c with the NAZUKI_* environment variables that are set.
// Unset variables are skipped silently; a set variable that does not parse
// is an error.
func FromEnv(c Config) (Config, error) {
	overrides := []error{
		override(&c.Mode, parseString, "NAZUKI_MODE"),
		override(&c.Strict, strconv.ParseBool, "NAZUKI_STRICT"),
		override(&c.LogLevel, parseString, "NAZUKI_LOG_LEVEL"),
		override(&c.Verify, strconv.ParseBool, "NAZUKI_VERIFY"),
		override(&c.MaxSteps, strconv.Atoi, "NAZUKI_MAX_STEPS"),
		override(&c.Output, parseString, "NAZUKI_OUTPUT"),
	}
	return c, errors.Join(overrides...)
}

func parseString(s string) (string, error) {
	return s, nil
}

// override stores the parsed value of key in dst when key is set.
func override[T any](dst *T, parse func(string) (T, error), key string) error {
	v, err := enve.Lookup(parse, key)
	var missing enve.MissingKeyError
	if errors.As(err, &missing) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	if _, err := dispatch.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// CompileMode returns the configured layout mode.
func (c Config) CompileMode() dispatch.Mode {
	m, err := dispatch.ParseMode(c.Mode)
	if err != nil {
		panic(err)
	}
	return m
}

// Level returns the configured log level. "trace" is one step more verbose
// than "debug" and adds per-opcode messages.
func (c Config) Level() (slog.Level, error) {
	if strings.EqualFold(c.LogLevel, "trace") {
		return dispatch.LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return l, nil
}

// ProgramOrDemo returns the configured program, or the demo program when
// none is configured.
func (c Config) ProgramOrDemo() isa.Program {
	if len(c.Program) == 0 {
		return isa.DemoProgram()
	}
	return c.Program
}
