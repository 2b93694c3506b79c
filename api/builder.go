package api

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/asciiascii/console"
	"github.com/sarchlab/asciiascii/core"
	"github.com/sarchlab/asciiascii/lexer"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine        sim.Engine
	freq          sim.Freq
	console       console.Console
	logger        *slog.Logger
	optimize      bool
	requireNumber bool
	bankLimit     int
	stepLimit     uint64
}

// NewDriverBuilder creates a builder with optimization and required number
// input enabled.
func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq:          1 * sim.GHz,
		optimize:      true,
		requireNumber: true,
	}
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency the core runs at.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithConsole sets the console programs read from and write to.
func (b DriverBuilder) WithConsole(c console.Console) DriverBuilder {
	b.console = c
	return b
}

// WithLogger sets the logger the lexer reports notes to.
func (b DriverBuilder) WithLogger(logger *slog.Logger) DriverBuilder {
	b.logger = logger
	return b
}

// WithOptimize turns the optimizer on or off.
func (b DriverBuilder) WithOptimize(optimize bool) DriverBuilder {
	b.optimize = optimize
	return b
}

// WithRequireNumber sets whether number input waits for a valid line.
func (b DriverBuilder) WithRequireNumber(require bool) DriverBuilder {
	b.requireNumber = require
	return b
}

// WithBankLimit caps the number of banks a run may create.
func (b DriverBuilder) WithBankLimit(limit int) DriverBuilder {
	b.bankLimit = limit
	return b
}

// WithStepLimit caps the number of instructions a run may execute.
func (b DriverBuilder) WithStepLimit(limit uint64) DriverBuilder {
	b.stepLimit = limit
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		b.engine = sim.NewSerialEngine()
	}

	if b.console == nil {
		b.console = console.NewTerminal()
	}

	d := &driverImpl{
		engine:   b.engine,
		console:  b.console,
		lexer:    lexer.New(b.logger),
		optimize: b.optimize,
	}

	d.core = core.NewBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		WithConsole(b.console).
		WithRequireNumber(b.requireNumber).
		WithBankLimit(b.bankLimit).
		WithStepLimit(b.stepLimit).
		Build(name + ".Core")

	return d
}
