package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/asciiascii/console"
)

// Builder can create new cores.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	console       console.Console
	bankLimit     int
	stepLimit     uint64
	requireNumber bool
}

// NewBuilder creates a builder with default parameters.
func NewBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		requireNumber: true,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithConsole sets where input is read from and output is written to.
func (b Builder) WithConsole(c console.Console) Builder {
	b.console = c
	return b
}

// WithBankLimit caps the number of banks. Zero means no limit.
func (b Builder) WithBankLimit(limit int) Builder {
	if limit < 0 {
		panic("bank limit must not be negative")
	}

	b.bankLimit = limit
	return b
}

// WithStepLimit caps the number of executed instructions. Zero means no
// limit.
func (b Builder) WithStepLimit(limit uint64) Builder {
	b.stepLimit = limit
	return b
}

// WithRequireNumber sets whether number input waits for a valid line instead
// of failing.
func (b Builder) WithRequireNumber(require bool) Builder {
	b.requireNumber = require
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.console == nil {
		panic("core needs a console")
	}

	c := &Core{
		emu: instEmulator{
			console:       b.console,
			requireNumber: b.requireNumber,
		},
		bankLimit: b.bankLimit,
		stepLimit: b.stepLimit,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.MapProgram(nil)

	return c
}
