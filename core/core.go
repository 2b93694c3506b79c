// Package core executes programs. A Core is an akita ticking component that
// runs one instruction per cycle until the program ends or fails.
package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/program"
)

// ErrStepLimit is returned when a program runs more instructions than allowed.
var ErrStepLimit = errors.New("step limit reached")

// Core runs a program against a bank table and a console.
type Core struct {
	*sim.TickingComponent

	state coreState
	emu   instEmulator

	bankLimit int
	stepLimit uint64
	err       error
}

// MapProgram sets the program that the core needs to run and resets all
// execution state.
func (c *Core) MapProgram(p program.Program) {
	c.err = c.state.reset(p, bank.NewTable(c.bankLimit))
}

// Tick runs one instruction.
func (c *Core) Tick() (madeProgress bool) {
	if c.state.Halted || c.err != nil {
		return false
	}

	if err := c.Step(); err != nil {
		Trace("Fault",
			"Time", float64(c.Engine.CurrentTime()*1e9),
			"IP", c.state.IP,
			"Error", err.Error(),
		)

		return false
	}

	return !c.state.Halted
}

// Step runs the next instruction outside of the engine.
func (c *Core) Step() error {
	if c.err != nil {
		return c.err
	}

	if c.state.Halted {
		return nil
	}

	if c.stepLimit > 0 && c.state.Steps >= c.stepLimit {
		c.err = fmt.Errorf("%w: %d instructions", ErrStepLimit, c.stepLimit)
		return c.err
	}

	if traceEnabled() && c.state.IP < len(c.state.Code) {
		Trace("Inst",
			"IP", c.state.IP,
			"Inst", c.state.Code[c.state.IP].String(),
			"Bank", c.state.SourceID,
		)
	}

	c.state.Steps++

	if err := c.emu.RunInst(&c.state); err != nil {
		c.err = err
		return err
	}

	return nil
}

// Err returns the error that stopped the program, if any.
func (c *Core) Err() error {
	return c.err
}

// Halted reports whether the program reached End.
func (c *Core) Halted() bool {
	return c.state.Halted
}

// Steps returns the number of instructions executed.
func (c *Core) Steps() uint64 {
	return c.state.Steps
}

// Banks returns the bank table of the current run.
func (c *Core) Banks() *bank.Table {
	return c.state.Banks
}

// CurrentBanks returns the ids of the source and the other bank.
func (c *Core) CurrentBanks() (source, other int32) {
	return c.state.SourceID, c.state.OtherID
}

// PrintState writes a dump of the execution state to w.
func (c *Core) PrintState(w io.Writer) {
	PrintState(w, &c.state)
}
